package manipulador

import (
	"net/http"

	"github.com/iuriramos93/Prostest-System/internal/dominio"

	"github.com/gin-gonic/gin"
)

// GET /api/configuracoes
func (h *Handlers) ListarConfiguracoes(c *gin.Context) {
	configs, err := h.Configuracoes.Listar(c.Request.Context())
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, configs)
}

// PUT /api/configuracoes/:chave
func (h *Handlers) SalvarConfiguracao(c *gin.Context) {
	var req struct {
		Valor     string `json:"valor"`
		Descricao string `json:"descricao"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Dados inválidos"})
		return
	}
	cfg, err := h.Configuracoes.Salvar(c.Request.Context(), c.Param("chave"), req.Valor, req.Descricao, usuarioAtual(c).ID)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// GET /api/logs
func (h *Handlers) ListarLogs(c *gin.Context) {
	per, err := periodo(c)
	if err != nil {
		responderErro(c, err)
		return
	}
	usuarioID, err := queryUint(c, "usuarioId", "usuario_id")
	if err != nil {
		responderErro(c, err)
		return
	}
	f := dominio.FiltroLogs{UsuarioID: usuarioID, Acao: c.Query("acao"), Periodo: per}
	pagina, err := h.Logs.Listar(c.Request.Context(), f, paginacao(c))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, pagina)
}
