package manipulador

import (
	"net/http"

	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/servico"

	"github.com/gin-gonic/gin"
)

// GET /api/erros
func (h *Handlers) ListarErros(c *gin.Context) {
	per, err := periodo(c)
	if err != nil {
		responderErro(c, err)
		return
	}
	remessaID, err := queryUint(c, "remessaId", "remessa_id")
	if err != nil {
		responderErro(c, err)
		return
	}

	f := dominio.FiltroErros{
		Modulo:      c.Query("modulo"),
		Criticidade: dominio.Criticidade(c.Query("criticidade")),
		Status:      dominio.StatusErro(c.Query("status")),
		RemessaID:   remessaID,
		Periodo:     per,
	}
	pagina, err := h.Erros.Listar(c.Request.Context(), f, paginacao(c))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, pagina)
}

// GET /api/erros/:id
func (h *Handlers) BuscarErro(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	e, err := h.Erros.Buscar(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// POST /api/erros
func (h *Handlers) RegistrarErro(c *gin.Context) {
	var req struct {
		Codigo      string `json:"codigo" binding:"required"`
		Mensagem    string `json:"mensagem" binding:"required"`
		Modulo      string `json:"modulo" binding:"required"`
		Criticidade string `json:"criticidade" binding:"omitempty,oneof=Baixa Media Alta"`
		RemessaID   *uint  `json:"remessaId"`
		TituloID    *uint  `json:"tituloId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Dados inválidos: " + err.Error()})
		return
	}

	e, err := h.Erros.Registrar(c.Request.Context(), servico.NovoErro{
		Codigo:      req.Codigo,
		Mensagem:    req.Mensagem,
		Modulo:      req.Modulo,
		Criticidade: dominio.Criticidade(req.Criticidade),
		RemessaID:   req.RemessaID,
		TituloID:    req.TituloID,
	}, idUsuarioAtual(c))
	if err != nil {
		responderErro(c, err)
		return
	}
	h.invalidarCache(c)
	c.JSON(http.StatusCreated, e)
}

// PUT /api/erros/:id
func (h *Handlers) AtualizarErro(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Solucao string `json:"solucao"`
		Status  string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Dados inválidos"})
		return
	}

	e, err := h.Erros.Atualizar(c.Request.Context(), id, req.Solucao, dominio.StatusErro(req.Status), usuarioAtual(c).ID)
	if err != nil {
		responderErro(c, err)
		return
	}
	h.invalidarCache(c)
	c.JSON(http.StatusOK, e)
}

// GET /api/erros/estatisticas
func (h *Handlers) EstatisticasErros(c *gin.Context) {
	est, err := h.Erros.Estatisticas(c.Request.Context())
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, est)
}
