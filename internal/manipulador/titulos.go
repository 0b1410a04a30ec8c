package manipulador

import (
	"net/http"

	"github.com/iuriramos93/Prostest-System/internal/dominio"

	"github.com/gin-gonic/gin"
)

// GET /api/titulos
func (h *Handlers) ListarTitulos(c *gin.Context) {
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

	f := dominio.FiltroTitulos{
		Numero:    c.Query("numero"),
		Protocolo: c.Query("protocolo"),
		Status:    dominio.StatusTitulo(c.Query("status")),
		Devedor:   c.Query("devedor"),
		RemessaID: remessaID,
		Periodo:   per,
	}
	pagina, err := h.Titulos.Listar(c.Request.Context(), f, paginacao(c))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, pagina)
}

// GET /api/titulos/:id
func (h *Handlers) BuscarTitulo(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	detalhe, err := h.Titulos.Buscar(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, detalhe)
}

// PUT /api/titulos/:id/status
func (h *Handlers) AlterarStatusTitulo(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Status é obrigatório"})
		return
	}

	titulo, err := h.Titulos.AlterarStatus(c.Request.Context(), id, dominio.StatusTitulo(req.Status), usuarioAtual(c).ID)
	if err != nil {
		responderErro(c, err)
		return
	}
	h.invalidarCache(c)
	c.JSON(http.StatusOK, titulo)
}

// GET /api/titulos/estatisticas
func (h *Handlers) EstatisticasTitulos(c *gin.Context) {
	est, err := h.Titulos.Estatisticas(c.Request.Context())
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, est)
}
