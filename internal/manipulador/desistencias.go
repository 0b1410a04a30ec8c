package manipulador

import (
	"net/http"

	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/servico"

	"github.com/gin-gonic/gin"
)

// GET /api/desistencias
func (h *Handlers) ListarDesistencias(c *gin.Context) {
	per, err := periodo(c)
	if err != nil {
		responderErro(c, err)
		return
	}
	tituloID, err := queryUint(c, "tituloId", "titulo_id")
	if err != nil {
		responderErro(c, err)
		return
	}

	f := dominio.FiltroDesistencias{
		Status:    dominio.StatusDesistencia(c.Query("status")),
		Protocolo: c.Query("protocolo"),
		TituloID:  tituloID,
		Periodo:   per,
	}
	pagina, err := h.Desistencias.Listar(c.Request.Context(), f, paginacao(c))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, pagina)
}

// GET /api/desistencias/:id
func (h *Handlers) BuscarDesistencia(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	d, err := h.Desistencias.Buscar(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /api/desistencias
func (h *Handlers) CriarDesistencia(c *gin.Context) {
	var req struct {
		TituloID    *uint  `json:"tituloId"`
		Protocolo   string `json:"protocolo"`
		Motivo      string `json:"motivo" binding:"required"`
		Observacoes string `json:"observacoes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Motivo é obrigatório"})
		return
	}

	d, err := h.Desistencias.Solicitar(c.Request.Context(), servico.PedidoDesistencia{
		TituloID:    req.TituloID,
		Protocolo:   req.Protocolo,
		Motivo:      req.Motivo,
		Observacoes: req.Observacoes,
	}, usuarioAtual(c).ID)
	if err != nil {
		responderErro(c, err)
		return
	}
	h.invalidarCache(c)
	c.JSON(http.StatusCreated, d)
}

// PUT /api/desistencias/:id/processar
func (h *Handlers) ProcessarDesistencia(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Status      string `json:"status" binding:"required,oneof=APROVADA REJEITADA"`
		Observacoes string `json:"observacoes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Status deve ser APROVADA ou REJEITADA"})
		return
	}

	d, err := h.Desistencias.Processar(c.Request.Context(), id, dominio.StatusDesistencia(req.Status), req.Observacoes, usuarioAtual(c).ID)
	if err != nil {
		responderErro(c, err)
		return
	}
	h.invalidarCache(c)
	c.JSON(http.StatusOK, d)
}

// GET /api/desistencias/estatisticas
func (h *Handlers) EstatisticasDesistencias(c *gin.Context) {
	est, err := h.Desistencias.Estatisticas(c.Request.Context())
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, est)
}
