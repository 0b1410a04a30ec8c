package manipulador

import (
	"net/http"
	"strings"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/dominio"

	"github.com/gin-gonic/gin"
)

// GET /api/protestos
func (h *Handlers) ListarProtestos(c *gin.Context) {
	per, err := periodo(c)
	if err != nil {
		responderErro(c, err)
		return
	}
	f := dominio.FiltroTitulos{
		Numero:    c.Query("numero"),
		Protocolo: c.Query("protocolo"),
		Devedor:   c.Query("devedor"),
		Periodo:   per,
	}
	pagina, err := h.Titulos.ListarProtestos(c.Request.Context(), f, paginacao(c))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, pagina)
}

// GET /api/protestos/dashboard
func (h *Handlers) DashboardProtestos(c *gin.Context) {
	d, err := h.Titulos.DashboardProtestos(c.Request.Context())
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GET /api/protestos/:id
func (h *Handlers) BuscarProtesto(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	d, err := h.Titulos.BuscarProtesto(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /api/protestos/registrar
func (h *Handlers) RegistrarProtesto(c *gin.Context) {
	var req struct {
		TituloID     uint   `json:"titulo_id" binding:"required"`
		DataProtesto string `json:"data_protesto"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID do título é obrigatório"})
		return
	}

	var data *time.Time
	if v := strings.TrimSpace(req.DataProtesto); v != "" {
		d, err := time.ParseInLocation(dominio.LayoutData, v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Data do protesto inválida, use AAAA-MM-DD"})
			return
		}
		data = &d
	}

	titulo, err := h.Titulos.RegistrarProtesto(c.Request.Context(), req.TituloID, data, usuarioAtual(c).ID)
	if err != nil {
		responderErro(c, err)
		return
	}
	h.invalidarCache(c)
	c.JSON(http.StatusOK, titulo)
}

// POST /api/protestos/cancelar/:id
func (h *Handlers) CancelarProtesto(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Motivo string `json:"motivo" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Motivo) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Motivo do cancelamento é obrigatório"})
		return
	}

	titulo, err := h.Titulos.CancelarProtesto(c.Request.Context(), id, strings.TrimSpace(req.Motivo), usuarioAtual(c).ID)
	if err != nil {
		responderErro(c, err)
		return
	}
	h.invalidarCache(c)
	c.JSON(http.StatusOK, gin.H{"message": "Protesto cancelado", "titulo": titulo})
}
