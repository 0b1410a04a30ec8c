package manipulador

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/iuriramos93/Prostest-System/internal/exportacao"
	"github.com/iuriramos93/Prostest-System/internal/servico"

	"github.com/gin-gonic/gin"
)

// GET /api/relatorios/:tipo
func (h *Handlers) GerarRelatorio(c *gin.Context) {
	tipo, ok := servico.NormalizarTipoRelatorio(c.Param("tipo"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Tipo de relatório inválido: " + c.Param("tipo")})
		return
	}
	formato, ok := exportacao.NormalizarFormato(c.Query("formato"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Formato inválido: " + c.Query("formato")})
		return
	}

	var q struct {
		Status      string `form:"status"`
		UF          string `form:"uf" binding:"omitempty,uf"`
		Tipo        string `form:"tipo"`
		Modulo      string `form:"modulo"`
		Criticidade string `form:"criticidade"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		responderErro(c, err)
		return
	}
	per, err := periodo(c)
	if err != nil {
		responderErro(c, err)
		return
	}

	rel, tabela, err := h.Relatorios.Gerar(c.Request.Context(), tipo, servico.FiltroRelatorio{
		Status:      q.Status,
		UF:          q.UF,
		Tipo:        q.Tipo,
		Modulo:      q.Modulo,
		Criticidade: q.Criticidade,
		Periodo:     per,
	})
	if err != nil {
		responderErro(c, err)
		return
	}

	if formato == exportacao.FormatoJSON {
		c.JSON(http.StatusOK, rel)
		return
	}

	var buf bytes.Buffer
	if err := exportacao.Exportar(&buf, formato, tabela); err != nil {
		responderErro(c, err)
		return
	}
	nome := fmt.Sprintf("relatorio_%s_%s.%s", tipo, rel.GeradoEm.Format("20060102_150405"), formato.Extensao())
	c.Header("Content-Disposition", "attachment; filename="+nome)
	c.Data(http.StatusOK, formato.ContentType(), buf.Bytes())
}

// GET /api/dashboard/resumo
func (h *Handlers) ResumoDashboard(c *gin.Context) {
	resumo, err := h.Dashboard.Resumo(c.Request.Context())
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resumo)
}
