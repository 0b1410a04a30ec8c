package manipulador

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/servico"

	"github.com/gin-gonic/gin"
)

// arquivoEnviado aceita tanto o campo "arquivo" quanto "file".
func arquivoEnviado(c *gin.Context) (*multipart.FileHeader, error) {
	fh, err := c.FormFile("arquivo")
	if errors.Is(err, http.ErrMissingFile) {
		fh, err = c.FormFile("file")
	}
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	return fh, err
}

func (h *Handlers) receberUpload(c *gin.Context, tipoPadrao string) {
	if h.MaxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUpload)
	}

	fh, err := arquivoEnviado(c)
	if err != nil {
		var excesso *http.MaxBytesError
		if errors.As(err, &excesso) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": fmt.Sprintf("Arquivo excede o limite de %d bytes", h.MaxUpload)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": "Formulário inválido: " + err.Error()})
		return
	}

	pedido := servico.PedidoUpload{
		Tipo:      c.PostForm("tipo"),
		UF:        c.PostForm("uf"),
		Descricao: c.PostForm("descricao"),
		UsuarioID: idUsuarioAtual(c),
	}
	if pedido.Tipo == "" {
		pedido.Tipo = tipoPadrao
	}
	if fh != nil {
		pedido.NomeArquivo = fh.Filename
	}

	// valida antes de ler o conteúdo para não tocar em nada com pedido incompleto
	if _, _, err := h.Ingestao.Validar(pedido); err != nil {
		responderErro(c, err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Falha ao ler arquivo: " + err.Error()})
		return
	}
	defer f.Close()
	if pedido.Conteudo, err = io.ReadAll(f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Falha ao ler arquivo: " + err.Error()})
		return
	}

	res, err := h.Ingestao.Processar(c.Request.Context(), pedido)
	if err != nil {
		if errors.Is(err, dominio.ErrValidacao) {
			responderErro(c, err)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro ao processar remessa: " + err.Error()})
		return
	}
	h.invalidarCache(c)

	mensagem := "Remessa enviada com sucesso"
	if res.Remessa.Status == dominio.StatusRemessaErro {
		mensagem = fmt.Sprintf("Remessa enviada com %d erro(s) de validação", res.Erros)
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":           res.Remessa.ID,
		"message":      mensagem,
		"status":       res.Remessa.Status,
		"titulos":      res.Titulos,
		"desistencias": res.Desistencias,
		"erros":        res.Erros,
	})
}

// POST /api/remessas/upload
func (h *Handlers) UploadRemessa(c *gin.Context) {
	h.receberUpload(c, "")
}

// POST /api/desistencias/upload
func (h *Handlers) UploadDesistencias(c *gin.Context) {
	h.receberUpload(c, string(dominio.TipoRemessaDesistencia))
}

// GET /api/remessas
func (h *Handlers) ListarRemessas(c *gin.Context) {
	var q struct {
		Tipo        string `form:"tipo"`
		UF          string `form:"uf" binding:"omitempty,uf"`
		Status      string `form:"status"`
		NomeArquivo string `form:"nome_arquivo"`
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

	f := dominio.FiltroRemessas{
		Status:      dominio.StatusRemessa(q.Status),
		NomeArquivo: q.NomeArquivo,
		Periodo:     per,
	}
	if q.Tipo != "" {
		tipo, ok := dominio.NormalizarTipoRemessa(q.Tipo)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Tipo inválido: " + q.Tipo})
			return
		}
		f.Tipo = tipo
	}
	if q.UF != "" {
		f.UF, _ = dominio.NormalizarUF(q.UF)
	}

	pagina, err := h.Remessas.Listar(c.Request.Context(), f, paginacao(c))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, pagina)
}

// GET /api/remessas/estatisticas
func (h *Handlers) EstatisticasRemessas(c *gin.Context) {
	est, err := h.Remessas.Estatisticas(c.Request.Context())
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, est)
}

// GET /api/remessas/:id
func (h *Handlers) BuscarRemessa(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	detalhe, err := h.Remessas.Detalhe(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, detalhe)
}

// GET /api/remessas/:id/arquivo
func (h *Handlers) BaixarArquivoRemessa(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	rc, nome, err := h.Remessas.Arquivo(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nome))
	c.DataFromReader(http.StatusOK, -1, "application/xml", rc, nil)
}
