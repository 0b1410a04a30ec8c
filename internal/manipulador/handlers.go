package manipulador

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/iuriramos93/Prostest-System/internal/auth"
	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/servico"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Handlers struct {
	Tokens        *auth.TokenService
	Ingestao      *servico.IngestaoService
	Usuarios      *servico.UsuarioService
	Remessas      *servico.RemessaService
	Titulos       *servico.TituloService
	Desistencias  *servico.DesistenciaService
	Erros         *servico.ErroService
	Relatorios    *servico.RelatorioService
	Dashboard     *servico.DashboardService
	Configuracoes *servico.ConfiguracaoService
	Logs          *servico.LogService
	// MaxUpload limita o corpo do upload, em bytes.
	MaxUpload int64
}

const chaveUsuario = "usuario"

// usuarioAtual devolve o usuário resolvido pelo middleware de autenticação.
func usuarioAtual(c *gin.Context) *dominio.Usuario {
	v, ok := c.Get(chaveUsuario)
	if !ok {
		return nil
	}
	u, _ := v.(*dominio.Usuario)
	return u
}

func idUsuarioAtual(c *gin.Context) *uint {
	if u := usuarioAtual(c); u != nil {
		return &u.ID
	}
	return nil
}

func responderErro(c *gin.Context, err error) {
	var validacao validator.ValidationErrors
	switch {
	case errors.As(err, &validacao):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Dados inválidos: " + err.Error()})
	case errors.Is(err, dominio.ErrValidacao), errors.Is(err, dominio.ErrTransicaoInvalida):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, dominio.ErrNaoEncontrado):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, dominio.ErrConflito), errors.Is(err, dominio.ErrEmailDuplicado), errors.Is(err, dominio.ErrProtocoloDuplicado):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, dominio.ErrCredenciais):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case errors.Is(err, dominio.ErrUsuarioInativo), errors.Is(err, dominio.ErrSemPermissao):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	default:
		log.Printf("Erro em %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	}
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return 0, false
	}
	return uint(id), true
}

// paginacao lê page e per_page; valores ausentes ou inválidos caem no padrão
// e números grandes demais para int viram a última página permitida.
func paginacao(c *gin.Context) dominio.Paginacao {
	return dominio.NovaPaginacao(inteiroLimitado(c.Query("page")), inteiroLimitado(c.Query("per_page")))
}

func inteiroLimitado(texto string) int {
	n, err := strconv.ParseInt(texto, 10, 32)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) && n > 0 {
			return math.MaxInt32
		}
		return 0
	}
	return int(n)
}

func primeiraQuery(c *gin.Context, chaves ...string) string {
	for _, k := range chaves {
		if v := c.Query(k); v != "" {
			return v
		}
	}
	return ""
}

func periodo(c *gin.Context) (dominio.Periodo, error) {
	return dominio.NovoPeriodo(
		primeiraQuery(c, "dataInicio", "data_inicio"),
		primeiraQuery(c, "dataFim", "data_fim"),
	)
}

func queryUint(c *gin.Context, chaves ...string) (*uint, error) {
	v := primeiraQuery(c, chaves...)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return nil, dominio.Invalido("%s inválido: %s", chaves[0], v)
	}
	id := uint(n)
	return &id, nil
}

func (h *Handlers) invalidarCache(c *gin.Context) {
	h.Dashboard.Invalidar(c.Request.Context())
}

// GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
