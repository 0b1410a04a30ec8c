package manipulador

import (
	"log"
	"net/http"
	"strings"

	"github.com/iuriramos93/Prostest-System/internal/dominio"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func naoAutorizado(c *gin.Context, motivo string) {
	log.Printf("Autenticação recusada em %s: %s", c.FullPath(), motivo)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Não autorizado"})
}

// Autenticacao aceita Bearer (token emitido no login) ou Basic (email:senha).
func (h *Handlers) Autenticacao() gin.HandlerFunc {
	return func(c *gin.Context) {
		cabecalho := c.GetHeader("Authorization")
		ctx := c.Request.Context()

		var (
			usuario *dominio.Usuario
			err     error
		)
		switch {
		case cabecalho == "":
			naoAutorizado(c, "cabeçalho Authorization ausente")
			return
		case strings.HasPrefix(cabecalho, "Bearer "):
			id, errToken := h.Tokens.ValidarToken(strings.TrimSpace(strings.TrimPrefix(cabecalho, "Bearer ")))
			if errToken != nil {
				naoAutorizado(c, errToken.Error())
				return
			}
			usuario, err = h.Usuarios.BuscarAtivo(ctx, id)
		case strings.HasPrefix(cabecalho, "Basic "):
			email, senha, ok := c.Request.BasicAuth()
			if !ok {
				naoAutorizado(c, "cabeçalho Basic malformado")
				return
			}
			usuario, err = h.Usuarios.AutenticarBasic(ctx, email, senha)
		default:
			naoAutorizado(c, "esquema de autenticação desconhecido")
			return
		}
		if err != nil {
			naoAutorizado(c, err.Error())
			return
		}

		c.Set(chaveUsuario, usuario)
		c.Next()
	}
}

// PerfilMinimo barra com 403 quem não tem ao menos o perfil informado.
func PerfilMinimo(minimo dominio.Perfil) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := usuarioAtual(c)
		if u == nil {
			naoAutorizado(c, "usuário não resolvido")
			return
		}
		if !u.Perfil.Abrange(minimo) {
			log.Printf("Acesso negado para usuário %d (%s). Perfil requerido: %s, perfil do usuário: %s", u.ID, u.Email, minimo, u.Perfil)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Acesso negado"})
			return
		}
		c.Next()
	}
}

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// CORS libera as origens configuradas; lista vazia libera qualquer origem.
func CORS(origens []string) gin.HandlerFunc {
	permitidas := make(map[string]bool, len(origens))
	for _, o := range origens {
		if o = strings.TrimSpace(o); o != "" {
			permitidas[o] = true
		}
	}
	return func(c *gin.Context) {
		origem := c.GetHeader("Origin")
		switch {
		case len(permitidas) == 0:
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case permitidas[origem]:
			c.Writer.Header().Set("Access-Control-Allow-Origin", origem)
			c.Writer.Header().Set("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
