package limite

import (
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Middleware bloqueia com 429 o cliente que excedeu o limite, usando o IP como chave.
func Middleware(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, espera := s.Permitir(c.ClientIP())
		if !ok {
			segundos := int(math.Ceil(espera.Seconds()))
			if segundos < 1 {
				segundos = 1
			}
			log.Printf("Limite de requisições excedido para %s em %s", c.ClientIP(), c.FullPath())
			c.Header("Retry-After", strconv.Itoa(segundos))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Muitas tentativas. Tente novamente em instantes."})
			return
		}
		c.Next()
	}
}
