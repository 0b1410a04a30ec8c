package manipulador

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Senha    string `json:"senha"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Dados de login incompletos"})
		return
	}
	senha := req.Password
	if senha == "" {
		senha = req.Senha
	}

	usuario, token, err := h.Usuarios.Autenticar(c.Request.Context(), req.Email, senha)
	if err != nil {
		responderErro(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         usuario,
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int64(h.Tokens.Expiracao().Seconds()),
	})
}

// GET /api/auth/me
func (h *Handlers) Me(c *gin.Context) {
	c.JSON(http.StatusOK, usuarioAtual(c))
}
