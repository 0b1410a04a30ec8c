package manipulador

import (
	"net/http"
	"strconv"

	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/servico"

	"github.com/gin-gonic/gin"
)

// GET /api/usuarios
func (h *Handlers) ListarUsuarios(c *gin.Context) {
	f := dominio.FiltroUsuarios{
		Perfil: dominio.Perfil(c.Query("perfil")),
		Busca:  c.Query("busca"),
	}
	if v := c.Query("ativo"); v != "" {
		ativo, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Parâmetro ativo inválido"})
			return
		}
		f.Ativo = &ativo
	}

	pagina, err := h.Usuarios.Listar(c.Request.Context(), f, paginacao(c))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, pagina)
}

// GET /api/usuarios/:id
func (h *Handlers) BuscarUsuario(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	u, err := h.Usuarios.Buscar(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// POST /api/usuarios
func (h *Handlers) CriarUsuario(c *gin.Context) {
	var req struct {
		Nome   string `json:"nome" binding:"required"`
		Email  string `json:"email" binding:"required,email"`
		Senha  string `json:"senha" binding:"required,min=6,max=72"`
		Perfil string `json:"perfil" binding:"omitempty,perfil"`
		Ativo  *bool  `json:"ativo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Dados inválidos: " + err.Error()})
		return
	}

	u, err := h.Usuarios.Criar(c.Request.Context(), servico.NovoUsuario{
		Nome:   req.Nome,
		Email:  req.Email,
		Senha:  req.Senha,
		Perfil: dominio.Perfil(req.Perfil),
		Ativo:  req.Ativo,
	}, idUsuarioAtual(c))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// PUT /api/usuarios/:id
func (h *Handlers) AtualizarUsuario(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Nome   *string `json:"nome"`
		Email  *string `json:"email" binding:"omitempty,email"`
		Senha  *string `json:"senha" binding:"omitempty,min=6,max=72"`
		Perfil *string `json:"perfil" binding:"omitempty,perfil"`
		Ativo  *bool   `json:"ativo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Dados inválidos: " + err.Error()})
		return
	}

	alteracao := servico.AlteracaoUsuario{Nome: req.Nome, Email: req.Email, Senha: req.Senha, Ativo: req.Ativo}
	if req.Perfil != nil {
		p := dominio.Perfil(*req.Perfil)
		alteracao.Perfil = &p
	}
	u, err := h.Usuarios.Atualizar(c.Request.Context(), id, alteracao, idUsuarioAtual(c))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// DELETE /api/usuarios/:id
func (h *Handlers) RemoverUsuario(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.Usuarios.Remover(c.Request.Context(), id, usuarioAtual(c).ID); err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Usuário excluído com sucesso"})
}
