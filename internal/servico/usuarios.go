package servico

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/auth"
	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/repositorio"
)

type NovoUsuario struct {
	Nome   string
	Email  string
	Senha  string
	Perfil dominio.Perfil
	Ativo  *bool
}

// AlteracaoUsuario carrega só os campos enviados; nil mantém o valor atual.
type AlteracaoUsuario struct {
	Nome   *string
	Email  *string
	Senha  *string
	Perfil *dominio.Perfil
	Ativo  *bool
}

type UsuarioService struct {
	store  repositorio.Store
	tokens *auth.TokenService
	agora  Relogio
}

func NovoUsuarioService(store repositorio.Store, tokens *auth.TokenService) *UsuarioService {
	return &UsuarioService{store: store, tokens: tokens, agora: time.Now}
}

func (s *UsuarioService) credenciais(ctx context.Context, email, senha string) (*dominio.Usuario, error) {
	u, err := s.store.BuscarUsuarioPorEmail(ctx, dominio.NormalizarEmail(email))
	if errors.Is(err, dominio.ErrNaoEncontrado) {
		return nil, dominio.ErrCredenciais
	}
	if err != nil {
		return nil, err
	}
	if !auth.ConferirSenha(u.SenhaHash, senha) {
		return nil, dominio.ErrCredenciais
	}
	if !u.Ativo {
		return nil, dominio.ErrUsuarioInativo
	}
	return u, nil
}

// Autenticar confere as credenciais e emite o token de acesso.
func (s *UsuarioService) Autenticar(ctx context.Context, email, senha string) (*dominio.Usuario, string, error) {
	if strings.TrimSpace(email) == "" || senha == "" {
		return nil, "", dominio.Invalido("Dados de login incompletos")
	}
	u, err := s.credenciais(ctx, email, senha)
	if err != nil {
		return nil, "", err
	}

	agora := s.agora()
	u.UltimoAcesso = &agora
	if err := s.store.AtualizarUsuario(ctx, u); err != nil {
		return nil, "", fmt.Errorf("falha ao registrar último acesso: %w", err)
	}
	registrarLog(ctx, s.store, &u.ID, "login", "Login realizado: "+u.Email, agora)

	token, err := s.tokens.NovoToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// AutenticarBasic atende o cabeçalho Basic, sem emitir token.
func (s *UsuarioService) AutenticarBasic(ctx context.Context, email, senha string) (*dominio.Usuario, error) {
	return s.credenciais(ctx, email, senha)
}

// BuscarAtivo resolve o usuário de um token; inexistente ou inativo vira ErrCredenciais.
func (s *UsuarioService) BuscarAtivo(ctx context.Context, id uint) (*dominio.Usuario, error) {
	u, err := s.store.BuscarUsuario(ctx, id)
	if errors.Is(err, dominio.ErrNaoEncontrado) {
		return nil, dominio.ErrCredenciais
	}
	if err != nil {
		return nil, err
	}
	if !u.Ativo {
		return nil, dominio.ErrCredenciais
	}
	return u, nil
}

func (s *UsuarioService) Listar(ctx context.Context, f dominio.FiltroUsuarios, p dominio.Paginacao) (dominio.Pagina[dominio.Usuario], error) {
	itens, total, err := s.store.ListarUsuarios(ctx, f, p)
	if err != nil {
		return dominio.Pagina[dominio.Usuario]{}, err
	}
	return dominio.NovaPagina(itens, p, total), nil
}

func (s *UsuarioService) Buscar(ctx context.Context, id uint) (*dominio.Usuario, error) {
	u, err := s.store.BuscarUsuario(ctx, id)
	if err != nil {
		return nil, naoEncontrado("usuário", id, err)
	}
	return u, nil
}

func (s *UsuarioService) Criar(ctx context.Context, n NovoUsuario, autorID *uint) (*dominio.Usuario, error) {
	if strings.TrimSpace(n.Nome) == "" || strings.TrimSpace(n.Email) == "" || n.Senha == "" {
		return nil, dominio.Invalido("Nome, email e senha são obrigatórios")
	}
	if n.Perfil == "" {
		n.Perfil = dominio.PerfilVisualizador
	}
	if !n.Perfil.Valido() {
		return nil, dominio.Invalido("Perfil inválido: %s", n.Perfil)
	}
	hash, err := auth.GerarHashSenha(n.Senha)
	if err != nil {
		return nil, err
	}

	agora := s.agora()
	u := &dominio.Usuario{
		Nome:        strings.TrimSpace(n.Nome),
		Email:       dominio.NormalizarEmail(n.Email),
		SenhaHash:   hash,
		Perfil:      n.Perfil,
		Ativo:       true,
		DataCriacao: agora,
	}
	if n.Ativo != nil {
		u.Ativo = *n.Ativo
	}
	if err := s.store.CriarUsuario(ctx, u); err != nil {
		return nil, err
	}
	registrarLog(ctx, s.store, autorID, "criar_usuario", fmt.Sprintf("Usuário %s (%s) criado", u.Email, u.Perfil), agora)
	return u, nil
}

func (s *UsuarioService) Atualizar(ctx context.Context, id uint, a AlteracaoUsuario, autorID *uint) (*dominio.Usuario, error) {
	u, err := s.Buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Nome != nil {
		if strings.TrimSpace(*a.Nome) == "" {
			return nil, dominio.Invalido("Nome não pode ser vazio")
		}
		u.Nome = strings.TrimSpace(*a.Nome)
	}
	if a.Email != nil {
		email := dominio.NormalizarEmail(*a.Email)
		if email == "" {
			return nil, dominio.Invalido("Email não pode ser vazio")
		}
		u.Email = email
	}
	if a.Perfil != nil {
		if !a.Perfil.Valido() {
			return nil, dominio.Invalido("Perfil inválido: %s", *a.Perfil)
		}
		u.Perfil = *a.Perfil
	}
	if a.Ativo != nil {
		u.Ativo = *a.Ativo
	}
	if a.Senha != nil && *a.Senha != "" {
		hash, err := auth.GerarHashSenha(*a.Senha)
		if err != nil {
			return nil, err
		}
		u.SenhaHash = hash
	}
	if err := s.store.AtualizarUsuario(ctx, u); err != nil {
		return nil, err
	}
	registrarLog(ctx, s.store, autorID, "atualizar_usuario", fmt.Sprintf("Usuário %d atualizado", u.ID), s.agora())
	return u, nil
}

func (s *UsuarioService) Remover(ctx context.Context, id uint, autorID uint) error {
	if id == autorID {
		return dominio.Invalido("Não é possível excluir o próprio usuário")
	}
	if _, err := s.Buscar(ctx, id); err != nil {
		return err
	}
	if err := s.store.RemoverUsuario(ctx, id); err != nil {
		return err
	}
	registrarLog(ctx, s.store, &autorID, "excluir_usuario", fmt.Sprintf("Usuário %d excluído", id), s.agora())
	return nil
}
