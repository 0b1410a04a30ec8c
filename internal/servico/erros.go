package servico

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/repositorio"
)

type NovoErro struct {
	Codigo      string
	Mensagem    string
	Modulo      string
	Criticidade dominio.Criticidade
	RemessaID   *uint
	TituloID    *uint
}

type ErroService struct {
	store repositorio.Store
	agora Relogio
}

func NovoErroService(store repositorio.Store) *ErroService {
	return &ErroService{store: store, agora: time.Now}
}

func (s *ErroService) Listar(ctx context.Context, f dominio.FiltroErros, p dominio.Paginacao) (dominio.Pagina[dominio.Erro], error) {
	itens, total, err := s.store.ListarErros(ctx, f, p)
	if err != nil {
		return dominio.Pagina[dominio.Erro]{}, err
	}
	return dominio.NovaPagina(itens, p, total), nil
}

func (s *ErroService) Buscar(ctx context.Context, id uint) (*dominio.Erro, error) {
	e, err := s.store.BuscarErro(ctx, id)
	if err != nil {
		return nil, naoEncontrado("erro", id, err)
	}
	return e, nil
}

// Registrar cria um erro informado manualmente por um operador.
func (s *ErroService) Registrar(ctx context.Context, n NovoErro, usuarioID *uint) (*dominio.Erro, error) {
	if strings.TrimSpace(n.Codigo) == "" || strings.TrimSpace(n.Mensagem) == "" || strings.TrimSpace(n.Modulo) == "" {
		return nil, dominio.Invalido("Código, mensagem e módulo são obrigatórios")
	}
	if n.Criticidade != "" && !n.Criticidade.Valida() {
		return nil, dominio.Invalido("Criticidade inválida: %s", n.Criticidade)
	}
	if n.RemessaID != nil {
		if _, err := s.store.BuscarRemessa(ctx, *n.RemessaID); err != nil {
			return nil, naoEncontrado("remessa", *n.RemessaID, err)
		}
	}

	agora := s.agora()
	e := &dominio.Erro{
		Codigo:      strings.TrimSpace(n.Codigo),
		Mensagem:    strings.TrimSpace(n.Mensagem),
		Modulo:      strings.TrimSpace(n.Modulo),
		Criticidade: n.Criticidade,
		RemessaID:   n.RemessaID,
		TituloID:    n.TituloID,
	}
	e.PrepararCriacao(agora)
	if err := s.store.CriarErro(ctx, e); err != nil {
		return nil, err
	}
	registrarLog(ctx, s.store, usuarioID, "registrar_erro", fmt.Sprintf("Erro %s registrado no módulo %s", e.Codigo, e.Modulo), agora)
	return e, nil
}

// Atualizar grava a solução e, salvo status Pendente explícito, resolve o erro.
// Quando o último erro pendente de uma remessa é resolvido a remessa é regularizada.
func (s *ErroService) Atualizar(ctx context.Context, id uint, solucao string, status dominio.StatusErro, usuarioID uint) (*dominio.Erro, error) {
	var atualizado *dominio.Erro
	agora := s.agora()

	err := s.store.Transacao(ctx, func(tx repositorio.Store) error {
		e, err := tx.BuscarErroParaAtualizar(ctx, id)
		if err != nil {
			return naoEncontrado("erro", id, err)
		}
		if e.Status == dominio.StatusErroResolvido {
			return dominio.Invalido("Erro %d já foi resolvido", id)
		}

		switch status {
		case "", dominio.StatusErroResolvido:
			if err := e.Resolver(strings.TrimSpace(solucao), usuarioID, agora); err != nil {
				return err
			}
		case dominio.StatusErroPendente:
			e.Solucao = strings.TrimSpace(solucao)
		default:
			return dominio.Invalido("Status inválido: %s", status)
		}

		if err := tx.AtualizarErro(ctx, e); err != nil {
			return err
		}

		if e.Status == dominio.StatusErroResolvido {
			if err := s.regularizarRemessa(ctx, tx, e, agora); err != nil {
				return err
			}
			payload := map[string]any{"erroId": e.ID, "codigo": e.Codigo, "remessaId": e.RemessaID}
			if err := registrarEvento(ctx, tx, dominio.EventoErroResolvido, "Erro", e.ID, payload, agora); err != nil {
				return err
			}
			registrarLog(ctx, tx, &usuarioID, "resolver_erro", fmt.Sprintf("Erro %d resolvido", e.ID), agora)
		}
		atualizado = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return atualizado, nil
}

func (s *ErroService) regularizarRemessa(ctx context.Context, tx repositorio.Store, e *dominio.Erro, agora time.Time) error {
	if e.RemessaID == nil {
		return nil
	}
	pendentes, err := tx.ContarErrosPendentes(ctx, *e.RemessaID)
	if err != nil {
		return err
	}
	if pendentes > 0 {
		return nil
	}
	r, err := tx.BuscarRemessaParaAtualizar(ctx, *e.RemessaID)
	if err != nil {
		return naoEncontrado("remessa", *e.RemessaID, err)
	}
	if r.Status != dominio.StatusRemessaErro {
		return nil
	}
	if err := r.Regularizar(agora); err != nil {
		return err
	}
	return tx.AtualizarRemessa(ctx, r)
}
