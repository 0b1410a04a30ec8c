package servico

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/repositorio"
)

type PedidoDesistencia struct {
	TituloID    *uint
	Protocolo   string
	Motivo      string
	Observacoes string
}

type DesistenciaService struct {
	store repositorio.Store
	agora Relogio
}

func NovoDesistenciaService(store repositorio.Store) *DesistenciaService {
	return &DesistenciaService{store: store, agora: time.Now}
}

func (s *DesistenciaService) Listar(ctx context.Context, f dominio.FiltroDesistencias, p dominio.Paginacao) (dominio.Pagina[dominio.Desistencia], error) {
	itens, total, err := s.store.ListarDesistencias(ctx, f, p)
	if err != nil {
		return dominio.Pagina[dominio.Desistencia]{}, err
	}
	return dominio.NovaPagina(itens, p, total), nil
}

func (s *DesistenciaService) Buscar(ctx context.Context, id uint) (*dominio.Desistencia, error) {
	d, err := s.store.BuscarDesistencia(ctx, id)
	if err != nil {
		return nil, naoEncontrado("desistência", id, err)
	}
	return d, nil
}

// Solicitar abre uma desistência para um título ainda Pendente.
func (s *DesistenciaService) Solicitar(ctx context.Context, p PedidoDesistencia, usuarioID uint) (*dominio.Desistencia, error) {
	if p.TituloID == nil && strings.TrimSpace(p.Protocolo) == "" {
		return nil, dominio.Invalido("Informe o título ou o protocolo")
	}
	if strings.TrimSpace(p.Motivo) == "" {
		return nil, dominio.Invalido("Motivo é obrigatório")
	}

	var criada *dominio.Desistencia
	agora := s.agora()
	err := s.store.Transacao(ctx, func(tx repositorio.Store) error {
		var (
			titulo *dominio.Titulo
			err    error
		)
		if p.TituloID != nil {
			titulo, err = tx.BuscarTituloParaAtualizar(ctx, *p.TituloID)
			err = naoEncontrado("título", *p.TituloID, err)
		} else {
			titulo, err = tx.BuscarTituloPorProtocoloParaAtualizar(ctx, strings.TrimSpace(p.Protocolo))
			if err != nil {
				err = fmt.Errorf("%w: título com protocolo %s", dominio.ErrNaoEncontrado, p.Protocolo)
			}
		}
		if err != nil {
			return err
		}
		if titulo.Status != dominio.StatusTituloPendente {
			return fmt.Errorf("%w: título %s está %s", dominio.ErrConflito, titulo.Protocolo, titulo.Status)
		}

		d := dominio.NovaDesistencia(titulo, strings.TrimSpace(p.Motivo), agora)
		d.Observacoes = strings.TrimSpace(p.Observacoes)
		d.UsuarioID = &usuarioID
		if err := tx.CriarDesistencia(ctx, &d); err != nil {
			return err
		}
		registrarLog(ctx, tx, &usuarioID, "solicitar_desistencia", fmt.Sprintf("Desistência do título %s solicitada", titulo.Protocolo), agora)
		criada = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return criada, nil
}

// Processar aprova ou rejeita a desistência. A aprovação quita o título.
func (s *DesistenciaService) Processar(ctx context.Context, id uint, decisao dominio.StatusDesistencia, observacoes string, usuarioID uint) (*dominio.Desistencia, error) {
	var processada *dominio.Desistencia
	agora := s.agora()
	err := s.store.Transacao(ctx, func(tx repositorio.Store) error {
		d, err := tx.BuscarDesistenciaParaAtualizar(ctx, id)
		if err != nil {
			return naoEncontrado("desistência", id, err)
		}
		if err := d.Processar(decisao, strings.TrimSpace(observacoes), usuarioID, agora); err != nil {
			return err
		}

		if decisao == dominio.StatusDesistenciaAprovada {
			t, err := tx.BuscarTituloParaAtualizar(ctx, d.TituloID)
			if err != nil {
				return naoEncontrado("título", d.TituloID, err)
			}
			if t.Status != dominio.StatusTituloPendente {
				return fmt.Errorf("%w: título %s está %s", dominio.ErrConflito, t.Protocolo, t.Status)
			}
			if err := t.AlterarStatus(dominio.StatusTituloPago, agora); err != nil {
				return err
			}
			if err := tx.AtualizarTitulo(ctx, t); err != nil {
				return err
			}
		}

		if err := tx.AtualizarDesistencia(ctx, d); err != nil {
			return err
		}

		evento := dominio.EventoDesistenciaRejeitada
		if d.Status == dominio.StatusDesistenciaAprovada {
			evento = dominio.EventoDesistenciaAprovada
		}
		payload := map[string]any{"desistenciaId": d.ID, "tituloId": d.TituloID, "protocolo": d.Protocolo, "status": d.Status}
		if err := registrarEvento(ctx, tx, evento, "Desistencia", d.ID, payload, agora); err != nil {
			return err
		}
		registrarLog(ctx, tx, &usuarioID, "processar_desistencia", fmt.Sprintf("Desistência %d %s", d.ID, d.Status), agora)
		processada = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return processada, nil
}
