package servico

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/repositorio"
)

type DetalheTitulo struct {
	dominio.Titulo
	Remessa      *dominio.Remessa      `json:"remessa,omitempty"`
	Desistencias []dominio.Desistencia `json:"desistencias"`
}

type TituloService struct {
	store repositorio.Store
	agora Relogio
}

func NovoTituloService(store repositorio.Store) *TituloService {
	return &TituloService{store: store, agora: time.Now}
}

func (s *TituloService) Listar(ctx context.Context, f dominio.FiltroTitulos, p dominio.Paginacao) (dominio.Pagina[dominio.Titulo], error) {
	itens, total, err := s.store.ListarTitulos(ctx, f, p)
	if err != nil {
		return dominio.Pagina[dominio.Titulo]{}, err
	}
	return dominio.NovaPagina(itens, p, total), nil
}

func (s *TituloService) Buscar(ctx context.Context, id uint) (*DetalheTitulo, error) {
	t, err := s.store.BuscarTitulo(ctx, id)
	if err != nil {
		return nil, naoEncontrado("título", id, err)
	}
	detalhe := &DetalheTitulo{Titulo: *t}

	r, err := s.store.BuscarRemessa(ctx, t.RemessaID)
	switch {
	case err == nil:
		detalhe.Remessa = r
	case !errors.Is(err, dominio.ErrNaoEncontrado):
		return nil, err
	}

	detalhe.Desistencias, _, err = s.store.ListarDesistencias(ctx, dominio.FiltroDesistencias{TituloID: &t.ID}, dominio.Paginacao{})
	if err != nil {
		return nil, err
	}
	return detalhe, nil
}

func (s *TituloService) AlterarStatus(ctx context.Context, id uint, status dominio.StatusTitulo, usuarioID uint) (*dominio.Titulo, error) {
	return s.alterarStatus(ctx, id, status, nil, usuarioID)
}

// alterarStatus aplica a transição; dataProtesto substitui o horário atual quando o protesto é retroativo.
func (s *TituloService) alterarStatus(ctx context.Context, id uint, status dominio.StatusTitulo, dataProtesto *time.Time, usuarioID uint) (*dominio.Titulo, error) {
	var alterado *dominio.Titulo
	agora := s.agora()
	err := s.store.Transacao(ctx, func(tx repositorio.Store) error {
		t, err := tx.BuscarTituloParaAtualizar(ctx, id)
		if err != nil {
			return naoEncontrado("título", id, err)
		}
		anterior := t.Status
		if err := t.AlterarStatus(status, agora); err != nil {
			return err
		}
		if dataProtesto != nil && t.Status == dominio.StatusTituloProtestado {
			t.DataProtesto = dataProtesto
		}
		if err := tx.AtualizarTitulo(ctx, t); err != nil {
			return err
		}
		payload := map[string]any{"tituloId": t.ID, "protocolo": t.Protocolo, "de": anterior, "para": t.Status}
		if err := registrarEvento(ctx, tx, dominio.EventoTituloAtualizado, "Titulo", t.ID, payload, agora); err != nil {
			return err
		}
		registrarLog(ctx, tx, &usuarioID, "alterar_status_titulo", fmt.Sprintf("Título %s: %s -> %s", t.Protocolo, anterior, t.Status), agora)
		alterado = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return alterado, nil
}

// AplicarRetornoCartorio aplica o retorno do cartório ao título do protocolo.
// Título já no status de destino não é alterado, o que torna a reentrega inofensiva.
func AplicarRetornoCartorio(ctx context.Context, tx repositorio.Store, retorno dominio.RetornoCartorio, status dominio.StatusTitulo) error {
	t, err := tx.BuscarTituloPorProtocoloParaAtualizar(ctx, retorno.Protocolo)
	if err != nil {
		if errors.Is(err, dominio.ErrNaoEncontrado) {
			return fmt.Errorf("%w: título com protocolo %s", dominio.ErrNaoEncontrado, retorno.Protocolo)
		}
		return err
	}
	if t.Status == status {
		log.Printf("Título %s já está %s, retorno ignorado", t.Protocolo, status)
		return nil
	}

	quando := retorno.Data
	if quando.IsZero() {
		quando = time.Now()
	}
	anterior := t.Status
	if err := t.AlterarStatus(status, quando); err != nil {
		return err
	}
	if err := tx.AtualizarTitulo(ctx, t); err != nil {
		return err
	}
	registrarLog(ctx, tx, nil, "retorno_cartorio", fmt.Sprintf("Título %s: %s -> %s", t.Protocolo, anterior, t.Status), quando)
	return nil
}
