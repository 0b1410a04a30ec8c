package servico

import (
	"context"
	"fmt"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/repositorio"
)

const mesesDashboardProtestos = 6

type ProtestosMes struct {
	Mes        string  `json:"mes"`
	Quantidade int64   `json:"quantidade"`
	Valor      float64 `json:"valor"`
}

type DashboardProtestos struct {
	TotalProtestos  int64          `json:"total_protestos"`
	ValorTotal      float64        `json:"valor_total"`
	ProtestosPorMes []ProtestosMes `json:"protestos_por_mes"`
}

// ListarProtestos é a listagem de títulos restrita aos protestados.
func (s *TituloService) ListarProtestos(ctx context.Context, f dominio.FiltroTitulos, p dominio.Paginacao) (dominio.Pagina[dominio.Titulo], error) {
	f.Status = dominio.StatusTituloProtestado
	return s.Listar(ctx, f, p)
}

func (s *TituloService) BuscarProtesto(ctx context.Context, id uint) (*DetalheTitulo, error) {
	d, err := s.Buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status != dominio.StatusTituloProtestado {
		return nil, dominio.Invalido("Título %s não está protestado", d.Protocolo)
	}
	return d, nil
}

// RegistrarProtesto protesta o título; sem data usa o horário atual.
func (s *TituloService) RegistrarProtesto(ctx context.Context, id uint, data *time.Time, usuarioID uint) (*dominio.Titulo, error) {
	if data != nil && data.After(s.agora()) {
		return nil, dominio.Invalido("Data do protesto não pode estar no futuro")
	}
	return s.alterarStatus(ctx, id, dominio.StatusTituloProtestado, data, usuarioID)
}

// CancelarProtesto devolve o título para Pendente registrando o motivo na auditoria.
func (s *TituloService) CancelarProtesto(ctx context.Context, id uint, motivo string, usuarioID uint) (*dominio.Titulo, error) {
	var cancelado *dominio.Titulo
	agora := s.agora()
	err := s.store.Transacao(ctx, func(tx repositorio.Store) error {
		t, err := tx.BuscarTituloParaAtualizar(ctx, id)
		if err != nil {
			return naoEncontrado("título", id, err)
		}
		if err := t.CancelarProtesto(motivo, agora); err != nil {
			return err
		}
		if err := tx.AtualizarTitulo(ctx, t); err != nil {
			return err
		}
		payload := map[string]any{"tituloId": t.ID, "protocolo": t.Protocolo, "motivo": motivo}
		if err := registrarEvento(ctx, tx, dominio.EventoProtestoCancelado, "Titulo", t.ID, payload, agora); err != nil {
			return err
		}
		registrarLog(ctx, tx, &usuarioID, "cancelar_protesto", fmt.Sprintf("Protesto do título %s cancelado: %s", t.Protocolo, motivo), agora)
		cancelado = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelado, nil
}

// DashboardProtestos resume os protestos e agrupa os dos últimos seis meses, o atual incluído.
func (s *TituloService) DashboardProtestos(ctx context.Context) (*DashboardProtestos, error) {
	titulos, total, err := s.store.ListarTitulos(ctx, dominio.FiltroTitulos{Status: dominio.StatusTituloProtestado}, dominio.Paginacao{})
	if err != nil {
		return nil, err
	}

	agora := s.agora()
	inicio := time.Date(agora.Year(), agora.Month(), 1, 0, 0, 0, 0, agora.Location()).AddDate(0, -(mesesDashboardProtestos - 1), 0)
	meses := make([]ProtestosMes, mesesDashboardProtestos)
	indice := map[string]int{}
	for i := range meses {
		mes := inicio.AddDate(0, i, 0).Format("2006-01")
		meses[i].Mes = mes
		indice[mes] = i
	}

	d := &DashboardProtestos{TotalProtestos: total}
	for _, t := range titulos {
		d.ValorTotal += t.Valor
		if t.DataProtesto == nil {
			continue
		}
		if i, ok := indice[t.DataProtesto.In(agora.Location()).Format("2006-01")]; ok {
			meses[i].Quantidade++
			meses[i].Valor += t.Valor
		}
	}
	for i := range meses {
		meses[i].Valor = arredondar(meses[i].Valor)
	}
	d.ValorTotal = arredondar(d.ValorTotal)
	d.ProtestosPorMes = meses
	return d, nil
}
