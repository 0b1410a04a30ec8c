package servico

import (
	"context"
	"sort"

	"github.com/iuriramos93/Prostest-System/internal/dominio"
)

const limiteRanking = 5

type EstatisticasTitulos struct {
	Total          int64              `json:"total_titulos"`
	PorStatus      map[string]int64   `json:"por_status"`
	ValorTotal     float64            `json:"valor_total"`
	ValorPorStatus map[string]float64 `json:"valor_por_status"`
}

type ErrosRemessa struct {
	RemessaID   uint   `json:"remessa_id"`
	NomeArquivo string `json:"nome_arquivo"`
	Total       int64  `json:"total"`
}

type EstatisticasErros struct {
	Total          int64            `json:"total_erros"`
	PorModulo      map[string]int64 `json:"por_modulo"`
	PorCriticidade map[string]int64 `json:"por_criticidade"`
	PorStatus      map[string]int64 `json:"por_status"`
	PorRemessa     []ErrosRemessa   `json:"por_remessa"`
}

type MotivoDesistencia struct {
	Motivo string `json:"motivo"`
	Total  int64  `json:"total"`
}

type EstatisticasDesistencias struct {
	Total          int64               `json:"total_desistencias"`
	PorStatus      map[string]int64    `json:"por_status"`
	MotivosComuns  []MotivoDesistencia `json:"motivos_comuns"`
	ValorAprovadas float64             `json:"valor_aprovadas"`
}

type contagem struct {
	chave string
	total int64
}

// ranking ordena por total decrescente, chave crescente no empate, e corta em limiteRanking.
func ranking(m map[string]int64) []contagem {
	lista := make([]contagem, 0, len(m))
	for k, v := range m {
		lista = append(lista, contagem{k, v})
	}
	sort.Slice(lista, func(i, j int) bool {
		if lista[i].total != lista[j].total {
			return lista[i].total > lista[j].total
		}
		return lista[i].chave < lista[j].chave
	})
	if len(lista) > limiteRanking {
		lista = lista[:limiteRanking]
	}
	return lista
}

func (s *TituloService) Estatisticas(ctx context.Context) (*EstatisticasTitulos, error) {
	titulos, total, err := s.store.ListarTitulos(ctx, dominio.FiltroTitulos{}, dominio.Paginacao{})
	if err != nil {
		return nil, err
	}
	est := &EstatisticasTitulos{
		Total:          total,
		PorStatus:      map[string]int64{},
		ValorPorStatus: map[string]float64{},
	}
	for _, t := range titulos {
		est.PorStatus[string(t.Status)]++
		est.ValorPorStatus[string(t.Status)] += t.Valor
		est.ValorTotal += t.Valor
	}
	for k, v := range est.ValorPorStatus {
		est.ValorPorStatus[k] = arredondar(v)
	}
	est.ValorTotal = arredondar(est.ValorTotal)
	return est, nil
}

func (s *ErroService) Estatisticas(ctx context.Context) (*EstatisticasErros, error) {
	erros, total, err := s.store.ListarErros(ctx, dominio.FiltroErros{}, dominio.Paginacao{})
	if err != nil {
		return nil, err
	}
	est := &EstatisticasErros{
		Total:          total,
		PorModulo:      map[string]int64{},
		PorCriticidade: map[string]int64{},
		PorStatus:      map[string]int64{},
		PorRemessa:     []ErrosRemessa{},
	}
	porRemessa := map[uint]int64{}
	for _, e := range erros {
		est.PorModulo[e.Modulo]++
		est.PorCriticidade[string(e.Criticidade)]++
		est.PorStatus[string(e.Status)]++
		if e.RemessaID != nil {
			porRemessa[*e.RemessaID]++
		}
	}

	ids := make([]uint, 0, len(porRemessa))
	for id := range porRemessa {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if porRemessa[ids[i]] != porRemessa[ids[j]] {
			return porRemessa[ids[i]] > porRemessa[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > limiteRanking {
		ids = ids[:limiteRanking]
	}
	for _, id := range ids {
		item := ErrosRemessa{RemessaID: id, Total: porRemessa[id]}
		if r, err := s.store.BuscarRemessa(ctx, id); err == nil {
			item.NomeArquivo = r.NomeArquivo
		}
		est.PorRemessa = append(est.PorRemessa, item)
	}
	return est, nil
}

func (s *DesistenciaService) Estatisticas(ctx context.Context) (*EstatisticasDesistencias, error) {
	desistencias, total, err := s.store.ListarDesistencias(ctx, dominio.FiltroDesistencias{}, dominio.Paginacao{})
	if err != nil {
		return nil, err
	}
	est := &EstatisticasDesistencias{
		Total:         total,
		PorStatus:     map[string]int64{},
		MotivosComuns: []MotivoDesistencia{},
	}
	motivos := map[string]int64{}
	for _, d := range desistencias {
		est.PorStatus[string(d.Status)]++
		motivos[d.Motivo]++
		if d.Status == dominio.StatusDesistenciaAprovada {
			est.ValorAprovadas += d.Valor
		}
	}
	for _, c := range ranking(motivos) {
		est.MotivosComuns = append(est.MotivosComuns, MotivoDesistencia{Motivo: c.chave, Total: c.total})
	}
	est.ValorAprovadas = arredondar(est.ValorAprovadas)
	return est, nil
}
