package servico

import (
	"context"
	"log"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/cache"
	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/repositorio"
)

const ChaveResumoDashboard = "dashboard:resumo"

type ResumoDashboard struct {
	Remessas              map[string]int64   `json:"remessas"`
	Titulos               map[string]int64   `json:"titulos"`
	ValorPorStatus        map[string]float64 `json:"valor_por_status"`
	DesistenciasPendentes int64              `json:"desistencias_pendentes"`
	ErrosPendentes        int64              `json:"erros_pendentes"`
	UltimasRemessas       []dominio.Remessa  `json:"ultimas_remessas"`
	AtualizadoEm          time.Time          `json:"atualizado_em"`
}

type DashboardService struct {
	store repositorio.Store
	cache cache.Cache
	ttl   time.Duration
	agora Relogio
}

func NovoDashboardService(store repositorio.Store, c cache.Cache, ttl time.Duration) *DashboardService {
	return &DashboardService{store: store, cache: c, ttl: ttl, agora: time.Now}
}

func (s *DashboardService) Resumo(ctx context.Context) (*ResumoDashboard, error) {
	var resumo ResumoDashboard
	if ok, err := s.cache.Obter(ctx, ChaveResumoDashboard, &resumo); err != nil {
		log.Printf("Erro ao ler cache do dashboard: %v", err)
	} else if ok {
		return &resumo, nil
	}

	remessas, _, err := s.store.ListarRemessas(ctx, dominio.FiltroRemessas{}, dominio.Paginacao{})
	if err != nil {
		return nil, err
	}
	titulos, _, err := s.store.ListarTitulos(ctx, dominio.FiltroTitulos{}, dominio.Paginacao{})
	if err != nil {
		return nil, err
	}
	_, desistencias, err := s.store.ListarDesistencias(ctx, dominio.FiltroDesistencias{Status: dominio.StatusDesistenciaPendente}, dominio.NovaPaginacao(1, 1))
	if err != nil {
		return nil, err
	}
	_, erros, err := s.store.ListarErros(ctx, dominio.FiltroErros{Status: dominio.StatusErroPendente}, dominio.NovaPaginacao(1, 1))
	if err != nil {
		return nil, err
	}

	resumo = ResumoDashboard{
		Remessas:              map[string]int64{},
		Titulos:               map[string]int64{},
		ValorPorStatus:        map[string]float64{},
		DesistenciasPendentes: desistencias,
		ErrosPendentes:        erros,
		AtualizadoEm:          s.agora(),
	}
	for _, r := range remessas {
		resumo.Remessas[string(r.Status)]++
	}
	for _, t := range titulos {
		resumo.Titulos[string(t.Status)]++
		resumo.ValorPorStatus[string(t.Status)] += t.Valor
	}
	for k, v := range resumo.ValorPorStatus {
		resumo.ValorPorStatus[k] = arredondar(v)
	}
	// remessas já vêm da mais recente para a mais antiga
	resumo.UltimasRemessas = dominio.Fatiar(remessas, dominio.NovaPaginacao(1, 5))

	if err := s.cache.Gravar(ctx, ChaveResumoDashboard, resumo, s.ttl); err != nil {
		log.Printf("Erro ao gravar cache do dashboard: %v", err)
	}
	return &resumo, nil
}

// Invalidar descarta os resumos em cache depois de qualquer alteração de dados.
func (s *DashboardService) Invalidar(ctx context.Context) {
	if err := s.cache.Invalidar(ctx, ChaveResumoDashboard, ChaveEstatisticasRemessas); err != nil {
		log.Printf("Erro ao invalidar cache: %v", err)
	}
}
