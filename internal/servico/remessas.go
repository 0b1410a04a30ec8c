package servico

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/armazenamento"
	"github.com/iuriramos93/Prostest-System/internal/cache"
	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/repositorio"
)

const ChaveEstatisticasRemessas = "remessas:estatisticas"

type DetalheRemessa struct {
	dominio.Remessa
	Titulos      []dominio.Titulo      `json:"titulos"`
	Desistencias []dominio.Desistencia `json:"desistencias"`
	Erros        []dominio.Erro        `json:"erros"`
}

type EstatisticasRemessas struct {
	Total     int64            `json:"total"`
	PorStatus map[string]int64 `json:"por_status"`
	PorTipo   map[string]int64 `json:"por_tipo"`
	PorUF     map[string]int64 `json:"por_uf"`
	Titulos   int64            `json:"total_titulos"`
}

type RemessaService struct {
	store    repositorio.Store
	arquivos armazenamento.Armazenamento
	cache    cache.Cache
	ttl      time.Duration
}

func NovoRemessaService(store repositorio.Store, arquivos armazenamento.Armazenamento, c cache.Cache, ttl time.Duration) *RemessaService {
	return &RemessaService{store: store, arquivos: arquivos, cache: c, ttl: ttl}
}

func (s *RemessaService) Listar(ctx context.Context, f dominio.FiltroRemessas, p dominio.Paginacao) (dominio.Pagina[dominio.Remessa], error) {
	itens, total, err := s.store.ListarRemessas(ctx, f, p)
	if err != nil {
		return dominio.Pagina[dominio.Remessa]{}, err
	}
	return dominio.NovaPagina(itens, p, total), nil
}

func (s *RemessaService) Detalhe(ctx context.Context, id uint) (*DetalheRemessa, error) {
	r, err := s.store.BuscarRemessa(ctx, id)
	if err != nil {
		return nil, naoEncontrado("remessa", id, err)
	}
	d := &DetalheRemessa{Remessa: *r}
	if d.Titulos, _, err = s.store.ListarTitulos(ctx, dominio.FiltroTitulos{RemessaID: &r.ID}, dominio.Paginacao{}); err != nil {
		return nil, err
	}
	if d.Erros, _, err = s.store.ListarErros(ctx, dominio.FiltroErros{RemessaID: &r.ID}, dominio.Paginacao{}); err != nil {
		return nil, err
	}
	if d.Desistencias, _, err = s.store.ListarDesistencias(ctx, dominio.FiltroDesistencias{RemessaID: &r.ID}, dominio.Paginacao{}); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *RemessaService) Estatisticas(ctx context.Context) (*EstatisticasRemessas, error) {
	var est EstatisticasRemessas
	if ok, err := s.cache.Obter(ctx, ChaveEstatisticasRemessas, &est); err != nil {
		log.Printf("Erro ao ler cache de estatísticas: %v", err)
	} else if ok {
		return &est, nil
	}

	remessas, total, err := s.store.ListarRemessas(ctx, dominio.FiltroRemessas{}, dominio.Paginacao{})
	if err != nil {
		return nil, err
	}
	est = EstatisticasRemessas{
		Total:     total,
		PorStatus: map[string]int64{},
		PorTipo:   map[string]int64{},
		PorUF:     map[string]int64{},
	}
	for _, r := range remessas {
		est.PorStatus[string(r.Status)]++
		est.PorTipo[string(r.Tipo)]++
		est.PorUF[r.UF]++
		est.Titulos += int64(r.QuantidadeTitulos)
	}

	if err := s.cache.Gravar(ctx, ChaveEstatisticasRemessas, est, s.ttl); err != nil {
		log.Printf("Erro ao gravar cache de estatísticas: %v", err)
	}
	return &est, nil
}

// Arquivo abre o XML original enviado com a remessa.
func (s *RemessaService) Arquivo(ctx context.Context, id uint) (io.ReadCloser, string, error) {
	r, err := s.store.BuscarRemessa(ctx, id)
	if err != nil {
		return nil, "", naoEncontrado("remessa", id, err)
	}
	if r.CaminhoArquivo == "" {
		return nil, "", naoEncontrado("arquivo da remessa", id, dominio.ErrNaoEncontrado)
	}
	rc, err := s.arquivos.Abrir(ctx, r.CaminhoArquivo)
	if err != nil {
		return nil, "", naoEncontrado("arquivo da remessa", id, err)
	}
	return rc, r.NomeArquivo, nil
}
