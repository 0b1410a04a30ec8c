package servico

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/dominio"
	"github.com/iuriramos93/Prostest-System/internal/exportacao"
	"github.com/iuriramos93/Prostest-System/internal/repositorio"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type TipoRelatorio string

const (
	RelatorioTitulos      TipoRelatorio = "titulos"
	RelatorioRemessas     TipoRelatorio = "remessas"
	RelatorioDesistencias TipoRelatorio = "desistencias"
	RelatorioErros        TipoRelatorio = "erros"
	RelatorioFinanceiro   TipoRelatorio = "financeiro"
)

func NormalizarTipoRelatorio(valor string) (TipoRelatorio, bool) {
	switch t := TipoRelatorio(valor); t {
	case RelatorioTitulos, RelatorioRemessas, RelatorioDesistencias, RelatorioErros, RelatorioFinanceiro:
		return t, true
	}
	return "", false
}

// FiltroRelatorio reúne as chaves aceitas por todos os relatórios; cada tipo usa as que lhe cabem.
type FiltroRelatorio struct {
	Status      string
	UF          string
	Tipo        string
	Modulo      string
	Criticidade string
	Periodo     dominio.Periodo
}

type Relatorio struct {
	Tipo     TipoRelatorio  `json:"tipo"`
	Resumo   map[string]any `json:"resumo"`
	Itens    any            `json:"itens"`
	GeradoEm time.Time      `json:"gerado_em"`
}

type RelatorioService struct {
	store repositorio.Store
	agora Relogio
}

func NovoRelatorioService(store repositorio.Store) *RelatorioService {
	return &RelatorioService{store: store, agora: time.Now}
}

var impressora = message.NewPrinter(language.BrazilianPortuguese)

func moeda(v float64) string {
	return impressora.Sprintf("R$ %.2f", v)
}

func data(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02/01/2006")
}

func arredondar(v float64) float64 {
	return math.Round(v*100) / 100
}

// Gerar monta o relatório e a tabela usada pelas exportações em arquivo.
func (s *RelatorioService) Gerar(ctx context.Context, tipo TipoRelatorio, f FiltroRelatorio) (*Relatorio, exportacao.Tabela, error) {
	var (
		r   *Relatorio
		tab exportacao.Tabela
		err error
	)
	switch tipo {
	case RelatorioTitulos:
		r, tab, err = s.titulos(ctx, f)
	case RelatorioRemessas:
		r, tab, err = s.remessas(ctx, f)
	case RelatorioDesistencias:
		r, tab, err = s.desistencias(ctx, f)
	case RelatorioErros:
		r, tab, err = s.erros(ctx, f)
	case RelatorioFinanceiro:
		r, tab, err = s.financeiro(ctx, f)
	default:
		return nil, tab, dominio.Invalido("Tipo de relatório inválido: %s", tipo)
	}
	if err != nil {
		return nil, tab, err
	}
	r.Tipo = tipo
	r.GeradoEm = s.agora()
	tab.Resumo = linhasResumo(r.Resumo)
	return r, tab, nil
}

func linhasResumo(resumo map[string]any) [][2]string {
	chaves := make([]string, 0, len(resumo))
	for k := range resumo {
		chaves = append(chaves, k)
	}
	sort.Strings(chaves)

	var linhas [][2]string
	for _, k := range chaves {
		switch v := resumo[k].(type) {
		case map[string]int64:
			for _, sub := range ordenar(v) {
				linhas = append(linhas, [2]string{k + " / " + sub, strconv.FormatInt(v[sub], 10)})
			}
		case map[string]float64:
			for _, sub := range ordenar(v) {
				linhas = append(linhas, [2]string{k + " / " + sub, moeda(v[sub])})
			}
		case float64:
			linhas = append(linhas, [2]string{k, moeda(v)})
		default:
			linhas = append(linhas, [2]string{k, fmt.Sprint(v)})
		}
	}
	return linhas
}

func ordenar[V any](m map[string]V) []string {
	chaves := make([]string, 0, len(m))
	for k := range m {
		chaves = append(chaves, k)
	}
	sort.Strings(chaves)
	return chaves
}

func (s *RelatorioService) listarTitulos(ctx context.Context, f FiltroRelatorio) ([]dominio.Titulo, error) {
	filtro := dominio.FiltroTitulos{Status: dominio.StatusTitulo(f.Status), Periodo: f.Periodo}
	if filtro.Status != "" && !filtro.Status.Valido() {
		return nil, dominio.Invalido("Status inválido: %s", f.Status)
	}
	itens, _, err := s.store.ListarTitulos(ctx, filtro, dominio.Paginacao{})
	return itens, err
}

func (s *RelatorioService) titulos(ctx context.Context, f FiltroRelatorio) (*Relatorio, exportacao.Tabela, error) {
	itens, err := s.listarTitulos(ctx, f)
	if err != nil {
		return nil, exportacao.Tabela{}, err
	}

	porStatus := map[string]int64{}
	valorPorStatus := map[string]float64{}
	var total float64
	tab := exportacao.Tabela{
		Titulo:  "Relatório de Títulos",
		Colunas: []string{"Número", "Protocolo", "Devedor", "Credor", "Valor", "Vencimento", "Status"},
	}
	for _, t := range itens {
		porStatus[string(t.Status)]++
		valorPorStatus[string(t.Status)] += t.Valor
		total += t.Valor
		tab.Linhas = append(tab.Linhas, []string{
			t.Numero, t.Protocolo, t.Devedor, t.Credor, moeda(t.Valor), data(t.DataVencimento), string(t.Status),
		})
	}
	for k, v := range valorPorStatus {
		valorPorStatus[k] = arredondar(v)
	}

	return &Relatorio{
		Resumo: map[string]any{
			"total":            int64(len(itens)),
			"por_status":       porStatus,
			"valor_por_status": valorPorStatus,
			"valor_total":      arredondar(total),
			"valor_protestado": valorPorStatus[string(dominio.StatusTituloProtestado)],
		},
		Itens: itens,
	}, tab, nil
}

func (s *RelatorioService) remessas(ctx context.Context, f FiltroRelatorio) (*Relatorio, exportacao.Tabela, error) {
	filtro := dominio.FiltroRemessas{Status: dominio.StatusRemessa(f.Status), Periodo: f.Periodo}
	if f.Tipo != "" {
		tipo, ok := dominio.NormalizarTipoRemessa(f.Tipo)
		if !ok {
			return nil, exportacao.Tabela{}, dominio.Invalido("Tipo inválido: %s", f.Tipo)
		}
		filtro.Tipo = tipo
	}
	if f.UF != "" {
		uf, ok := dominio.NormalizarUF(f.UF)
		if !ok {
			return nil, exportacao.Tabela{}, dominio.Invalido("UF inválida: %s", f.UF)
		}
		filtro.UF = uf
	}
	itens, _, err := s.store.ListarRemessas(ctx, filtro, dominio.Paginacao{})
	if err != nil {
		return nil, exportacao.Tabela{}, err
	}

	porStatus, porTipo, porUF := map[string]int64{}, map[string]int64{}, map[string]int64{}
	var titulos int64
	tab := exportacao.Tabela{
		Titulo:  "Relatório de Remessas",
		Colunas: []string{"ID", "Arquivo", "Tipo", "UF", "Status", "Envio", "Títulos"},
	}
	for _, r := range itens {
		porStatus[string(r.Status)]++
		porTipo[string(r.Tipo)]++
		porUF[r.UF]++
		titulos += int64(r.QuantidadeTitulos)
		tab.Linhas = append(tab.Linhas, []string{
			strconv.FormatUint(uint64(r.ID), 10), r.NomeArquivo, string(r.Tipo), r.UF, string(r.Status),
			r.DataEnvio.Format("02/01/2006 15:04"), strconv.Itoa(r.QuantidadeTitulos),
		})
	}

	return &Relatorio{
		Resumo: map[string]any{
			"total":         int64(len(itens)),
			"por_status":    porStatus,
			"por_tipo":      porTipo,
			"por_uf":        porUF,
			"total_titulos": titulos,
		},
		Itens: itens,
	}, tab, nil
}

func (s *RelatorioService) desistencias(ctx context.Context, f FiltroRelatorio) (*Relatorio, exportacao.Tabela, error) {
	filtro := dominio.FiltroDesistencias{Status: dominio.StatusDesistencia(f.Status), Periodo: f.Periodo}
	itens, _, err := s.store.ListarDesistencias(ctx, filtro, dominio.Paginacao{})
	if err != nil {
		return nil, exportacao.Tabela{}, err
	}

	porStatus := map[string]int64{}
	tab := exportacao.Tabela{
		Titulo:  "Relatório de Desistências",
		Colunas: []string{"Protocolo", "Título", "Devedor", "Valor", "Motivo", "Status", "Solicitação"},
	}
	for _, d := range itens {
		porStatus[string(d.Status)]++
		tab.Linhas = append(tab.Linhas, []string{
			d.Protocolo, d.NumeroTitulo, d.Devedor, moeda(d.Valor), d.Motivo, string(d.Status), data(&d.DataSolicitacao),
		})
	}

	return &Relatorio{
		Resumo: map[string]any{"total": int64(len(itens)), "por_status": porStatus},
		Itens:  itens,
	}, tab, nil
}

func (s *RelatorioService) erros(ctx context.Context, f FiltroRelatorio) (*Relatorio, exportacao.Tabela, error) {
	filtro := dominio.FiltroErros{
		Modulo:      f.Modulo,
		Criticidade: dominio.Criticidade(f.Criticidade),
		Status:      dominio.StatusErro(f.Status),
		Periodo:     f.Periodo,
	}
	itens, _, err := s.store.ListarErros(ctx, filtro, dominio.Paginacao{})
	if err != nil {
		return nil, exportacao.Tabela{}, err
	}

	porStatus, porCriticidade := map[string]int64{}, map[string]int64{}
	tab := exportacao.Tabela{
		Titulo:  "Relatório de Erros",
		Colunas: []string{"Código", "Mensagem", "Módulo", "Criticidade", "Status", "Ocorrência"},
	}
	for _, e := range itens {
		porStatus[string(e.Status)]++
		porCriticidade[string(e.Criticidade)]++
		tab.Linhas = append(tab.Linhas, []string{
			e.Codigo, e.Mensagem, e.Modulo, string(e.Criticidade), string(e.Status), data(&e.DataOcorrencia),
		})
	}

	return &Relatorio{
		Resumo: map[string]any{
			"total":           int64(len(itens)),
			"por_status":      porStatus,
			"por_criticidade": porCriticidade,
		},
		Itens: itens,
	}, tab, nil
}

type linhaFinanceira struct {
	Status     string  `json:"status"`
	Quantidade int64   `json:"quantidade"`
	Valor      float64 `json:"valor"`
}

func (s *RelatorioService) financeiro(ctx context.Context, f FiltroRelatorio) (*Relatorio, exportacao.Tabela, error) {
	itens, err := s.listarTitulos(ctx, f)
	if err != nil {
		return nil, exportacao.Tabela{}, err
	}

	quantidade := map[string]int64{}
	valor := map[string]float64{}
	var total float64
	for _, t := range itens {
		quantidade[string(t.Status)]++
		valor[string(t.Status)] += t.Valor
		total += t.Valor
	}

	ticket := 0.0
	if len(itens) > 0 {
		ticket = total / float64(len(itens))
	}

	tab := exportacao.Tabela{
		Titulo:  "Relatório Financeiro",
		Colunas: []string{"Status", "Quantidade", "Valor"},
	}
	linhas := []linhaFinanceira{}
	for _, st := range ordenar(quantidade) {
		l := linhaFinanceira{Status: st, Quantidade: quantidade[st], Valor: arredondar(valor[st])}
		linhas = append(linhas, l)
		tab.Linhas = append(tab.Linhas, []string{st, strconv.FormatInt(l.Quantidade, 10), moeda(l.Valor)})
	}
	for k, v := range valor {
		valor[k] = arredondar(v)
	}

	return &Relatorio{
		Resumo: map[string]any{
			"valor_total":         arredondar(total),
			"valor_por_status":    valor,
			"ticket_medio":        arredondar(ticket),
			"titulos_protestados": quantidade[string(dominio.StatusTituloProtestado)],
			"total_titulos":       int64(len(itens)),
		},
		Itens: linhas,
	}, tab, nil
}
