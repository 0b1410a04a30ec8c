package dominio

import (
	"strings"
	"time"
)

// Periodo é fechado em De e aberto em Ate.
type Periodo struct {
	De  *time.Time
	Ate *time.Time
}

const LayoutData = "2006-01-02"

// NovoPeriodo interpreta datas YYYY-MM-DD; a data final inclui o dia inteiro.
func NovoPeriodo(inicio, fim string) (Periodo, error) {
	var p Periodo
	if inicio = strings.TrimSpace(inicio); inicio != "" {
		d, err := time.ParseInLocation(LayoutData, inicio, time.Local)
		if err != nil {
			return p, Invalido("data inicial inválida: %s", inicio)
		}
		p.De = &d
	}
	if fim = strings.TrimSpace(fim); fim != "" {
		d, err := time.ParseInLocation(LayoutData, fim, time.Local)
		if err != nil {
			return p, Invalido("data final inválida: %s", fim)
		}
		d = d.AddDate(0, 0, 1)
		p.Ate = &d
	}
	return p, nil
}

func (p Periodo) Contem(t time.Time) bool {
	if p.De != nil && t.Before(*p.De) {
		return false
	}
	if p.Ate != nil && !t.Before(*p.Ate) {
		return false
	}
	return true
}

func contemTexto(valor, busca string) bool {
	return busca == "" || strings.Contains(strings.ToLower(valor), strings.ToLower(busca))
}

type FiltroRemessas struct {
	Tipo        TipoRemessa
	UF          string
	Status      StatusRemessa
	NomeArquivo string
	Periodo     Periodo
}

func (f FiltroRemessas) Aceita(r Remessa) bool {
	return (f.Tipo == "" || r.Tipo == f.Tipo) &&
		(f.UF == "" || r.UF == f.UF) &&
		(f.Status == "" || r.Status == f.Status) &&
		contemTexto(r.NomeArquivo, f.NomeArquivo) &&
		f.Periodo.Contem(r.DataEnvio)
}

type FiltroTitulos struct {
	Numero    string
	Protocolo string
	Status    StatusTitulo
	// Devedor casa com o nome ou com o documento.
	Devedor   string
	RemessaID *uint
	Periodo   Periodo
}

func (f FiltroTitulos) Aceita(t Titulo) bool {
	return contemTexto(t.Numero, f.Numero) &&
		(f.Protocolo == "" || t.Protocolo == f.Protocolo) &&
		(f.Status == "" || t.Status == f.Status) &&
		(contemTexto(t.Devedor, f.Devedor) || contemTexto(t.DocumentoDevedor, f.Devedor)) &&
		(f.RemessaID == nil || t.RemessaID == *f.RemessaID) &&
		f.Periodo.Contem(t.DataCadastro)
}

type FiltroDesistencias struct {
	Status    StatusDesistencia
	Protocolo string
	TituloID  *uint
	RemessaID *uint
	Periodo   Periodo
}

func (f FiltroDesistencias) Aceita(d Desistencia) bool {
	return (f.Status == "" || d.Status == f.Status) &&
		(f.Protocolo == "" || d.Protocolo == f.Protocolo) &&
		(f.TituloID == nil || d.TituloID == *f.TituloID) &&
		(f.RemessaID == nil || (d.RemessaID != nil && *d.RemessaID == *f.RemessaID)) &&
		f.Periodo.Contem(d.DataSolicitacao)
}

type FiltroErros struct {
	Modulo      string
	Criticidade Criticidade
	Status      StatusErro
	RemessaID   *uint
	Periodo     Periodo
}

func (f FiltroErros) Aceita(e Erro) bool {
	return (f.Modulo == "" || e.Modulo == f.Modulo) &&
		(f.Criticidade == "" || e.Criticidade == f.Criticidade) &&
		(f.Status == "" || e.Status == f.Status) &&
		(f.RemessaID == nil || (e.RemessaID != nil && *e.RemessaID == *f.RemessaID)) &&
		f.Periodo.Contem(e.DataOcorrencia)
}

type FiltroUsuarios struct {
	Perfil Perfil
	Ativo  *bool
	Busca  string
}

func (f FiltroUsuarios) Aceita(u Usuario) bool {
	return (f.Perfil == "" || u.Perfil == f.Perfil) &&
		(f.Ativo == nil || u.Ativo == *f.Ativo) &&
		(f.Busca == "" || contemTexto(u.Nome, f.Busca) || contemTexto(u.Email, f.Busca))
}

type FiltroLogs struct {
	UsuarioID *uint
	Acao      string
	Periodo   Periodo
}

func (f FiltroLogs) Aceita(l LogAtividade) bool {
	return (f.UsuarioID == nil || (l.UsuarioID != nil && *l.UsuarioID == *f.UsuarioID)) &&
		(f.Acao == "" || l.Acao == f.Acao) &&
		f.Periodo.Contem(l.DataHora)
}
