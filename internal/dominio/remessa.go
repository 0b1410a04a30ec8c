package dominio

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type StatusRemessa string

const (
	StatusRemessaPendente   StatusRemessa = "Pendente"
	StatusRemessaProcessado StatusRemessa = "Processado"
	StatusRemessaErro       StatusRemessa = "Erro"
)

type TipoRemessa string

const (
	TipoRemessaTitulos     TipoRemessa = "Remessa"
	TipoRemessaDesistencia TipoRemessa = "Desistência"
)

type Remessa struct {
	ID                uint          `gorm:"primaryKey" json:"id"`
	NomeArquivo       string        `gorm:"not null" json:"nome_arquivo"`
	Status            StatusRemessa `gorm:"type:varchar(20);not null;index" json:"status"`
	UF                string        `gorm:"type:varchar(2);not null;index" json:"uf"`
	Tipo              TipoRemessa   `gorm:"type:varchar(20);not null;index" json:"tipo"`
	UsuarioID         *uint         `json:"usuario_id"`
	DataEnvio         time.Time     `gorm:"not null;index" json:"data_envio"`
	DataProcessamento *time.Time    `json:"data_processamento"`
	Descricao         string        `json:"descricao"`
	QuantidadeTitulos int           `gorm:"not null;default:0" json:"quantidade_titulos"`
	HashArquivo       string        `gorm:"type:varchar(32);index" json:"hash_arquivo"`
	CaminhoArquivo    string        `json:"-"`
}

func (Remessa) TableName() string {
	return "remessas"
}

func (r *Remessa) BeforeCreate(tx *gorm.DB) error {
	r.PrepararCriacao(time.Now())
	return nil
}

func (r *Remessa) PrepararCriacao(agora time.Time) {
	if r.DataEnvio.IsZero() {
		r.DataEnvio = agora
	}
	if r.Status == "" {
		r.Status = StatusRemessaPendente
	}
}

// NovaRemessa monta a remessa recém-recebida, sempre em Pendente.
func NovaRemessa(nomeArquivo string, tipo TipoRemessa, uf string, usuarioID *uint, agora time.Time) Remessa {
	r := Remessa{
		NomeArquivo: nomeArquivo,
		Tipo:        tipo,
		UF:          uf,
		UsuarioID:   usuarioID,
	}
	r.PrepararCriacao(agora)
	return r
}

// Concluir encerra o processamento de uma remessa Pendente.
func (r *Remessa) Concluir(comErros bool, agora time.Time) error {
	if r.Status != StatusRemessaPendente {
		return fmt.Errorf("%w: remessa %d já está %s", ErrTransicaoInvalida, r.ID, r.Status)
	}
	r.Status = StatusRemessaProcessado
	if comErros {
		r.Status = StatusRemessaErro
	}
	r.DataProcessamento = &agora
	return nil
}

// Regularizar move uma remessa em Erro para Processado quando não restam erros pendentes.
func (r *Remessa) Regularizar(agora time.Time) error {
	if r.Status != StatusRemessaErro {
		return fmt.Errorf("%w: remessa %d não está em Erro", ErrTransicaoInvalida, r.ID)
	}
	r.Status = StatusRemessaProcessado
	r.DataProcessamento = &agora
	return nil
}

// NormalizarTipoRemessa aceita as grafias usadas pelos clientes ("remessa", "desistencia", ...).
func NormalizarTipoRemessa(valor string) (TipoRemessa, bool) {
	switch strings.ToLower(strings.TrimSpace(valor)) {
	case "remessa":
		return TipoRemessaTitulos, true
	case "desistência", "desistencia":
		return TipoRemessaDesistencia, true
	}
	return "", false
}

var ufsValidas = map[string]struct{}{
	"AC": {}, "AL": {}, "AP": {}, "AM": {}, "BA": {}, "CE": {}, "DF": {}, "ES": {}, "GO": {},
	"MA": {}, "MT": {}, "MS": {}, "MG": {}, "PA": {}, "PB": {}, "PR": {}, "PE": {}, "PI": {},
	"RJ": {}, "RN": {}, "RS": {}, "RO": {}, "RR": {}, "SC": {}, "SP": {}, "SE": {}, "TO": {},
}

func NormalizarUF(valor string) (string, bool) {
	uf := strings.ToUpper(strings.TrimSpace(valor))
	_, ok := ufsValidas[uf]
	return uf, ok
}
