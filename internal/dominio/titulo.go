package dominio

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type StatusTitulo string

const (
	StatusTituloPendente   StatusTitulo = "Pendente"
	StatusTituloProtestado StatusTitulo = "Protestado"
	StatusTituloPago       StatusTitulo = "Pago"
)

func (s StatusTitulo) Valido() bool {
	switch s {
	case StatusTituloPendente, StatusTituloProtestado, StatusTituloPago:
		return true
	}
	return false
}

type Titulo struct {
	ID               uint         `gorm:"primaryKey" json:"id"`
	Numero           string       `gorm:"not null;index" json:"numero"`
	Protocolo        string       `gorm:"not null;uniqueIndex" json:"protocolo"`
	Valor            float64      `gorm:"type:numeric(15,2);not null" json:"valor"`
	Devedor          string       `json:"devedor"`
	DocumentoDevedor string       `json:"documento_devedor"`
	Credor           string       `json:"credor"`
	DocumentoCredor  string       `json:"documento_credor"`
	DataEmissao      *time.Time   `json:"data_emissao"`
	DataVencimento   *time.Time   `json:"data_vencimento"`
	DataProtesto     *time.Time   `json:"data_protesto"`
	Especie          string       `json:"especie"`
	NossoNumero      string       `json:"nosso_numero"`
	Aceite           bool         `gorm:"not null" json:"aceite"`
	Status           StatusTitulo `gorm:"type:varchar(20);not null;index" json:"status"`
	RemessaID        uint         `gorm:"not null;index" json:"remessa_id"`
	DataCadastro     time.Time    `gorm:"not null" json:"data_cadastro"`
	DataAtualizacao  time.Time    `gorm:"not null" json:"data_atualizacao"`
}

func (Titulo) TableName() string {
	return "titulos"
}

func (t *Titulo) BeforeCreate(tx *gorm.DB) error {
	t.PrepararCriacao(time.Now())
	return nil
}

func (t *Titulo) PrepararCriacao(agora time.Time) {
	if t.Status == "" {
		t.Status = StatusTituloPendente
	}
	if t.DataCadastro.IsZero() {
		t.DataCadastro = agora
	}
	if t.DataAtualizacao.IsZero() {
		t.DataAtualizacao = agora
	}
}

// PodeMudarPara diz se a transição de status é permitida. Pago é terminal.
func (t *Titulo) PodeMudarPara(novo StatusTitulo) bool {
	switch t.Status {
	case StatusTituloPendente:
		return novo == StatusTituloProtestado || novo == StatusTituloPago
	case StatusTituloProtestado:
		return novo == StatusTituloPago
	}
	return false
}

func (t *Titulo) AlterarStatus(novo StatusTitulo, agora time.Time) error {
	if !novo.Valido() {
		return Invalido("status inválido: %s", novo)
	}
	if !t.PodeMudarPara(novo) {
		return fmt.Errorf("%w: título %s de %s para %s", ErrTransicaoInvalida, t.Protocolo, t.Status, novo)
	}
	t.Status = novo
	if novo == StatusTituloProtestado {
		t.DataProtesto = &agora
	}
	t.DataAtualizacao = agora
	return nil
}

// CancelarProtesto devolve um título protestado para Pendente. É a única
// volta permitida a partir de Protestado e exige motivo.
func (t *Titulo) CancelarProtesto(motivo string, agora time.Time) error {
	if motivo == "" {
		return Invalido("motivo do cancelamento é obrigatório")
	}
	if t.Status != StatusTituloProtestado {
		return fmt.Errorf("%w: título %s não está protestado (%s)", ErrTransicaoInvalida, t.Protocolo, t.Status)
	}
	t.Status = StatusTituloPendente
	t.DataProtesto = nil
	t.DataAtualizacao = agora
	return nil
}
