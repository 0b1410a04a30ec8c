package dominio

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type StatusDesistencia string

const (
	StatusDesistenciaPendente  StatusDesistencia = "PENDENTE"
	StatusDesistenciaAprovada  StatusDesistencia = "APROVADA"
	StatusDesistenciaRejeitada StatusDesistencia = "REJEITADA"
)

type Desistencia struct {
	ID                     uint              `gorm:"primaryKey" json:"id"`
	TituloID               uint              `gorm:"not null;index" json:"tituloId"`
	RemessaID              *uint             `gorm:"index" json:"remessaId"`
	NumeroTitulo           string            `gorm:"not null" json:"numeroTitulo"`
	Protocolo              string            `gorm:"not null;index" json:"protocolo"`
	Devedor                string            `json:"devedor"`
	Valor                  float64           `gorm:"type:numeric(15,2);not null" json:"valor"`
	Motivo                 string            `gorm:"not null" json:"motivo"`
	Observacoes            string            `json:"observacoes"`
	Status                 StatusDesistencia `gorm:"type:varchar(20);not null;index" json:"status"`
	DataSolicitacao        time.Time         `gorm:"not null;index" json:"dataSolicitacao"`
	DataProcessamento      *time.Time        `json:"dataProcessamento"`
	UsuarioID              *uint             `json:"usuarioId"`
	UsuarioProcessamentoID *uint             `json:"usuarioProcessamentoId"`
}

func (Desistencia) TableName() string {
	return "desistencias"
}

func (d *Desistencia) BeforeCreate(tx *gorm.DB) error {
	if d.DataSolicitacao.IsZero() {
		d.DataSolicitacao = time.Now()
	}
	if d.Status == "" {
		d.Status = StatusDesistenciaPendente
	}
	return nil
}

// NovaDesistencia copia os dados do título no momento da solicitação.
func NovaDesistencia(t *Titulo, motivo string, agora time.Time) Desistencia {
	return Desistencia{
		TituloID:        t.ID,
		NumeroTitulo:    t.Numero,
		Protocolo:       t.Protocolo,
		Devedor:         t.Devedor,
		Valor:           t.Valor,
		Motivo:          motivo,
		Status:          StatusDesistenciaPendente,
		DataSolicitacao: agora,
	}
}

func (d *Desistencia) Processar(decisao StatusDesistencia, observacoes string, usuarioID uint, agora time.Time) error {
	if decisao != StatusDesistenciaAprovada && decisao != StatusDesistenciaRejeitada {
		return Invalido("status deve ser APROVADA ou REJEITADA")
	}
	if d.Status != StatusDesistenciaPendente {
		return fmt.Errorf("%w: desistência %d já foi processada (%s)", ErrConflito, d.ID, d.Status)
	}
	d.Status = decisao
	if observacoes != "" {
		d.Observacoes = observacoes
	}
	d.DataProcessamento = &agora
	d.UsuarioProcessamentoID = &usuarioID
	return nil
}
