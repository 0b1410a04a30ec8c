package dominio

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	EventoRemessaProcessada    = "Remessa.Processada"
	EventoRemessaComErros      = "Remessa.ComErros"
	EventoDesistenciaAprovada  = "Desistencia.Aprovada"
	EventoDesistenciaRejeitada = "Desistencia.Rejeitada"
	EventoErroResolvido        = "Erro.Resolvido"
	EventoTituloAtualizado     = "Titulo.StatusAlterado"
	EventoProtestoCancelado    = "Titulo.ProtestoCancelado"

	EventoCartorioProtestado = "Cartorio.TituloProtestado"
	EventoCartorioPago       = "Cartorio.TituloPago"
)

type EventoOutbox struct {
	ID             int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	TipoEvento     string     `gorm:"not null" json:"tipoEvento"`
	TipoAgregado   string     `gorm:"not null" json:"tipoAgregado"`
	IdAgregado     uint       `gorm:"not null" json:"idAgregado"`
	Payload        string     `gorm:"type:jsonb;not null" json:"payload"`
	DataOcorrencia time.Time  `gorm:"not null" json:"dataOcorrencia"`
	DataPublicacao *time.Time `gorm:"index" json:"dataPublicacao,omitempty"`
}

type MensagemProcessada struct {
	IDMensagem     string    `gorm:"primaryKey" json:"idMensagem"`
	DataProcessada time.Time `gorm:"not null" json:"dataProcessada"`
}

func (EventoOutbox) TableName() string {
	return "eventos_outbox"
}

func (MensagemProcessada) TableName() string {
	return "mensagens_processadas"
}

func NovoEvento(tipoEvento, tipoAgregado string, idAgregado uint, payload any, agora time.Time) (EventoOutbox, error) {
	corpo, err := json.Marshal(payload)
	if err != nil {
		return EventoOutbox{}, fmt.Errorf("falha ao serializar payload: %w", err)
	}
	return EventoOutbox{
		TipoEvento:     tipoEvento,
		TipoAgregado:   tipoAgregado,
		IdAgregado:     idAgregado,
		Payload:        string(corpo),
		DataOcorrencia: agora,
	}, nil
}

// RetornoCartorio é o corpo dos eventos publicados pelo cartório.
type RetornoCartorio struct {
	Protocolo string    `json:"protocolo"`
	Data      time.Time `json:"data"`
}
