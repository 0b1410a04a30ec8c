package dominio

import "time"

type LogAtividade struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UsuarioID *uint     `gorm:"index" json:"usuario_id"`
	Acao      string    `gorm:"not null;index" json:"acao"`
	Detalhes  string    `json:"detalhes"`
	DataHora  time.Time `gorm:"not null;index" json:"data_hora"`
}

func (LogAtividade) TableName() string {
	return "logs"
}

type Configuracao struct {
	Chave           string    `gorm:"primaryKey" json:"chave"`
	Valor           string    `gorm:"not null" json:"valor"`
	Descricao       string    `json:"descricao"`
	DataAtualizacao time.Time `gorm:"not null" json:"data_atualizacao"`
}

func (Configuracao) TableName() string {
	return "configuracoes"
}
