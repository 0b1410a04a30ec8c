package dominio

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Perfil string

const (
	PerfilAdministrador Perfil = "Administrador"
	PerfilOperador      Perfil = "Operador"
	PerfilVisualizador  Perfil = "Visualizador"
)

func (p Perfil) nivel() int {
	switch p {
	case PerfilAdministrador:
		return 3
	case PerfilOperador:
		return 2
	case PerfilVisualizador:
		return 1
	}
	return 0
}

func (p Perfil) Valido() bool { return p.nivel() > 0 }

// Abrange indica se o perfil tem pelo menos as permissões de minimo.
func (p Perfil) Abrange(minimo Perfil) bool {
	return p.Valido() && p.nivel() >= minimo.nivel()
}

type Usuario struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Nome         string     `gorm:"not null" json:"nome"`
	Email        string     `gorm:"not null;uniqueIndex" json:"email"`
	SenhaHash    string     `gorm:"column:senha;not null" json:"-"`
	Perfil       Perfil     `gorm:"type:varchar(20);not null" json:"perfil"`
	Ativo        bool       `gorm:"not null" json:"ativo"`
	DataCriacao  time.Time  `gorm:"not null" json:"data_criacao"`
	UltimoAcesso *time.Time `json:"ultimo_acesso"`
}

func (Usuario) TableName() string {
	return "usuarios"
}

func (u *Usuario) BeforeCreate(tx *gorm.DB) error {
	if u.DataCriacao.IsZero() {
		u.DataCriacao = time.Now()
	}
	return nil
}

func NormalizarEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
