package config

import (
	"fmt"
	"log"

	"github.com/iuriramos93/Prostest-System/internal/dominio"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InicializarDB(cfg *Config) (*gorm.DB, error) {
	nivel := logger.Warn
	if cfg.DBLogSQL {
		nivel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(nivel),
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar DB: %w", err)
	}

	log.Println("Conexão com PostgreSQL estabelecida")

	err = db.AutoMigrate(
		&dominio.Usuario{},
		&dominio.Remessa{},
		&dominio.Titulo{},
		&dominio.Desistencia{},
		&dominio.Erro{},
		&dominio.LogAtividade{},
		&dominio.Configuracao{},
		&dominio.EventoOutbox{},
		&dominio.MensagemProcessada{},
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar migrations: %w", err)
	}

	log.Println("Migrations aplicadas com sucesso")

	return db, nil
}
