package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Porta        string        `envconfig:"PORT" default:"8080"`
	DatabaseURL  string        `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret    string        `envconfig:"JWT_SECRET" required:"true"`
	JWTExpiracao time.Duration `envconfig:"JWT_EXPIRACAO" default:"24h"`

	UploadDir      string `envconfig:"UPLOAD_DIR" default:"./uploads"`
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"disco"`
	S3Bucket       string `envconfig:"S3_BUCKET"`
	AWSRegion      string `envconfig:"AWS_REGION" default:"us-east-1"`
	MaxUploadMB    int64  `envconfig:"MAX_UPLOAD_MB" default:"20"`

	RabbitMQURL string `envconfig:"RABBITMQ_URL"`

	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	LoginRPS   float64 `envconfig:"LOGIN_RPS" default:"0.2"`
	LoginBurst int     `envconfig:"LOGIN_BURST" default:"5"`

	CORSOrigens []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`

	AdminEmail string `envconfig:"ADMIN_EMAIL"`
	AdminSenha string `envconfig:"ADMIN_SENHA"`

	DemoFixtures bool `envconfig:"DEMO_FIXTURES" default:"false"`
	DBLogSQL     bool `envconfig:"DB_LOG_SQL" default:"false"`
}

// Carregar lê o .env (se existir) e depois as variáveis de ambiente.
func Carregar() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Arquivo .env não encontrado, usando variáveis de ambiente")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("falha ao carregar configuração: %w", err)
	}
	if cfg.StorageBackend != "disco" && cfg.StorageBackend != "s3" {
		return nil, fmt.Errorf("STORAGE_BACKEND inválido: %q (use disco ou s3)", cfg.StorageBackend)
	}
	if cfg.StorageBackend == "s3" && cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET é obrigatório quando STORAGE_BACKEND=s3")
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 20
	}
	return &cfg, nil
}

// UsaMemoria indica o repositório em memória (DATABASE_URL=memoria://), útil em demonstrações.
func (c *Config) UsaMemoria() bool {
	return c.DatabaseURL == "memoria://"
}
