package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/iuriramos93/Prostest-System/internal/armazenamento"
	"github.com/iuriramos93/Prostest-System/internal/auth"
	"github.com/iuriramos93/Prostest-System/internal/cache"
	"github.com/iuriramos93/Prostest-System/internal/config"
	"github.com/iuriramos93/Prostest-System/internal/consumidor"
	"github.com/iuriramos93/Prostest-System/internal/limite"
	"github.com/iuriramos93/Prostest-System/internal/manipulador"
	"github.com/iuriramos93/Prostest-System/internal/publicador"
	"github.com/iuriramos93/Prostest-System/internal/repositorio"
	"github.com/iuriramos93/Prostest-System/internal/servico"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Carregar()
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}

	// repositório
	var store repositorio.Store
	if cfg.UsaMemoria() {
		log.Println("DATABASE_URL=memoria://, usando repositório em memória")
		store = repositorio.NovoMemoriaStore()
	} else {
		db, err := config.InicializarDB(cfg)
		if err != nil {
			log.Fatalf("Erro ao inicializar DB: %v", err)
		}
		sqlDB, _ := db.DB()
		defer sqlDB.Close()
		store = repositorio.NovoPostgresStore(db)
	}

	// cache
	var c cache.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("Redis indisponível (%v), usando cache em memória", err)
			c = cache.NovoMemoriaCache()
		} else {
			log.Println("Conectado ao Redis")
			c = cache.NovoRedisCache(rdb)
		}
	} else {
		c = cache.NovoMemoriaCache()
	}

	// arquivos
	var arquivos armazenamento.Armazenamento
	switch cfg.StorageBackend {
	case "s3":
		arquivos, err = armazenamento.NovoS3(ctx, cfg.S3Bucket, cfg.AWSRegion)
	default:
		arquivos, err = armazenamento.NovoDisco(cfg.UploadDir)
	}
	if err != nil {
		log.Fatalf("Erro ao inicializar armazenamento: %v", err)
	}

	tokens, err := auth.NovoTokenService(cfg.JWTSecret, cfg.JWTExpiracao)
	if err != nil {
		log.Fatalf("Erro ao configurar tokens: %v", err)
	}

	usuarios := servico.NovoUsuarioService(store, tokens)
	ingestao := servico.NovoIngestaoService(store, arquivos)
	dashboard := servico.NovoDashboardService(store, c, cfg.CacheTTL)

	handlers := &manipulador.Handlers{
		Tokens:        tokens,
		Ingestao:      ingestao,
		Usuarios:      usuarios,
		Remessas:      servico.NovoRemessaService(store, arquivos, c, cfg.CacheTTL),
		Titulos:       servico.NovoTituloService(store),
		Desistencias:  servico.NovoDesistenciaService(store),
		Erros:         servico.NovoErroService(store),
		Relatorios:    servico.NovoRelatorioService(store),
		Dashboard:     dashboard,
		Configuracoes: servico.NovoConfiguracaoService(store),
		Logs:          servico.NovoLogService(store),
		MaxUpload:     cfg.MaxUploadMB << 20,
	}

	// dados iniciais
	if err := servico.GarantirAdmin(ctx, usuarios, cfg.AdminEmail, cfg.AdminSenha); err != nil {
		log.Fatalf("Erro ao criar administrador inicial: %v", err)
	}
	if err := servico.GarantirConfiguracoes(ctx, store); err != nil {
		log.Fatalf("Erro ao criar configurações padrão: %v", err)
	}
	if cfg.DemoFixtures {
		if err := servico.CarregarFixtures(ctx, store, usuarios, ingestao); err != nil {
			log.Printf("Erro ao carregar dados de demonstração: %v", err)
		}
	}

	// mensageria (outbox + retornos do cartório)
	if cfg.RabbitMQURL != "" {
		conn, err := config.ConectarRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Fatalf("Erro ao conectar RabbitMQ: %v", err)
		}
		defer conn.Close()

		chPub, err := conn.Channel()
		if err != nil {
			log.Fatalf("Erro ao abrir canal de publicação: %v", err)
		}
		defer chPub.Close()
		if err := publicador.DeclararExchange(chPub); err != nil {
			log.Fatalf("Erro ao iniciar publicador outbox: %v", err)
		}
		publicador.NovoPublicador(store, chPub).Iniciar(ctx)

		chCons, err := conn.Channel()
		if err != nil {
			log.Fatalf("Erro ao abrir canal de consumo: %v", err)
		}
		defer chCons.Close()
		if err := consumidor.NovoConsumidor(store, dashboard.Invalidar).Iniciar(ctx, chCons); err != nil {
			log.Fatalf("Erro ao iniciar consumidor RabbitMQ: %v", err)
		}
	} else {
		log.Println("RABBITMQ_URL não definido, mensageria desligada (eventos ficam no outbox)")
	}

	limiteLogin := limite.NovoStore(cfg.LoginRPS, cfg.LoginBurst)
	limiteLogin.IniciarFaxina(ctx)

	r := gin.Default()
	manipulador.Rotas(r, handlers, limiteLogin, cfg.CORSOrigens)

	srv := &http.Server{
		Addr:              ":" + cfg.Porta,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Servidor Protesto iniciado na porta %s", cfg.Porta)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Erro ao iniciar servidor: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Erro ao encerrar servidor: %v", err)
	}
}
