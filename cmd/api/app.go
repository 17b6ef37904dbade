package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/hugohenrick/crm-atendimento/docs"
	"github.com/hugohenrick/crm-atendimento/internal/adapter/api/controller"
	"github.com/hugohenrick/crm-atendimento/internal/adapter/api/dto"
	"github.com/hugohenrick/crm-atendimento/internal/adapter/api/route"
	"github.com/hugohenrick/crm-atendimento/internal/adapter/repository"
	"github.com/hugohenrick/crm-atendimento/internal/chat"
	"github.com/hugohenrick/crm-atendimento/internal/config"
	"github.com/hugohenrick/crm-atendimento/internal/domain/message"
	"github.com/hugohenrick/crm-atendimento/internal/infrastructure/database"
	"github.com/hugohenrick/crm-atendimento/internal/realtime"
	"github.com/hugohenrick/crm-atendimento/internal/settings"
	"github.com/hugohenrick/crm-atendimento/pkg/auth"
	"github.com/hugohenrick/crm-atendimento/pkg/logger"
	"github.com/hugohenrick/crm-atendimento/pkg/middleware"
	"github.com/hugohenrick/crm-atendimento/pkg/webhook"
)

const version = "1.0.0"

// App representa a aplicação e suas dependências
type App struct {
	cfg    *config.Config
	logger logger.Logger
	router *gin.Engine
	server *http.Server

	pgPool   *pgxpool.Pool
	sqliteDB *sql.DB
	redis    *settings.RedisStore
	storage  string

	hub     *realtime.Hub
	manager *chat.Manager
	monitor *webhook.Monitor

	chatController     *controller.ChatController
	webhookController  *controller.WebhookController
	settingsController *controller.SettingsController
	realtimeController *controller.RealtimeController
	authMiddleware     gin.HandlerFunc
}

// NewApp cria uma nova instância do aplicativo
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: log}

	repo, err := a.openRepository(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	settingsStore, err := a.openSettingsStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	settingsService := settings.NewService(settingsStore, cfg.PublicOrigin, log)

	a.hub = realtime.NewHub(log, originChecker(cfg.CORSOrigins))

	client := webhook.NewClient(cfg.OutboundWebhookURL, nil)
	persistence := chat.NewPersistence(repo, log, cfg.PersistTimeout)
	a.manager = chat.NewManager(persistence, a.hub, a.hub, chat.ManagerConfig{
		Client:         client,
		SendTimeout:    cfg.SendTimeout,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}, log)
	inbox := chat.NewInbox(chat.DefaultInboxSize)

	a.monitor = webhook.NewMonitor(client, webhook.MonitorConfig{
		HeartbeatInterval: cfg.HeartbeatInterval,
		PollInterval:      cfg.PollInterval,
		PollingEnabled:    cfg.ReceiverEnabled,
		InboundURL:        settingsService.PollURL,
		OnMessage: func(msg webhook.InboundMessage) {
			if _, err := a.manager.Deliver(msg, "poll"); err != nil {
				log.Warn("Mensagem consultada descartada", "telefone", msg.Telefone, "error", err)
			}
		},
	}, log)

	// Autenticação opcional em desenvolvimento
	var jwtService *auth.JWTService
	if cfg.JWTSecretKey != "" {
		if jwtService, err = auth.NewJWTService(cfg.JWTSecretKey); err != nil {
			a.Close()
			return nil, err
		}
	} else {
		log.Warn("JWT_SECRET_KEY não configurada: autenticação desativada")
	}
	a.authMiddleware = auth.JWTAuthMiddleware(jwtService)

	a.chatController = controller.NewChatController(a.manager, log)
	a.webhookController = controller.NewWebhookController(a.manager, inbox, cfg.ReceiverEnabled, log)
	a.settingsController = controller.NewSettingsController(settingsService, log)
	a.realtimeController = controller.NewRealtimeController(a.hub, log)

	a.setupRouter()
	a.SetupRoutes("/api/v1")

	a.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return a, nil
}

func (a *App) openRepository(ctx context.Context) (message.Repository, error) {
	if a.cfg.DatabaseURL != "" {
		if a.cfg.AutoMigrate {
			v, err := database.RunMigrations(a.cfg.DatabaseURL)
			if err != nil {
				return nil, err
			}
			a.logger.Info("Migrações aplicadas", "version", v)
		}

		pool, err := database.NewPostgresDB(ctx, database.NewPostgresConfig(a.cfg.DatabaseURL))
		if err != nil {
			return nil, err
		}
		a.pgPool = pool
		a.storage = "postgres"
		a.logger.Info("Conectado ao PostgreSQL")
		return repository.NewPostgresMessageRepository(pool), nil
	}

	db, err := database.NewSQLiteDB(a.cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	a.sqliteDB = db
	a.storage = "sqlite"
	a.logger.Info("Usando SQLite local", "path", a.cfg.SQLitePath)
	return repository.NewSQLiteMessageRepository(db), nil
}

func (a *App) openSettingsStore(ctx context.Context) (settings.Store, error) {
	if a.cfg.RedisURL == "" {
		return settings.NewMemoryStore(), nil
	}

	store, err := settings.NewRedisStore(ctx, a.cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	a.redis = store
	a.logger.Info("Configurações compartilhadas via Redis")
	return store, nil
}

func (a *App) setupRouter() {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	a.router = gin.New()
	a.router.Use(gin.Recovery())
	a.router.Use(middleware.RequestLogger(logger.Zerolog(a.logger)))
	a.router.Use(cors.New(corsConfig(a.cfg.CORSOrigins)))

	a.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	a.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// SetupRoutes configura as rotas da aplicação
func (a *App) SetupRoutes(basePath string) {
	api := a.router.Group(basePath)

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{
			Status:          "ok",
			Version:         version,
			Storage:         a.storage,
			RealtimeClients: a.hub.ClientCount(),
		})
	})

	route.RegisterChatRoutes(api, a.chatController, a.authMiddleware)
	route.RegisterWebhookRoutes(api, a.webhookController)
	route.RegisterSettingsRoutes(api, a.settingsController, a.authMiddleware)
	route.RegisterRealtimeRoutes(api, a.realtimeController, a.authMiddleware)
}

// Start inicia o monitor do webhook e o servidor HTTP
func (a *App) Start() error {
	if err := a.monitor.Start(); err != nil {
		return err
	}

	a.logger.Info("Servidor iniciado", "port", a.cfg.Port, "storage", a.storage)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("erro no servidor HTTP: %w", err)
	}
	return nil
}

// Shutdown encerra o servidor, cancela os envios e espera as gravações
func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)

	a.monitor.Stop()
	a.manager.Close()
	a.hub.Close()
	a.Close()

	return err
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	if a.pgPool != nil {
		a.pgPool.Close()
	}
	if a.sqliteDB != nil {
		a.sqliteDB.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// originChecker aplica a mesma lista do CORS ao websocket
func originChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			return nil
		}
		allowed[o] = true
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed[origin]
	}
}
