package app

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pathwise/pathwise-backend/internal/data/db"
	pathwisehttp "github.com/pathwise/pathwise-backend/internal/http"
	"github.com/pathwise/pathwise-backend/internal/observability"
	"github.com/pathwise/pathwise-backend/internal/platform/envutil"
	"github.com/pathwise/pathwise-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *pathwisehttp.Server
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients

	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	if cfg.CatalogSeedPath != "" {
		if err := db.SeedCatalog(theDB, log, cfg.CatalogSeedPath); err != nil {
			log.Sync()
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
	}

	clients := wireClients(log)
	repos := wireRepos(theDB, log)
	services := wireServices(theDB, log, cfg, repos, clients)
	handlers := wireHandlers(log, services, repos)
	middleware := wireMiddleware(log, cfg)
	server := wireServer(log, cfg, handlers, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Repos:        repos,
		Services:     services,
		Clients:      clients,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("HTTP server starting", "addr", a.Cfg.HTTPAddr)
	return a.Server.Run(a.Cfg.HTTPAddr)
}

func (a *App) Shutdown(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return nil
	}
	return a.Server.Shutdown(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Clients.PairLocker != nil {
		_ = a.Clients.PairLocker.Close()
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.otelShutdown(ctx)
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
