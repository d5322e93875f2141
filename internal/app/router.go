package app

import (
	pathwisehttp "github.com/pathwise/pathwise-backend/internal/http"
	"github.com/pathwise/pathwise-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *pathwisehttp.Server {
	log.Info("Wiring router...")
	return pathwisehttp.NewServer(pathwisehttp.RouterConfig{
		Log:            log,
		ServiceName:    cfg.ServiceName,
		AuthMiddleware: middleware.Auth,
		PathHandler:    handlers.Path,
		CatalogHandler: handlers.Catalog,
		HealthHandler:  handlers.Health,
	})
}
