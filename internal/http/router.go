package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/pathwise/pathwise-backend/internal/http/handlers"
	httpMW "github.com/pathwise/pathwise-backend/internal/http/middleware"
	"github.com/pathwise/pathwise-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string

	AuthMiddleware *httpMW.AuthMiddleware

	PathHandler    *httpH.PathHandler
	CatalogHandler *httpH.CatalogHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	if cfg.CatalogHandler != nil {
		api.GET("/skills", cfg.CatalogHandler.ListSkills)
		api.GET("/roles/:slug", cfg.CatalogHandler.GetRole)
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.PathHandler != nil {
			protected.POST("/paths/generate", cfg.PathHandler.GeneratePath)
			protected.GET("/paths", cfg.PathHandler.ListPaths)
			protected.GET("/paths/:id", cfg.PathHandler.GetPath)
			protected.POST("/steps/:id/complete", cfg.PathHandler.CompleteStep)
			protected.POST("/steps/:id/assessment", cfg.PathHandler.SubmitAssessment)
			protected.GET("/steps/:id/readiness", cfg.PathHandler.StepReadiness)
		}
	}

	return r
}
