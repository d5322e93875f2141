package app

import (
	httpH "github.com/pathwise/pathwise-backend/internal/http/handlers"
	"github.com/pathwise/pathwise-backend/internal/platform/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Path    *httpH.PathHandler
	Catalog *httpH.CatalogHandler
}

func wireHandlers(log *logger.Logger, services Services, repos Repos) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(),
		Path:    httpH.NewPathHandler(log, services.Path),
		Catalog: httpH.NewCatalogHandler(log, repos.Skill, repos.Role, repos.SkillRequirement),
	}
}
