package app

import (
	"gorm.io/gorm"

	"github.com/pathwise/pathwise-backend/internal/engine"
	"github.com/pathwise/pathwise-backend/internal/platform/logger"
	"github.com/pathwise/pathwise-backend/internal/services"
)

type Services struct {
	Engine *engine.Engine
	Path   services.PathService
}

// wireServices builds the scheduling engine and the path assembler on top of
// it. The similarity provider slot stays empty until an embedding source
// exists; the tie-break then degrades to the identifier ordering.
func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) Services {
	log.Info("Wiring services...")

	var sim engine.SimilarityProvider
	eng := engine.New(log, engine.NewSimilarityTieBreak(sim), sim, cfg.Tuning)

	path := services.NewPathService(services.PathServiceDeps{
		DB:            db,
		Log:           log,
		Engine:        eng,
		Users:         repos.User,
		Roles:         repos.Role,
		Requirements:  repos.SkillRequirement,
		Skills:        repos.Skill,
		Paths:         repos.Path,
		Steps:         repos.PathStep,
		SkillStates:   repos.UserSkillState,
		Progressions:  repos.SkillProgression,
		Locker:        clients.PairLocker,
		PassThreshold: cfg.PassThreshold,
	})

	return Services{Engine: eng, Path: path}
}
