package app

import (
	"gorm.io/gorm"

	catalogrepos "github.com/pathwise/pathwise-backend/internal/data/repos/catalog"
	learningrepos "github.com/pathwise/pathwise-backend/internal/data/repos/learning"
	userrepos "github.com/pathwise/pathwise-backend/internal/data/repos/user"
	"github.com/pathwise/pathwise-backend/internal/platform/logger"
)

type Repos struct {
	User userrepos.UserRepo

	Skill            catalogrepos.SkillRepo
	Role             catalogrepos.RoleRepo
	SkillRequirement catalogrepos.SkillRequirementRepo

	Path             learningrepos.PathRepo
	PathStep         learningrepos.PathStepRepo
	UserSkillState   learningrepos.UserSkillStateRepo
	SkillProgression learningrepos.SkillProgressionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:             userrepos.NewUserRepo(db, log),
		Skill:            catalogrepos.NewSkillRepo(db, log),
		Role:             catalogrepos.NewRoleRepo(db, log),
		SkillRequirement: catalogrepos.NewSkillRequirementRepo(db, log),
		Path:             learningrepos.NewPathRepo(db, log),
		PathStep:         learningrepos.NewPathStepRepo(db, log),
		UserSkillState:   learningrepos.NewUserSkillStateRepo(db, log),
		SkillProgression: learningrepos.NewSkillProgressionRepo(db, log),
	}
}
