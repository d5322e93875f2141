package db

import (
	"gorm.io/gorm"

	types "github.com/pathwise/pathwise-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Identity
		&types.User{},

		// Skill catalog (read-only reference data for the engine)
		&types.Skill{},
		&types.SkillPrerequisite{},
		&types.Role{},
		&types.SkillRequirement{},

		// Assessment + history inputs
		&types.UserSkillState{},
		&types.SkillProgression{},

		// Scheduling output
		&types.LearningPath{},
		&types.LearningPathStep{},
	)
}
