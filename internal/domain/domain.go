package domain

import (
	"github.com/pathwise/pathwise-backend/internal/domain/catalog"
	"github.com/pathwise/pathwise-backend/internal/domain/learning"
	"github.com/pathwise/pathwise-backend/internal/domain/user"
)

type User = user.User

type Skill = catalog.Skill
type SkillPrerequisite = catalog.SkillPrerequisite
type Role = catalog.Role
type SkillRequirement = catalog.SkillRequirement

type LearningPath = learning.LearningPath
type LearningPathStep = learning.LearningPathStep
type UserSkillState = learning.UserSkillState
type SkillProgression = learning.SkillProgression
