package learning

import (
	"time"

	"github.com/google/uuid"
)

// UserSkillState is the assessment subsystem's current 0-100 score for a
// (user, skill) pair. Read-only to the scheduling engine.
type UserSkillState struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_skill_state,unique,priority:1" json:"user_id"`
	SkillID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_skill_state,unique,priority:2" json:"skill_id"`
	Score      float64    `gorm:"column:score;not null;default:0" json:"score"`
	AssessedAt *time.Time `gorm:"column:assessed_at" json:"assessed_at,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserSkillState) TableName() string { return "user_skill_state" }

// SkillProgression is an append-only record of observed score changes, used to
// derive the optional historical duration multiplier and learner speed.
type SkillProgression struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_skill_progression,priority:1" json:"user_id"`
	SkillID    uuid.UUID `gorm:"type:uuid;not null;index:idx_skill_progression,priority:2" json:"skill_id"`
	Score      float64   `gorm:"column:score;not null" json:"score"`
	RecordedAt time.Time `gorm:"column:recorded_at;not null;index" json:"recorded_at"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (SkillProgression) TableName() string { return "skill_progression" }
