package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LearningPath is the persisted output of the scheduling engine. At most one
// live path exists per (user, role); the partial unique index on the pair is
// the backstop for the assembler's check-then-act sequence.
type LearningPath struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_path_user_role,unique,priority:1" json:"user_id"`
	RoleID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_path_user_role,unique,priority:2" json:"role_id"`
	TotalWeeks int            `gorm:"column:total_weeks;not null;default:0" json:"total_weeks"`
	Progress   int            `gorm:"column:progress;not null;default:0" json:"progress"`
	Metadata   datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (LearningPath) TableName() string { return "learning_path" }

// LearningPathStep is one scheduled skill in a path. Steps are ordered by
// Position (1-based) and complete strictly in sequence.
type LearningPathStep struct {
	ID     uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PathID uuid.UUID     `gorm:"type:uuid;not null;index:idx_path_step,unique,priority:1" json:"path_id"`
	Path   *LearningPath `gorm:"constraint:OnDelete:CASCADE;foreignKey:PathID;references:ID" json:"path,omitempty"`

	SkillID        uuid.UUID `gorm:"type:uuid;not null;index" json:"skill_id"`
	Position       int       `gorm:"column:position;not null;index:idx_path_step,unique,priority:2" json:"position"`
	TargetLevel    string    `gorm:"column:target_level;not null" json:"target_level"`
	Gap            float64   `gorm:"column:gap;not null;default:0" json:"gap"`
	Severity       string    `gorm:"column:severity;not null;default:'none'" json:"severity"`
	EstimatedWeeks int       `gorm:"column:estimated_weeks;not null;default:1" json:"estimated_weeks"`

	Completed        bool       `gorm:"column:completed;not null;default:false" json:"completed"`
	CompletedAt      *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	AssessmentPassed bool       `gorm:"column:assessment_passed;not null;default:false" json:"assessment_passed"`
	AssessmentScore  *float64   `gorm:"column:assessment_score" json:"assessment_score,omitempty"`

	// AssessmentKey holds the expected answer indices for the step's gating
	// assessment. Null means the step has no assessment and auto-passes.
	AssessmentKey datatypes.JSON `gorm:"column:assessment_key;type:jsonb" json:"assessment_key,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (LearningPathStep) TableName() string { return "learning_path_step" }
