package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Skill is immutable reference data managed by catalog tooling; the scheduling
// engine only ever reads it.
type Skill struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Slug        string         `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Description string         `gorm:"column:description;type:text" json:"description,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Skill) TableName() string { return "skill" }

// SkillPrerequisite declares that PrerequisiteID should be learned before SkillID.
// The pair is unique; cycles in upstream catalog data are tolerated downstream.
type SkillPrerequisite struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SkillID        uuid.UUID `gorm:"type:uuid;not null;index:idx_skill_prereq,unique,priority:1" json:"skill_id"`
	PrerequisiteID uuid.UUID `gorm:"type:uuid;not null;index:idx_skill_prereq,unique,priority:2" json:"prerequisite_id"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (SkillPrerequisite) TableName() string { return "skill_prerequisite" }

type Role struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Slug      string         `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Role) TableName() string { return "role" }

// SkillRequirement is supplied per role by the career-matching subsystem.
// Weight is the [0,1] importance of the skill for the role; Difficulty is a
// separate >=1 ratio used only for duration estimation.
type SkillRequirement struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RoleID     uuid.UUID `gorm:"type:uuid;not null;index:idx_role_skill_req,unique,priority:1" json:"role_id"`
	SkillID    uuid.UUID `gorm:"type:uuid;not null;index:idx_role_skill_req,unique,priority:2" json:"skill_id"`
	Level      string    `gorm:"column:level;not null" json:"level"`
	Weight     float64   `gorm:"column:weight;not null;default:0.5" json:"weight"`
	Difficulty float64   `gorm:"column:difficulty;not null;default:1" json:"difficulty"`
	Position   int       `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (SkillRequirement) TableName() string { return "skill_requirement" }
