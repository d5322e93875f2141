// Package engine schedules learning paths: it turns a user's skill gaps plus a
// prerequisite graph into a dependency-respecting ordered plan with parallel
// study groups and per-step duration estimates. The package is pure: every
// function computes from already-materialized snapshots and performs no I/O.
package engine

import (
	"time"

	"github.com/google/uuid"
)

// CatalogSkill is the engine's read-only view of one catalog entry.
type CatalogSkill struct {
	ID            uuid.UUID
	Name          string
	Prerequisites []uuid.UUID
}

// CatalogSnapshot is an immutable skill lookup captured by the caller per
// invocation.
type CatalogSnapshot map[uuid.UUID]CatalogSkill

// Requirement is one role requirement as supplied by the career-matching
// subsystem. Weight is the [0,1] importance of the skill; Difficulty is a
// separate >=1 ratio that only feeds duration estimation.
type Requirement struct {
	SkillID    uuid.UUID
	Level      Level
	Weight     float64
	Difficulty float64
}

// ProgressionPoint is one observed score sample from the history subsystem.
type ProgressionPoint struct {
	SkillID    uuid.UUID
	Score      float64
	RecordedAt time.Time
}

// Input carries everything one scheduling invocation needs. Scores and History
// may be empty; LearnerSpeed <= 0 means the neutral default of 1.0.
type Input struct {
	Catalog      CatalogSnapshot
	Requirements []Requirement
	Scores       map[uuid.UUID]float64
	History      []ProgressionPoint
	LearnerSpeed float64
}

// Level is a required proficiency level.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
	LevelExpert       Level = "expert"
)

// Score maps a level onto the fixed 0-100 scale. Unrecognized levels fall back
// to intermediate so that malformed upstream data degrades instead of failing.
func (l Level) Score() float64 {
	switch l {
	case LevelBeginner:
		return 25
	case LevelIntermediate:
		return 50
	case LevelAdvanced:
		return 75
	case LevelExpert:
		return 100
	default:
		return 50
	}
}
