package engine

import "github.com/google/uuid"

type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SkillGap is one unmet requirement: how far the user's current score falls
// short of the role's required score.
type SkillGap struct {
	SkillID    uuid.UUID
	Level      Level
	Current    float64
	Required   float64
	Gap        float64
	Severity   Severity
	Weight     float64
	Difficulty float64
}

// AnalyzeGaps compares current scores against role requirements and returns
// the skills with gap > 0, preserving requirement order. A user with no
// recorded state for a skill counts as score 0.
func AnalyzeGaps(requirements []Requirement, scores map[uuid.UUID]float64) []SkillGap {
	gaps := make([]SkillGap, 0, len(requirements))
	for _, req := range requirements {
		required := req.Level.Score()
		current := scores[req.SkillID]
		gap := required - current
		if gap <= 0 {
			continue
		}
		gaps = append(gaps, SkillGap{
			SkillID:    req.SkillID,
			Level:      req.Level,
			Current:    current,
			Required:   required,
			Gap:        gap,
			Severity:   severityFor(gap),
			Weight:     req.Weight,
			Difficulty: req.Difficulty,
		})
	}
	return gaps
}

func severityFor(gap float64) Severity {
	switch {
	case gap <= 0:
		return SeverityNone
	case gap <= 25:
		return SeverityLow
	case gap <= 50:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}
