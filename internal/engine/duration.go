package engine

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// Tuning holds the estimator's clamping contract and defaults. Zero values are
// replaced by the documented defaults so a partially filled config behaves.
type Tuning struct {
	MinWeeks            int     `yaml:"min_weeks"`
	MaxWeeks            int     `yaml:"max_weeks"`
	HistoryClampLow     float64 `yaml:"history_clamp_low"`
	HistoryClampHigh    float64 `yaml:"history_clamp_high"`
	DefaultLearnerSpeed float64 `yaml:"default_learner_speed"`
}

func DefaultTuning() Tuning {
	return Tuning{
		MinWeeks:            1,
		MaxWeeks:            52,
		HistoryClampLow:     0.25,
		HistoryClampHigh:    4,
		DefaultLearnerSpeed: 1.0,
	}
}

func (t Tuning) withDefaults() Tuning {
	d := DefaultTuning()
	if t.MinWeeks <= 0 {
		t.MinWeeks = d.MinWeeks
	}
	if t.MaxWeeks <= 0 {
		t.MaxWeeks = d.MaxWeeks
	}
	if t.HistoryClampLow <= 0 {
		t.HistoryClampLow = d.HistoryClampLow
	}
	if t.HistoryClampHigh <= 0 {
		t.HistoryClampHigh = d.HistoryClampHigh
	}
	if t.DefaultLearnerSpeed <= 0 {
		t.DefaultLearnerSpeed = d.DefaultLearnerSpeed
	}
	return t
}

// historicalMultiplier derives a soft pace bias from past skill progressions:
// for each skill with at least two samples, weeks taken per 10 points of score
// delta; averaged across skills and clamped. No usable history means 1.0.
func historicalMultiplier(history []ProgressionPoint, t Tuning) float64 {
	if len(history) == 0 {
		return 1.0
	}

	perSkill := make(map[uuid.UUID][]ProgressionPoint)
	for _, p := range history {
		perSkill[p.SkillID] = append(perSkill[p.SkillID], p)
	}

	var sum float64
	var n int
	for _, points := range perSkill {
		if len(points) < 2 {
			continue
		}
		sort.Slice(points, func(i, j int) bool {
			return points[i].RecordedAt.Before(points[j].RecordedAt)
		})
		first, last := points[0], points[len(points)-1]
		delta := last.Score - first.Score
		weeks := last.RecordedAt.Sub(first.RecordedAt).Hours() / (24 * 7)
		if delta <= 0 || weeks <= 0 {
			continue
		}
		sum += weeks / (delta / 10)
		n++
	}
	if n == 0 {
		return 1.0
	}
	return clampFloat(sum/float64(n), t.HistoryClampLow, t.HistoryClampHigh)
}

// estimateWeeks computes one step's duration estimate:
//
//	ceil(gap/10) * difficulty * (1/speed) * historical, clamped to [min, max].
func estimateWeeks(gap SkillGap, learnerSpeed, histMult float64, t Tuning) int {
	baseWeeks := math.Ceil(gap.Gap / 10)
	if baseWeeks < 1 {
		baseWeeks = 1
	}

	difficulty := gap.Difficulty
	if difficulty <= 0 {
		difficulty = 1
	}
	difficultyMultiplier := 1 + (difficulty-1)*0.2

	if learnerSpeed <= 0 {
		learnerSpeed = t.DefaultLearnerSpeed
	}
	speedMultiplier := 1 / learnerSpeed

	if histMult <= 0 {
		histMult = 1
	}

	weeks := int(math.Ceil(baseWeeks * difficultyMultiplier * speedMultiplier * histMult))
	if weeks < t.MinWeeks {
		weeks = t.MinWeeks
	}
	if weeks > t.MaxWeeks {
		weeks = t.MaxWeeks
	}
	return weeks
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
