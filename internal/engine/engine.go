package engine

import (
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/pathwise/pathwise-backend/internal/pkg/errors"
	"github.com/pathwise/pathwise-backend/internal/platform/logger"
)

// Engine is the learning path scheduler. It is constructed once with its
// tie-break strategy and tuning; every BuildPlan call is a deterministic
// function of its Input.
type Engine struct {
	log    *logger.Logger
	tb     TieBreakStrategy
	sim    SimilarityProvider
	tuning Tuning
}

// New builds an Engine. tb may be nil (identifier tie-break); sim may be nil
// (no diversity signal).
func New(baseLog *logger.Logger, tb TieBreakStrategy, sim SimilarityProvider, tuning Tuning) *Engine {
	if tb == nil {
		tb = BasicTieBreak{}
	}
	var log *logger.Logger
	if baseLog != nil {
		log = baseLog.With("component", "PathEngine")
	}
	return &Engine{log: log, tb: tb, sim: sim, tuning: tuning.withDefaults()}
}

// PlannedStep is one scheduled skill with its estimate, in final order.
type PlannedStep struct {
	SkillID        uuid.UUID
	Name           string
	TargetLevel    Level
	Position       int
	Gap            float64
	Severity       Severity
	Weight         float64
	EstimatedWeeks int
}

// Plan is the engine's complete output for one (user, role) invocation.
type Plan struct {
	Steps         []PlannedStep
	Groups        []Group
	TotalWeeks    int
	CycleDetected bool
}

// BuildPlan runs the full pipeline: gap analysis, graph restriction,
// topological resolution, parallel group detection, and duration estimation.
// An empty requirement set is invalid input; a requirement set the user fully
// satisfies yields a zero-step plan, which is a valid business outcome.
func (e *Engine) BuildPlan(in Input) (Plan, error) {
	if len(in.Requirements) == 0 {
		return Plan{}, fmt.Errorf("no skill requirements for role: %w", pkgerrors.ErrInvalidArgument)
	}

	gaps := AnalyzeGaps(in.Requirements, in.Scores)
	if len(gaps) == 0 {
		return Plan{}, nil
	}

	graph := buildGraph(gaps, in.Catalog)
	res := resolve(gaps, graph, e.tb)
	groups := detectGroups(gaps, graph, e.sim)

	histMult := historicalMultiplier(in.History, e.tuning)
	speed := in.LearnerSpeed
	if speed <= 0 {
		speed = e.tuning.DefaultLearnerSpeed
	}

	steps := make([]PlannedStep, 0, len(res.Order))
	total := 0
	for i, sg := range res.Order {
		weeks := estimateWeeks(sg, speed, histMult, e.tuning)
		total += weeks
		steps = append(steps, PlannedStep{
			SkillID:        sg.SkillID,
			Name:           in.Catalog[sg.SkillID].Name,
			TargetLevel:    sg.Level,
			Position:       i + 1,
			Gap:            sg.Gap,
			Severity:       sg.Severity,
			Weight:         sg.Weight,
			EstimatedWeeks: weeks,
		})
	}

	if e.log != nil {
		e.log.Debug("plan built",
			"missing_skills", len(gaps),
			"groups", len(groups),
			"total_weeks", total,
			"cycle_detected", res.CycleDetected,
			"historical_multiplier", histMult,
		)
	}

	return Plan{
		Steps:         steps,
		Groups:        groups,
		TotalWeeks:    total,
		CycleDetected: res.CycleDetected,
	}, nil
}
