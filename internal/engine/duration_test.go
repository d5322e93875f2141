package engine

import (
	"testing"
	"time"
)

func TestEstimateWeeksBase(t *testing.T) {
	tuning := DefaultTuning()
	cases := []struct {
		gap  float64
		want int
	}{
		{5, 1},
		{10, 1},
		{11, 2},
		{50, 5},
		{75, 8},
		{100, 10},
	}
	for _, c := range cases {
		got := estimateWeeks(SkillGap{Gap: c.gap, Difficulty: 1}, 1.0, 1.0, tuning)
		if got != c.want {
			t.Fatalf("estimateWeeks(gap=%v) = %d, want %d", c.gap, got, c.want)
		}
	}
}

func TestEstimateWeeksMultipliers(t *testing.T) {
	tuning := DefaultTuning()

	// difficulty 2.0 -> multiplier 1.2
	if got := estimateWeeks(SkillGap{Gap: 50, Difficulty: 2}, 1.0, 1.0, tuning); got != 6 {
		t.Fatalf("difficulty multiplier: got %d, want 6", got)
	}
	// slow learner doubles the estimate
	if got := estimateWeeks(SkillGap{Gap: 50, Difficulty: 1}, 0.5, 1.0, tuning); got != 10 {
		t.Fatalf("speed multiplier: got %d, want 10", got)
	}
	// historical pace bias
	if got := estimateWeeks(SkillGap{Gap: 50, Difficulty: 1}, 1.0, 1.5, tuning); got != 8 {
		t.Fatalf("historical multiplier: got %d, want 8", got)
	}
}

func TestEstimateWeeksClamped(t *testing.T) {
	tuning := DefaultTuning()
	if got := estimateWeeks(SkillGap{Gap: 1, Difficulty: 1}, 100, 1.0, tuning); got != 1 {
		t.Fatalf("lower clamp: got %d, want 1", got)
	}
	if got := estimateWeeks(SkillGap{Gap: 100, Difficulty: 10}, 0.01, 4, tuning); got != 52 {
		t.Fatalf("upper clamp: got %d, want 52", got)
	}
}

func TestHistoricalMultiplierNoHistory(t *testing.T) {
	if got := historicalMultiplier(nil, DefaultTuning()); got != 1.0 {
		t.Fatalf("empty history should be neutral, got %v", got)
	}
}

func TestHistoricalMultiplierSkipsSingleSamples(t *testing.T) {
	a := skillID(1)
	history := []ProgressionPoint{{SkillID: a, Score: 40, RecordedAt: time.Now()}}
	if got := historicalMultiplier(history, DefaultTuning()); got != 1.0 {
		t.Fatalf("single sample should be neutral, got %v", got)
	}
}

func TestHistoricalMultiplierTwoPointVelocity(t *testing.T) {
	a := skillID(1)
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	// 20 points gained over 4 weeks: 4 / (20/10) = 2.0 weeks per 10 points.
	history := []ProgressionPoint{
		{SkillID: a, Score: 30, RecordedAt: start},
		{SkillID: a, Score: 50, RecordedAt: start.AddDate(0, 0, 28)},
	}
	got := historicalMultiplier(history, DefaultTuning())
	if got < 1.99 || got > 2.01 {
		t.Fatalf("two-point velocity: got %v, want 2.0", got)
	}
}

func TestHistoricalMultiplierClamped(t *testing.T) {
	a := skillID(1)
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	// 10 points over a year would naively yield 52x; the clamp caps it.
	history := []ProgressionPoint{
		{SkillID: a, Score: 30, RecordedAt: start},
		{SkillID: a, Score: 40, RecordedAt: start.AddDate(1, 0, 0)},
	}
	got := historicalMultiplier(history, DefaultTuning())
	if got != DefaultTuning().HistoryClampHigh {
		t.Fatalf("clamp high: got %v, want %v", got, DefaultTuning().HistoryClampHigh)
	}
}

func TestHistoricalMultiplierIgnoresRegressions(t *testing.T) {
	a := skillID(1)
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	history := []ProgressionPoint{
		{SkillID: a, Score: 60, RecordedAt: start},
		{SkillID: a, Score: 40, RecordedAt: start.AddDate(0, 0, 14)},
	}
	if got := historicalMultiplier(history, DefaultTuning()); got != 1.0 {
		t.Fatalf("score regression should be neutral, got %v", got)
	}
}
