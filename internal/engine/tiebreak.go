package engine

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// SimilarityProvider scores topical similarity between two skills in [0,1].
// The second return reports whether a score is known for the pair; providers
// backed by remote embedding stores return false instead of erroring.
type SimilarityProvider interface {
	Similarity(a, b uuid.UUID) (float64, bool)
}

// TieBreakStrategy orders a ready frontier in scheduling order. The primary
// key is always descending importance weight; strategies differ only in how
// ties are broken. recent holds the most recently scheduled skills, newest
// last.
type TieBreakStrategy interface {
	Order(ready []SkillGap, recent []uuid.UUID)
}

// BasicTieBreak breaks weight ties by skill identifier, which keeps the
// resolver fully deterministic without any external signal.
type BasicTieBreak struct{}

func (BasicTieBreak) Order(ready []SkillGap, _ []uuid.UUID) {
	sort.SliceStable(ready, func(i, j int) bool {
		if ready[i].Weight != ready[j].Weight {
			return ready[i].Weight > ready[j].Weight
		}
		return idLess(ready[i].SkillID, ready[j].SkillID)
	})
}

// similarityTieBreak prefers the skill least similar to the recently scheduled
// window, so near-duplicate topics do not cluster back to back.
type similarityTieBreak struct {
	sim    SimilarityProvider
	window int
}

// NewSimilarityTieBreak returns a diversity-biased strategy when a provider is
// available and falls back to BasicTieBreak when it is not. Absence of the
// similarity signal is a normal branch, not a failure.
func NewSimilarityTieBreak(sim SimilarityProvider) TieBreakStrategy {
	if sim == nil {
		return BasicTieBreak{}
	}
	return &similarityTieBreak{sim: sim, window: 3}
}

func (s *similarityTieBreak) Order(ready []SkillGap, recent []uuid.UUID) {
	if len(recent) > s.window {
		recent = recent[len(recent)-s.window:]
	}
	sort.SliceStable(ready, func(i, j int) bool {
		if ready[i].Weight != ready[j].Weight {
			return ready[i].Weight > ready[j].Weight
		}
		si := s.avgSimilarity(ready[i].SkillID, recent)
		sj := s.avgSimilarity(ready[j].SkillID, recent)
		if si != sj {
			return si < sj
		}
		return idLess(ready[i].SkillID, ready[j].SkillID)
	})
}

func (s *similarityTieBreak) avgSimilarity(id uuid.UUID, recent []uuid.UUID) float64 {
	if len(recent) == 0 {
		return 0
	}
	var sum float64
	var n int
	for _, r := range recent {
		if score, ok := s.sim.Similarity(id, r); ok {
			sum += score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func idLess(a, b uuid.UUID) bool {
	return strings.Compare(a.String(), b.String()) < 0
}
