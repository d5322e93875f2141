package engine

import (
	"sort"

	"github.com/google/uuid"
)

// Resolution is the total order the resolver produced over the gap set.
// CycleDetected is set when the prerequisite graph contained a cycle and the
// trailing portion of Order fell back to gap-severity ordering.
type Resolution struct {
	Order         []SkillGap
	CycleDetected bool
}

// resolve runs Kahn's algorithm with a weighted, re-evaluated frontier: at
// each step the whole ready set is re-ordered by the tie-break strategy and
// the front element is scheduled. Skills left unresolved by a cycle are
// appended ordered by descending gap rather than failing, since upstream
// catalog data is outside this engine's control.
func resolve(gaps []SkillGap, graph *depGraph, tb TieBreakStrategy) Resolution {
	if tb == nil {
		tb = BasicTieBreak{}
	}
	g := graph.clone()

	bySkill := make(map[uuid.UUID]SkillGap, len(gaps))
	for _, sg := range gaps {
		bySkill[sg.SkillID] = sg
	}

	ready := make([]SkillGap, 0, len(gaps))
	for _, sg := range gaps {
		if g.inDegree[sg.SkillID] == 0 {
			ready = append(ready, sg)
		}
	}

	order := make([]SkillGap, 0, len(gaps))
	recent := make([]uuid.UUID, 0, len(gaps))

	for len(ready) > 0 {
		tb.Order(ready, recent)
		next := ready[0]
		ready = ready[1:]

		order = append(order, next)
		recent = append(recent, next.SkillID)

		for _, dep := range g.dependents[next.SkillID] {
			g.inDegree[dep]--
			if g.inDegree[dep] == 0 {
				ready = append(ready, bySkill[dep])
			}
		}
	}

	if len(order) == len(gaps) {
		return Resolution{Order: order}
	}

	// Cycle remainder: schedule by descending gap severity, identifier on ties.
	scheduled := make(map[uuid.UUID]bool, len(order))
	for _, sg := range order {
		scheduled[sg.SkillID] = true
	}
	remainder := make([]SkillGap, 0, len(gaps)-len(order))
	for _, sg := range gaps {
		if !scheduled[sg.SkillID] {
			remainder = append(remainder, sg)
		}
	}
	sort.SliceStable(remainder, func(i, j int) bool {
		if remainder[i].Gap != remainder[j].Gap {
			return remainder[i].Gap > remainder[j].Gap
		}
		return idLess(remainder[i].SkillID, remainder[j].SkillID)
	})

	return Resolution{Order: append(order, remainder...), CycleDetected: true}
}
