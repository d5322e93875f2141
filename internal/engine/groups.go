package engine

import (
	"sort"

	"github.com/google/uuid"
)

// diversityBonusWeight scales how much topical diversity can lift a skill
// within its parallel group relative to importance weight.
const diversityBonusWeight = 0.2

// Group is a set of skills with no unresolved prerequisite among each other at
// that point of the simulation; a learner could study them concurrently.
// Downstream UX prefers 2-4 members, which is advisory only.
type Group struct {
	Skills []SkillGap
}

// detectGroups derives parallel study groups from a fresh in-degree snapshot:
// each wave is the current zero-in-degree set, ordered internally by combined
// score (importance weight plus a diversity bonus against members of earlier
// groups). A cyclic remainder becomes one final group ordered by gap.
func detectGroups(gaps []SkillGap, graph *depGraph, sim SimilarityProvider) []Group {
	g := graph.clone()

	bySkill := make(map[uuid.UUID]SkillGap, len(gaps))
	remaining := make(map[uuid.UUID]bool, len(gaps))
	for _, sg := range gaps {
		bySkill[sg.SkillID] = sg
		remaining[sg.SkillID] = true
	}

	var groups []Group
	var chosen []uuid.UUID

	for len(remaining) > 0 {
		wave := make([]SkillGap, 0, len(remaining))
		for _, sg := range gaps {
			if remaining[sg.SkillID] && g.inDegree[sg.SkillID] == 0 {
				wave = append(wave, sg)
			}
		}

		if len(wave) == 0 {
			// Cycle: everything left belongs to one last group.
			rest := make([]SkillGap, 0, len(remaining))
			for _, sg := range gaps {
				if remaining[sg.SkillID] {
					rest = append(rest, sg)
				}
			}
			sort.SliceStable(rest, func(i, j int) bool {
				if rest[i].Gap != rest[j].Gap {
					return rest[i].Gap > rest[j].Gap
				}
				return idLess(rest[i].SkillID, rest[j].SkillID)
			})
			groups = append(groups, Group{Skills: rest})
			break
		}

		orderWave(wave, chosen, sim)
		for _, sg := range wave {
			delete(remaining, sg.SkillID)
			chosen = append(chosen, sg.SkillID)
			for _, dep := range g.dependents[sg.SkillID] {
				g.inDegree[dep]--
			}
		}
		groups = append(groups, Group{Skills: wave})
	}

	return groups
}

func orderWave(wave []SkillGap, chosen []uuid.UUID, sim SimilarityProvider) {
	score := func(sg SkillGap) float64 {
		combined := sg.Weight
		if sim != nil && len(chosen) > 0 {
			var sum float64
			var n int
			for _, c := range chosen {
				if s, ok := sim.Similarity(sg.SkillID, c); ok {
					sum += s
					n++
				}
			}
			if n > 0 {
				combined += diversityBonusWeight * (1 - sum/float64(n))
			}
		}
		return combined
	}
	sort.SliceStable(wave, func(i, j int) bool {
		si, sj := score(wave[i]), score(wave[j])
		if si != sj {
			return si > sj
		}
		return idLess(wave[i].SkillID, wave[j].SkillID)
	})
}
