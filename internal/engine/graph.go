package engine

import "github.com/google/uuid"

// depGraph is the prerequisite graph restricted to the gap set. Prerequisites
// the user already satisfies are dropped: they never need scheduling.
type depGraph struct {
	inDegree   map[uuid.UUID]int
	dependents map[uuid.UUID][]uuid.UUID
}

func buildGraph(gaps []SkillGap, catalog CatalogSnapshot) *depGraph {
	inSet := make(map[uuid.UUID]bool, len(gaps))
	for _, g := range gaps {
		inSet[g.SkillID] = true
	}

	g := &depGraph{
		inDegree:   make(map[uuid.UUID]int, len(gaps)),
		dependents: make(map[uuid.UUID][]uuid.UUID),
	}
	for _, sg := range gaps {
		g.inDegree[sg.SkillID] = 0
	}
	for _, sg := range gaps {
		entry, ok := catalog[sg.SkillID]
		if !ok {
			continue
		}
		for _, pre := range entry.Prerequisites {
			if !inSet[pre] || pre == sg.SkillID {
				continue
			}
			g.inDegree[sg.SkillID]++
			g.dependents[pre] = append(g.dependents[pre], sg.SkillID)
		}
	}
	return g
}

// clone copies the in-degree map so the resolver and the group detector can
// each consume their own snapshot.
func (g *depGraph) clone() *depGraph {
	deg := make(map[uuid.UUID]int, len(g.inDegree))
	for k, v := range g.inDegree {
		deg[k] = v
	}
	return &depGraph{inDegree: deg, dependents: g.dependents}
}
