package engine

import (
	"testing"

	"github.com/google/uuid"
)

func TestDetectGroupsWaves(t *testing.T) {
	a, b, c, d := skillID(1), skillID(2), skillID(3), skillID(4)
	cat := catalogOf(map[uuid.UUID][]uuid.UUID{
		c: {a, b},
		d: {c},
	})
	gaps := gapsFor(a, b, c, d)

	groups := detectGroups(gaps, buildGraph(gaps, cat), nil)
	if len(groups) != 3 {
		t.Fatalf("expected 3 waves, got %d", len(groups))
	}
	if len(groups[0].Skills) != 2 {
		t.Fatalf("first wave should hold a and b, got %d members", len(groups[0].Skills))
	}
	if groups[1].Skills[0].SkillID != c || groups[2].Skills[0].SkillID != d {
		t.Fatalf("waves out of order: %+v", groups)
	}
}

func TestDetectGroupsOrdersWaveByWeight(t *testing.T) {
	a, b, c := skillID(1), skillID(2), skillID(3)
	gaps := []SkillGap{
		{SkillID: a, Weight: 0.1},
		{SkillID: b, Weight: 0.8},
		{SkillID: c, Weight: 0.4},
	}
	groups := detectGroups(gaps, buildGraph(gaps, CatalogSnapshot{}), nil)
	if len(groups) != 1 {
		t.Fatalf("expected one wave, got %d", len(groups))
	}
	want := []uuid.UUID{b, c, a}
	for i, id := range want {
		if groups[0].Skills[i].SkillID != id {
			t.Fatalf("wave[%d] = %s, want %s", i, groups[0].Skills[i].SkillID, id)
		}
	}
}

func TestDetectGroupsDiversityBonusLiftsUnrelatedSkill(t *testing.T) {
	a, b, c := skillID(1), skillID(2), skillID(3)
	cat := catalogOf(map[uuid.UUID][]uuid.UUID{
		b: {a},
		c: {a},
	})
	// b and c tie on weight within the second wave; c is less similar to the
	// already-chosen a, so the diversity bonus puts it first.
	sim := stubSimilarity{
		{a, b}: 0.9,
		{a, c}: 0.1,
	}
	gaps := gapsFor(a, b, c)

	groups := detectGroups(gaps, buildGraph(gaps, cat), sim)
	if len(groups) != 2 {
		t.Fatalf("expected 2 waves, got %d", len(groups))
	}
	second := groups[1].Skills
	if second[0].SkillID != c || second[1].SkillID != b {
		t.Fatalf("diversity bonus not applied: got [%s %s]", second[0].SkillID, second[1].SkillID)
	}
}

func TestDetectGroupsCycleBecomesFinalGroup(t *testing.T) {
	a, b, c := skillID(1), skillID(2), skillID(3)
	cat := catalogOf(map[uuid.UUID][]uuid.UUID{
		b: {c},
		c: {b},
	})
	gaps := []SkillGap{
		{SkillID: a, Gap: 20},
		{SkillID: b, Gap: 40},
		{SkillID: c, Gap: 60},
	}
	groups := detectGroups(gaps, buildGraph(gaps, cat), nil)
	if len(groups) != 2 {
		t.Fatalf("expected wave + cycle group, got %d", len(groups))
	}
	last := groups[1].Skills
	if len(last) != 2 || last[0].SkillID != c || last[1].SkillID != b {
		t.Fatalf("cycle group should order by descending gap: %+v", last)
	}
}
