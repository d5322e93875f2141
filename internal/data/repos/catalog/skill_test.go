package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/pathwise/pathwise-backend/internal/data/repos/testutil"
	types "github.com/pathwise/pathwise-backend/internal/domain"
	"github.com/pathwise/pathwise-backend/internal/pkg/dbctx"
)

func TestSkillRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewSkillRepo(db, testutil.Logger(t))
	dbc := dbctx.WithTx(context.Background(), tx)

	created, err := repo.Create(dbc, []*types.Skill{
		{ID: uuid.New(), Slug: "skillrepo-sql", Name: "SQL"},
		{ID: uuid.New(), Slug: "skillrepo-go", Name: "Go"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("Create: expected 2 skills, got %d", len(created))
	}

	got, err := repo.GetByIDs(dbc, []uuid.UUID{created[0].ID, created[1].ID})
	if err != nil || len(got) != 2 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(got))
	}

	bySlug, err := repo.GetBySlug(dbc, "skillrepo-go")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if bySlug == nil || bySlug.Name != "Go" {
		t.Fatalf("GetBySlug: unexpected result: %+v", bySlug)
	}

	if err := repo.AddPrerequisite(dbc, created[1].ID, created[0].ID); err != nil {
		t.Fatalf("AddPrerequisite: %v", err)
	}
	// same pair again is a no-op
	if err := repo.AddPrerequisite(dbc, created[1].ID, created[0].ID); err != nil {
		t.Fatalf("AddPrerequisite (dup): %v", err)
	}

	prereqs, err := repo.ListPrerequisites(dbc)
	if err != nil {
		t.Fatalf("ListPrerequisites: %v", err)
	}
	found := 0
	for _, p := range prereqs {
		if p.SkillID == created[1].ID && p.PrerequisiteID == created[0].ID {
			found++
		}
	}
	if found != 1 {
		t.Fatalf("ListPrerequisites: expected exactly one edge, got %d", found)
	}
}
