package learning

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/pathwise/pathwise-backend/internal/data/repos/testutil"
	types "github.com/pathwise/pathwise-backend/internal/domain"
	"github.com/pathwise/pathwise-backend/internal/pkg/dbctx"
)

func TestPathStepRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewPathStepRepo(db, testutil.Logger(t))
	dbc := dbctx.WithTx(ctx, tx)

	u := testutil.SeedUser(t, ctx, tx, "pathsteprepo@example.com")
	role := testutil.SeedRole(t, ctx, tx, "pathsteprepo-role")
	path := testutil.SeedPath(t, ctx, tx, u.ID, role.ID)
	s1 := testutil.SeedSkill(t, ctx, tx, "pathsteprepo-a")
	s2 := testutil.SeedSkill(t, ctx, tx, "pathsteprepo-b")

	created, err := repo.Create(dbc, []*types.LearningPathStep{
		{
			PathID:         path.ID,
			SkillID:        s2.ID,
			Position:       2,
			TargetLevel:    "advanced",
			Gap:            55,
			Severity:       "high",
			EstimatedWeeks: 7,
			AssessmentKey:  datatypes.JSON([]byte(`[1,0,2]`)),
		},
		{
			PathID:         path.ID,
			SkillID:        s1.ID,
			Position:       1,
			TargetLevel:    "intermediate",
			Gap:            30,
			Severity:       "medium",
			EstimatedWeeks: 3,
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, row := range created {
		if row.ID == uuid.Nil {
			t.Fatalf("Create: expected assigned id")
		}
	}

	steps, err := repo.ListByPath(dbc, path.ID)
	if err != nil {
		t.Fatalf("ListByPath: %v", err)
	}
	if len(steps) != 2 || steps[0].Position != 1 || steps[1].Position != 2 {
		t.Fatalf("ListByPath: expected position order, got %+v", steps)
	}

	total, completed, err := repo.CountByPath(dbc, path.ID)
	if err != nil || total != 2 || completed != 0 {
		t.Fatalf("CountByPath: err=%v total=%d completed=%d", err, total, completed)
	}

	if err := repo.UpdateFields(dbc, steps[0].ID, map[string]interface{}{"completed": true}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	total, completed, err = repo.CountByPath(dbc, path.ID)
	if err != nil || total != 2 || completed != 1 {
		t.Fatalf("CountByPath after complete: err=%v total=%d completed=%d", err, total, completed)
	}

	if err := repo.DeleteByPathIDs(dbc, []uuid.UUID{path.ID}); err != nil {
		t.Fatalf("DeleteByPathIDs: %v", err)
	}
	total, _, err = repo.CountByPath(dbc, path.ID)
	if err != nil || total != 0 {
		t.Fatalf("CountByPath after delete: err=%v total=%d", err, total)
	}
}
