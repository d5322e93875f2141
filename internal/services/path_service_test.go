package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	catalogrepos "github.com/pathwise/pathwise-backend/internal/data/repos/catalog"
	learningrepos "github.com/pathwise/pathwise-backend/internal/data/repos/learning"
	"github.com/pathwise/pathwise-backend/internal/data/repos/testutil"
	userrepos "github.com/pathwise/pathwise-backend/internal/data/repos/user"
	types "github.com/pathwise/pathwise-backend/internal/domain"
	"github.com/pathwise/pathwise-backend/internal/engine"
	"github.com/pathwise/pathwise-backend/internal/pkg/dbctx"
	pkgerrors "github.com/pathwise/pathwise-backend/internal/pkg/errors"
)

func newPathService(t *testing.T, db *gorm.DB) PathService {
	t.Helper()
	log := testutil.Logger(t)
	return NewPathService(PathServiceDeps{
		DB:           db,
		Log:          log,
		Engine:       engine.New(log, engine.BasicTieBreak{}, nil, engine.DefaultTuning()),
		Users:        userrepos.NewUserRepo(db, log),
		Roles:        catalogrepos.NewRoleRepo(db, log),
		Requirements: catalogrepos.NewSkillRequirementRepo(db, log),
		Skills:       catalogrepos.NewSkillRepo(db, log),
		Paths:        learningrepos.NewPathRepo(db, log),
		Steps:        learningrepos.NewPathStepRepo(db, log),
		SkillStates:  learningrepos.NewUserSkillStateRepo(db, log),
		Progressions: learningrepos.NewSkillProgressionRepo(db, log),
	})
}

func TestGenerateLearningPath(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.WithTx(ctx, tx)
	svc := newPathService(t, db)

	u := testutil.SeedUser(t, ctx, tx, "pathsvc-generate@example.com")
	role := testutil.SeedRole(t, ctx, tx, "pathsvc-generate-role")
	sql := testutil.SeedSkill(t, ctx, tx, "pathsvc-gen-sql")
	warehousing := testutil.SeedSkill(t, ctx, tx, "pathsvc-gen-warehousing")
	testutil.SeedPrerequisite(t, ctx, tx, warehousing.ID, sql.ID)
	testutil.SeedRequirement(t, ctx, tx, role.ID, warehousing.ID, "advanced", 1)
	testutil.SeedRequirement(t, ctx, tx, role.ID, sql.ID, "intermediate", 2)

	view, err := svc.GenerateLearningPath(dbc, u.ID, role.ID)
	if err != nil {
		t.Fatalf("GenerateLearningPath: %v", err)
	}
	if len(view.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(view.Steps))
	}
	if view.Steps[0].SkillID != sql.ID || view.Steps[1].SkillID != warehousing.ID {
		t.Fatalf("expected prerequisite first, got %s then %s", view.Steps[0].SkillName, view.Steps[1].SkillName)
	}
	if view.Steps[0].Position != 1 || view.Steps[1].Position != 2 {
		t.Fatalf("expected 1-based positions, got %d and %d", view.Steps[0].Position, view.Steps[1].Position)
	}
	// no history, no state: intermediate gap 50 -> 5 weeks, advanced gap 75 -> 8 weeks
	if view.Steps[0].EstimatedWeeks != 5 || view.Steps[1].EstimatedWeeks != 8 || view.TotalWeeks != 13 {
		t.Fatalf("unexpected estimates: %d, %d, total %d",
			view.Steps[0].EstimatedWeeks, view.Steps[1].EstimatedWeeks, view.TotalWeeks)
	}
	if view.Progress != 0 || view.CycleDetected {
		t.Fatalf("unexpected flags: progress=%d cycle=%v", view.Progress, view.CycleDetected)
	}
	if len(view.Groups) == 0 {
		t.Fatalf("expected parallel groups in diagnostics")
	}

	again, err := svc.GenerateLearningPath(dbc, u.ID, role.ID)
	if err != nil {
		t.Fatalf("GenerateLearningPath (again): %v", err)
	}
	if again.ID != view.ID {
		t.Fatalf("expected idempotent regeneration, got new path %s", again.ID)
	}
}

func TestGenerateLearningPathUnknownRole(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.WithTx(ctx, tx)
	svc := newPathService(t, db)

	u := testutil.SeedUser(t, ctx, tx, "pathsvc-norole@example.com")

	if _, err := svc.GenerateLearningPath(dbc, u.ID, uuid.New()); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGenerateLearningPathUnknownUser(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.WithTx(ctx, tx)
	svc := newPathService(t, db)

	role := testutil.SeedRole(t, ctx, tx, "pathsvc-nouser-role")

	if _, err := svc.GenerateLearningPath(dbc, uuid.New(), role.ID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGenerateLearningPathNoRequirements(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.WithTx(ctx, tx)
	svc := newPathService(t, db)

	u := testutil.SeedUser(t, ctx, tx, "pathsvc-noreqs@example.com")
	role := testutil.SeedRole(t, ctx, tx, "pathsvc-noreqs-role")

	if _, err := svc.GenerateLearningPath(dbc, u.ID, role.ID); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestGenerateLearningPathNoGaps(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.WithTx(ctx, tx)
	svc := newPathService(t, db)

	u := testutil.SeedUser(t, ctx, tx, "pathsvc-nogaps@example.com")
	role := testutil.SeedRole(t, ctx, tx, "pathsvc-nogaps-role")
	sk := testutil.SeedSkill(t, ctx, tx, "pathsvc-nogaps-skill")
	testutil.SeedRequirement(t, ctx, tx, role.ID, sk.ID, "intermediate", 1)
	testutil.SeedSkillState(t, ctx, tx, u.ID, sk.ID, 90)

	view, err := svc.GenerateLearningPath(dbc, u.ID, role.ID)
	if err != nil {
		t.Fatalf("GenerateLearningPath: %v", err)
	}
	if len(view.Steps) != 0 || view.Progress != 100 || view.TotalWeeks != 0 {
		t.Fatalf("expected empty completed path, got %+v", view)
	}

	again, err := svc.GenerateLearningPath(dbc, u.ID, role.ID)
	if err != nil {
		t.Fatalf("GenerateLearningPath (again): %v", err)
	}
	if again.ID != view.ID {
		t.Fatalf("expected the empty completed path to be kept, got new path %s", again.ID)
	}
}

func TestGenerateLearningPathRebuildsEmptyPath(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.WithTx(ctx, tx)
	svc := newPathService(t, db)

	u := testutil.SeedUser(t, ctx, tx, "pathsvc-rebuild@example.com")
	role := testutil.SeedRole(t, ctx, tx, "pathsvc-rebuild-role")
	sk := testutil.SeedSkill(t, ctx, tx, "pathsvc-rebuild-skill")
	testutil.SeedRequirement(t, ctx, tx, role.ID, sk.ID, "advanced", 1)

	// a path row without steps, as left behind by a generation that died
	// before writing them
	stale := testutil.SeedPath(t, ctx, tx, u.ID, role.ID)

	view, err := svc.GenerateLearningPath(dbc, u.ID, role.ID)
	if err != nil {
		t.Fatalf("GenerateLearningPath: %v", err)
	}
	if view.ID == stale.ID {
		t.Fatalf("expected the half-written path %s to be replaced", stale.ID)
	}
	if len(view.Steps) != 1 {
		t.Fatalf("expected 1 step on the rebuilt path, got %d", len(view.Steps))
	}
	if _, err := svc.GetPath(dbc, u.ID, stale.ID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected the half-written path to be deleted, got %v", err)
	}
}

func TestMarkStepCompleteGating(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.WithTx(ctx, tx)
	svc := newPathService(t, db)

	u := testutil.SeedUser(t, ctx, tx, "pathsvc-gating@example.com")
	role := testutil.SeedRole(t, ctx, tx, "pathsvc-gating-role")
	a := testutil.SeedSkill(t, ctx, tx, "pathsvc-gating-a")
	b := testutil.SeedSkill(t, ctx, tx, "pathsvc-gating-b")
	testutil.SeedPrerequisite(t, ctx, tx, b.ID, a.ID)
	testutil.SeedRequirement(t, ctx, tx, role.ID, a.ID, "intermediate", 1)
	testutil.SeedRequirement(t, ctx, tx, role.ID, b.ID, "advanced", 2)

	view, err := svc.GenerateLearningPath(dbc, u.ID, role.ID)
	if err != nil {
		t.Fatalf("GenerateLearningPath: %v", err)
	}
	first, second := view.Steps[0], view.Steps[1]

	if _, err := svc.MarkStepComplete(dbc, u.ID, second.ID); !errors.Is(err, pkgerrors.ErrStepLocked) {
		t.Fatalf("expected ErrStepLocked for out-of-order completion, got %v", err)
	}

	ready, err := svc.EvaluateStepReadiness(dbc, u.ID, second.ID)
	if err != nil {
		t.Fatalf("EvaluateStepReadiness: %v", err)
	}
	if ready.CanComplete || ready.Reason == "" {
		t.Fatalf("expected locked readiness with reason, got %+v", ready)
	}

	after, err := svc.MarkStepComplete(dbc, u.ID, first.ID)
	if err != nil {
		t.Fatalf("MarkStepComplete (first): %v", err)
	}
	if !after.Steps[0].Completed || after.Steps[0].CompletedAt == nil {
		t.Fatalf("expected first step completed: %+v", after.Steps[0])
	}
	if after.Progress != 50 {
		t.Fatalf("expected progress 50, got %d", after.Progress)
	}

	// completing again is a no-op
	repeat, err := svc.MarkStepComplete(dbc, u.ID, first.ID)
	if err != nil {
		t.Fatalf("MarkStepComplete (repeat): %v", err)
	}
	if repeat.Progress != 50 {
		t.Fatalf("expected unchanged progress, got %d", repeat.Progress)
	}

	done, err := svc.MarkStepComplete(dbc, u.ID, second.ID)
	if err != nil {
		t.Fatalf("MarkStepComplete (second): %v", err)
	}
	if done.Progress != 100 {
		t.Fatalf("expected progress 100, got %d", done.Progress)
	}
}

func TestSubmitStepAssessment(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.WithTx(ctx, tx)
	svc := newPathService(t, db)
	log := testutil.Logger(t)
	stepRepo := learningrepos.NewPathStepRepo(db, log)

	u := testutil.SeedUser(t, ctx, tx, "pathsvc-assess@example.com")
	role := testutil.SeedRole(t, ctx, tx, "pathsvc-assess-role")
	sk := testutil.SeedSkill(t, ctx, tx, "pathsvc-assess-skill")
	testutil.SeedRequirement(t, ctx, tx, role.ID, sk.ID, "advanced", 1)

	view, err := svc.GenerateLearningPath(dbc, u.ID, role.ID)
	if err != nil {
		t.Fatalf("GenerateLearningPath: %v", err)
	}
	stepID := view.Steps[0].ID

	// a step without an assessment auto-passes the gate but rejects submissions
	if _, err := svc.SubmitStepAssessment(dbc, u.ID, stepID, []int{1}); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for step without assessment, got %v", err)
	}

	if err := stepRepo.UpdateFields(dbc, stepID, map[string]interface{}{
		"assessment_key": datatypes.JSON([]byte(`[1,0,2,1]`)),
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	if _, err := svc.SubmitStepAssessment(dbc, u.ID, stepID, []int{1, 0}); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for wrong answer count, got %v", err)
	}
	if _, err := svc.MarkStepComplete(dbc, u.ID, stepID); !errors.Is(err, pkgerrors.ErrStepLocked) {
		t.Fatalf("expected ErrStepLocked before assessment, got %v", err)
	}

	failed, err := svc.SubmitStepAssessment(dbc, u.ID, stepID, []int{1, 0, 0, 0})
	if err != nil {
		t.Fatalf("SubmitStepAssessment (failing): %v", err)
	}
	if failed.Passed || failed.Score != 50 {
		t.Fatalf("expected failing 50%%, got %+v", failed)
	}

	passed, err := svc.SubmitStepAssessment(dbc, u.ID, stepID, []int{1, 0, 2, 0})
	if err != nil {
		t.Fatalf("SubmitStepAssessment (passing): %v", err)
	}
	if !passed.Passed || passed.Score != 75 {
		t.Fatalf("expected passing 75%%, got %+v", passed)
	}

	// a failing retake after the pass leaves the gate open and the stored
	// score untouched
	retake, err := svc.SubmitStepAssessment(dbc, u.ID, stepID, []int{0, 1, 0, 0})
	if err != nil {
		t.Fatalf("SubmitStepAssessment (failing retake): %v", err)
	}
	if retake.Passed || retake.Score != 0 {
		t.Fatalf("expected failing retake result, got %+v", retake)
	}
	stored, err := stepRepo.GetByID(dbc, stepID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !stored.AssessmentPassed || stored.AssessmentScore == nil || *stored.AssessmentScore != 75 {
		t.Fatalf("expected stored pass at 75 to survive the retake, got passed=%v score=%v",
			stored.AssessmentPassed, stored.AssessmentScore)
	}

	if _, err := svc.MarkStepComplete(dbc, u.ID, stepID); err != nil {
		t.Fatalf("MarkStepComplete after passing: %v", err)
	}
}

// flakyStepRepo fails ListByPath on demand while delegating everything else.
type flakyStepRepo struct {
	learningrepos.PathStepRepo
	failList bool
}

func (r *flakyStepRepo) ListByPath(dbc dbctx.Context, pathID uuid.UUID) ([]*types.LearningPathStep, error) {
	if r.failList {
		return nil, fmt.Errorf("connection reset")
	}
	return r.PathStepRepo.ListByPath(dbc, pathID)
}

func TestGateEvaluationErrorPropagates(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.WithTx(ctx, tx)
	log := testutil.Logger(t)

	flaky := &flakyStepRepo{PathStepRepo: learningrepos.NewPathStepRepo(db, log)}
	svc := NewPathService(PathServiceDeps{
		DB:           db,
		Log:          log,
		Engine:       engine.New(log, engine.BasicTieBreak{}, nil, engine.DefaultTuning()),
		Users:        userrepos.NewUserRepo(db, log),
		Roles:        catalogrepos.NewRoleRepo(db, log),
		Requirements: catalogrepos.NewSkillRequirementRepo(db, log),
		Skills:       catalogrepos.NewSkillRepo(db, log),
		Paths:        learningrepos.NewPathRepo(db, log),
		Steps:        flaky,
		SkillStates:  learningrepos.NewUserSkillStateRepo(db, log),
		Progressions: learningrepos.NewSkillProgressionRepo(db, log),
	})

	u := testutil.SeedUser(t, ctx, tx, "pathsvc-flaky@example.com")
	role := testutil.SeedRole(t, ctx, tx, "pathsvc-flaky-role")
	a := testutil.SeedSkill(t, ctx, tx, "pathsvc-flaky-a")
	b := testutil.SeedSkill(t, ctx, tx, "pathsvc-flaky-b")
	path := testutil.SeedPath(t, ctx, tx, u.ID, role.ID)
	testutil.SeedPathStep(t, ctx, tx, path.ID, a.ID, 1)
	second := testutil.SeedPathStep(t, ctx, tx, path.ID, b.ID, 2)

	flaky.failList = true
	if _, err := svc.EvaluateStepReadiness(dbc, u.ID, second.ID); err == nil || errors.Is(err, pkgerrors.ErrStepLocked) {
		t.Fatalf("expected the listing failure to surface as an error, got %v", err)
	}
	if _, err := svc.MarkStepComplete(dbc, u.ID, second.ID); err == nil || errors.Is(err, pkgerrors.ErrStepLocked) {
		t.Fatalf("expected the listing failure to surface as an error, got %v", err)
	}
}

func TestStepOwnership(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.WithTx(ctx, tx)
	svc := newPathService(t, db)

	owner := testutil.SeedUser(t, ctx, tx, "pathsvc-owner@example.com")
	other := testutil.SeedUser(t, ctx, tx, "pathsvc-other@example.com")
	role := testutil.SeedRole(t, ctx, tx, "pathsvc-owner-role")
	sk := testutil.SeedSkill(t, ctx, tx, "pathsvc-owner-skill")
	testutil.SeedRequirement(t, ctx, tx, role.ID, sk.ID, "intermediate", 1)

	view, err := svc.GenerateLearningPath(dbc, owner.ID, role.ID)
	if err != nil {
		t.Fatalf("GenerateLearningPath: %v", err)
	}

	if _, err := svc.MarkStepComplete(dbc, other.ID, view.Steps[0].ID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign step, got %v", err)
	}
	if _, err := svc.GetPath(dbc, other.ID, view.ID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign path, got %v", err)
	}

	listed, err := svc.ListPaths(dbc, owner.ID)
	if err != nil || len(listed) != 1 {
		t.Fatalf("ListPaths: err=%v len=%d", err, len(listed))
	}
}

func TestDeriveLearnerSpeed(t *testing.T) {
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	skill := uuid.New()

	if got := deriveLearnerSpeed(nil); got != 1.0 {
		t.Fatalf("expected neutral speed without history, got %v", got)
	}

	single := []engine.ProgressionPoint{{SkillID: skill, Score: 40, RecordedAt: base}}
	if got := deriveLearnerSpeed(single); got != 1.0 {
		t.Fatalf("expected neutral speed for single sample, got %v", got)
	}

	// 20 points over 2 weeks = baseline 10 points/week
	baseline := []engine.ProgressionPoint{
		{SkillID: skill, Score: 20, RecordedAt: base},
		{SkillID: skill, Score: 40, RecordedAt: base.AddDate(0, 0, 14)},
	}
	if got := deriveLearnerSpeed(baseline); got != 1.0 {
		t.Fatalf("expected baseline speed 1.0, got %v", got)
	}

	// 40 points over 1 week clamps at the fast bound
	fast := []engine.ProgressionPoint{
		{SkillID: skill, Score: 10, RecordedAt: base},
		{SkillID: skill, Score: 50, RecordedAt: base.AddDate(0, 0, 7)},
	}
	if got := deriveLearnerSpeed(fast); got != 2.0 {
		t.Fatalf("expected clamped speed 2.0, got %v", got)
	}

	// declining scores carry no usable rate
	declining := []engine.ProgressionPoint{
		{SkillID: skill, Score: 50, RecordedAt: base},
		{SkillID: skill, Score: 30, RecordedAt: base.AddDate(0, 0, 7)},
	}
	if got := deriveLearnerSpeed(declining); got != 1.0 {
		t.Fatalf("expected neutral speed for declining history, got %v", got)
	}
}
