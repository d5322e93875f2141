package services

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	redisclient "github.com/pathwise/pathwise-backend/internal/clients/redis"
	catalogrepos "github.com/pathwise/pathwise-backend/internal/data/repos/catalog"
	learningrepos "github.com/pathwise/pathwise-backend/internal/data/repos/learning"
	userrepos "github.com/pathwise/pathwise-backend/internal/data/repos/user"
	types "github.com/pathwise/pathwise-backend/internal/domain"
	"github.com/pathwise/pathwise-backend/internal/engine"
	"github.com/pathwise/pathwise-backend/internal/pkg/dbctx"
	pkgerrors "github.com/pathwise/pathwise-backend/internal/pkg/errors"
	"github.com/pathwise/pathwise-backend/internal/platform/logger"
)

const defaultPassThreshold = 70

// StepView is the API-facing shape of one path step.
type StepView struct {
	ID               uuid.UUID  `json:"id"`
	SkillID          uuid.UUID  `json:"skill_id"`
	SkillName        string     `json:"skill_name,omitempty"`
	Position         int        `json:"position"`
	TargetLevel      string     `json:"target_level"`
	Gap              float64    `json:"gap"`
	Severity         string     `json:"severity"`
	EstimatedWeeks   int        `json:"estimated_weeks"`
	Completed        bool       `json:"completed"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	AssessmentPassed bool       `json:"assessment_passed"`
	AssessmentScore  *float64   `json:"assessment_score,omitempty"`
	HasAssessment    bool       `json:"has_assessment"`
}

// PathView is the API-facing shape of a learning path with its resolution
// diagnostics pulled out of the metadata column.
type PathView struct {
	ID            uuid.UUID     `json:"id"`
	UserID        uuid.UUID     `json:"user_id"`
	RoleID        uuid.UUID     `json:"role_id"`
	TotalWeeks    int           `json:"total_weeks"`
	Progress      int           `json:"progress"`
	CycleDetected bool          `json:"cycle_detected"`
	Groups        [][]uuid.UUID `json:"groups,omitempty"`
	Steps         []StepView    `json:"steps"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// StepReadiness is the read-only mirror of the completion gate.
type StepReadiness struct {
	StepID      uuid.UUID `json:"step_id"`
	CanComplete bool      `json:"can_complete"`
	Reason      string    `json:"reason,omitempty"`
}

// AssessmentResult is the outcome of a single assessment submission. Passed
// reflects that submission only; once a step's gate has opened, later failing
// attempts neither close it nor overwrite the stored score.
type AssessmentResult struct {
	StepID uuid.UUID `json:"step_id"`
	Score  float64   `json:"score"`
	Passed bool      `json:"passed"`
}

// pathMetadata is the JSONB diagnostics payload stored on the path row.
type pathMetadata struct {
	CycleDetected bool          `json:"cycle_detected"`
	Groups        [][]uuid.UUID `json:"groups,omitempty"`
	LearnerSpeed  float64       `json:"learner_speed,omitempty"`
	GeneratedAt   time.Time     `json:"generated_at"`
}

type PathService interface {
	GenerateLearningPath(dbc dbctx.Context, userID, roleID uuid.UUID) (*PathView, error)
	GetPath(dbc dbctx.Context, userID, pathID uuid.UUID) (*PathView, error)
	ListPaths(dbc dbctx.Context, userID uuid.UUID) ([]*PathView, error)
	MarkStepComplete(dbc dbctx.Context, userID, stepID uuid.UUID) (*PathView, error)
	SubmitStepAssessment(dbc dbctx.Context, userID, stepID uuid.UUID, answers []int) (*AssessmentResult, error)
	EvaluateStepReadiness(dbc dbctx.Context, userID, stepID uuid.UUID) (*StepReadiness, error)
}

type PathServiceDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Engine *engine.Engine

	Users        userrepos.UserRepo
	Roles        catalogrepos.RoleRepo
	Requirements catalogrepos.SkillRequirementRepo
	Skills       catalogrepos.SkillRepo
	Paths        learningrepos.PathRepo
	Steps        learningrepos.PathStepRepo
	SkillStates  learningrepos.UserSkillStateRepo
	Progressions learningrepos.SkillProgressionRepo

	// Locker is optional; without it generation is only serialized within
	// this process.
	Locker redisclient.PairLocker

	// PassThreshold is the minimum assessment score (0-100) that unlocks a
	// step. Zero means the default of 70.
	PassThreshold float64
}

type pathService struct {
	db     *gorm.DB
	log    *logger.Logger
	engine *engine.Engine

	users        userrepos.UserRepo
	roles        catalogrepos.RoleRepo
	requirements catalogrepos.SkillRequirementRepo
	skills       catalogrepos.SkillRepo
	paths        learningrepos.PathRepo
	steps        learningrepos.PathStepRepo
	skillStates  learningrepos.UserSkillStateRepo
	progressions learningrepos.SkillProgressionRepo

	locker        redisclient.PairLocker
	passThreshold float64
	group         singleflight.Group
}

func NewPathService(deps PathServiceDeps) PathService {
	threshold := deps.PassThreshold
	if threshold <= 0 {
		threshold = defaultPassThreshold
	}
	return &pathService{
		db:            deps.DB,
		log:           deps.Log.With("service", "PathService"),
		engine:        deps.Engine,
		users:         deps.Users,
		roles:         deps.Roles,
		requirements:  deps.Requirements,
		skills:        deps.Skills,
		paths:         deps.Paths,
		steps:         deps.Steps,
		skillStates:   deps.SkillStates,
		progressions:  deps.Progressions,
		locker:        deps.Locker,
		passThreshold: threshold,
	}
}

func (s *pathService) GenerateLearningPath(dbc dbctx.Context, userID, roleID uuid.UUID) (*PathView, error) {
	if userID == uuid.Nil || roleID == uuid.Nil {
		return nil, fmt.Errorf("user and role ids required: %w", pkgerrors.ErrInvalidArgument)
	}

	key := userID.String() + ":" + roleID.String()
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		if s.locker != nil {
			release, ok, err := s.locker.Acquire(dbc.Ctx, userID, roleID)
			if err != nil {
				return nil, fmt.Errorf("acquire generation lock: %w", err)
			}
			if !ok {
				return nil, fmt.Errorf("path generation already in progress for user %s role %s: %w",
					userID, roleID, pkgerrors.ErrConflict)
			}
			defer release()
		}
		return s.generate(dbc, userID, roleID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*PathView), nil
}

func (s *pathService) generate(dbc dbctx.Context, userID, roleID uuid.UUID) (*PathView, error) {
	run := func(inner dbctx.Context) (*PathView, error) {
		u, err := s.users.GetByID(inner, userID)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, fmt.Errorf("user %s: %w", userID, pkgerrors.ErrNotFound)
		}

		role, err := s.roles.GetByID(inner, roleID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, fmt.Errorf("role %s: %w", roleID, pkgerrors.ErrNotFound)
		}

		reqRows, err := s.requirements.ListByRole(inner, roleID)
		if err != nil {
			return nil, err
		}
		if len(reqRows) == 0 {
			return nil, fmt.Errorf("role %s has no skill requirements: %w", role.Slug, pkgerrors.ErrInvalidArgument)
		}

		existing, err := s.paths.GetByUserAndRole(inner, userID, roleID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			steps, err := s.steps.ListByPath(inner, existing.ID)
			if err != nil {
				return nil, err
			}
			if len(steps) > 0 || isCompletedEmptyPath(existing) {
				return s.view(inner, existing, steps)
			}
			// empty and unfinished: a previous generation died between
			// creating the path and its steps
			s.log.Warn("rebuilding empty path", "path_id", existing.ID, "user_id", userID, "role_id", roleID)
			if err := s.steps.DeleteByPathIDs(inner, []uuid.UUID{existing.ID}); err != nil {
				return nil, err
			}
			if err := s.paths.DeleteByIDs(inner, []uuid.UUID{existing.ID}); err != nil {
				return nil, err
			}
		}

		input, err := s.buildEngineInput(inner, userID, reqRows)
		if err != nil {
			return nil, err
		}

		plan, err := s.engine.BuildPlan(input)
		if err != nil {
			return nil, err
		}

		return s.persistPlan(inner, userID, roleID, plan, input.LearnerSpeed)
	}

	if dbc.Tx != nil {
		return run(dbc)
	}

	var out *PathView
	if err := s.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		view, err := run(dbctx.WithTx(dbc.Ctx, tx))
		if err != nil {
			return err
		}
		out = view
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// isCompletedEmptyPath distinguishes a legitimately empty path (user already
// satisfied every requirement, progress pinned at 100) from a half-written one.
func isCompletedEmptyPath(p *types.LearningPath) bool {
	return p.TotalWeeks == 0 && p.Progress == 100
}

func (s *pathService) buildEngineInput(inner dbctx.Context, userID uuid.UUID, reqRows []*types.SkillRequirement) (engine.Input, error) {
	skills, err := s.skills.ListAll(inner)
	if err != nil {
		return engine.Input{}, err
	}
	prereqs, err := s.skills.ListPrerequisites(inner)
	if err != nil {
		return engine.Input{}, err
	}

	catalog := make(engine.CatalogSnapshot, len(skills))
	for _, sk := range skills {
		catalog[sk.ID] = engine.CatalogSkill{ID: sk.ID, Name: sk.Name}
	}
	for _, p := range prereqs {
		entry, ok := catalog[p.SkillID]
		if !ok {
			continue
		}
		entry.Prerequisites = append(entry.Prerequisites, p.PrerequisiteID)
		catalog[p.SkillID] = entry
	}

	reqs := make([]engine.Requirement, 0, len(reqRows))
	for _, r := range reqRows {
		reqs = append(reqs, engine.Requirement{
			SkillID:    r.SkillID,
			Level:      engine.Level(r.Level),
			Weight:     r.Weight,
			Difficulty: r.Difficulty,
		})
	}

	scores, err := s.skillStates.MapByUser(inner, userID)
	if err != nil {
		return engine.Input{}, err
	}

	rows, err := s.progressions.ListByUser(inner, userID)
	if err != nil {
		return engine.Input{}, err
	}
	history := make([]engine.ProgressionPoint, 0, len(rows))
	for _, row := range rows {
		history = append(history, engine.ProgressionPoint{
			SkillID:    row.SkillID,
			Score:      row.Score,
			RecordedAt: row.RecordedAt,
		})
	}

	return engine.Input{
		Catalog:      catalog,
		Requirements: reqs,
		Scores:       scores,
		History:      history,
		LearnerSpeed: deriveLearnerSpeed(history),
	}, nil
}

// deriveLearnerSpeed estimates completion velocity from progression history:
// observed score points per week across skills with at least two samples,
// relative to the 10-points-per-week baseline the duration model assumes.
// Neutral 1.0 without usable history; clamped to [0.5, 2] so one skill cannot
// dominate the whole plan.
func deriveLearnerSpeed(history []engine.ProgressionPoint) float64 {
	bySkill := map[uuid.UUID][]engine.ProgressionPoint{}
	for _, p := range history {
		bySkill[p.SkillID] = append(bySkill[p.SkillID], p)
	}

	var rates []float64
	for _, points := range bySkill {
		if len(points) < 2 {
			continue
		}
		sort.Slice(points, func(i, j int) bool { return points[i].RecordedAt.Before(points[j].RecordedAt) })
		first, last := points[0], points[len(points)-1]
		delta := last.Score - first.Score
		weeks := last.RecordedAt.Sub(first.RecordedAt).Hours() / (24 * 7)
		if delta <= 0 || weeks <= 0 {
			continue
		}
		rates = append(rates, delta/weeks)
	}
	if len(rates) == 0 {
		return 1.0
	}

	sum := 0.0
	for _, r := range rates {
		sum += r
	}
	speed := (sum / float64(len(rates))) / 10.0
	if speed < 0.5 {
		speed = 0.5
	}
	if speed > 2 {
		speed = 2
	}
	return speed
}

func (s *pathService) persistPlan(inner dbctx.Context, userID, roleID uuid.UUID, plan engine.Plan, speed float64) (*PathView, error) {
	groups := make([][]uuid.UUID, 0, len(plan.Groups))
	for _, g := range plan.Groups {
		ids := make([]uuid.UUID, 0, len(g.Skills))
		for _, sg := range g.Skills {
			ids = append(ids, sg.SkillID)
		}
		groups = append(groups, ids)
	}
	meta, err := json.Marshal(pathMetadata{
		CycleDetected: plan.CycleDetected,
		Groups:        groups,
		LearnerSpeed:  speed,
		GeneratedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	progress := 0
	if len(plan.Steps) == 0 {
		progress = 100
	}

	path, err := s.paths.Create(inner, &types.LearningPath{
		ID:         uuid.New(),
		UserID:     userID,
		RoleID:     roleID,
		TotalWeeks: plan.TotalWeeks,
		Progress:   progress,
		Metadata:   datatypes.JSON(meta),
	})
	if err != nil {
		return nil, err
	}

	rows := make([]*types.LearningPathStep, 0, len(plan.Steps))
	for _, st := range plan.Steps {
		rows = append(rows, &types.LearningPathStep{
			PathID:         path.ID,
			SkillID:        st.SkillID,
			Position:       st.Position,
			TargetLevel:    string(st.TargetLevel),
			Gap:            st.Gap,
			Severity:       string(st.Severity),
			EstimatedWeeks: st.EstimatedWeeks,
		})
	}
	created, err := s.steps.Create(inner, rows)
	if err != nil {
		return nil, err
	}

	s.log.Info("learning path generated",
		"path_id", path.ID,
		"user_id", userID,
		"role_id", roleID,
		"steps", len(created),
		"total_weeks", plan.TotalWeeks,
		"cycle_detected", plan.CycleDetected,
	)

	return s.view(inner, path, created)
}

func (s *pathService) GetPath(dbc dbctx.Context, userID, pathID uuid.UUID) (*PathView, error) {
	path, err := s.paths.GetByID(dbc, pathID)
	if err != nil {
		return nil, err
	}
	if path == nil || path.UserID != userID {
		return nil, fmt.Errorf("path %s: %w", pathID, pkgerrors.ErrNotFound)
	}
	steps, err := s.steps.ListByPath(dbc, path.ID)
	if err != nil {
		return nil, err
	}
	return s.view(dbc, path, steps)
}

func (s *pathService) ListPaths(dbc dbctx.Context, userID uuid.UUID) ([]*PathView, error) {
	paths, err := s.paths.ListByUser(dbc, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*PathView, 0, len(paths))
	for _, p := range paths {
		steps, err := s.steps.ListByPath(dbc, p.ID)
		if err != nil {
			return nil, err
		}
		view, err := s.view(dbc, p, steps)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *pathService) MarkStepComplete(dbc dbctx.Context, userID, stepID uuid.UUID) (*PathView, error) {
	run := func(inner dbctx.Context) (*PathView, error) {
		step, path, err := s.ownedStep(inner, userID, stepID)
		if err != nil {
			return nil, err
		}

		if !step.Completed {
			reason, err := s.gateReason(inner, path.ID, step)
			if err != nil {
				return nil, err
			}
			if reason != "" {
				return nil, fmt.Errorf("%s: %w", reason, pkgerrors.ErrStepLocked)
			}

			now := time.Now().UTC()
			if err := s.steps.UpdateFields(inner, step.ID, map[string]interface{}{
				"completed":    true,
				"completed_at": now,
			}); err != nil {
				return nil, err
			}

			total, completed, err := s.steps.CountByPath(inner, path.ID)
			if err != nil {
				return nil, err
			}
			progress := progressPercent(total, completed)
			if err := s.paths.UpdateFields(inner, path.ID, map[string]interface{}{"progress": progress}); err != nil {
				return nil, err
			}
			path.Progress = progress
		}

		steps, err := s.steps.ListByPath(inner, path.ID)
		if err != nil {
			return nil, err
		}
		return s.view(inner, path, steps)
	}

	if dbc.Tx != nil {
		return run(dbc)
	}
	var out *PathView
	if err := s.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		view, err := run(dbctx.WithTx(dbc.Ctx, tx))
		if err != nil {
			return err
		}
		out = view
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *pathService) SubmitStepAssessment(dbc dbctx.Context, userID, stepID uuid.UUID, answers []int) (*AssessmentResult, error) {
	run := func(inner dbctx.Context) (*AssessmentResult, error) {
		step, _, err := s.ownedStep(inner, userID, stepID)
		if err != nil {
			return nil, err
		}

		key, err := decodeAssessmentKey(step.AssessmentKey)
		if err != nil {
			return nil, err
		}
		if key == nil {
			return nil, fmt.Errorf("step %s has no assessment: %w", stepID, pkgerrors.ErrInvalidArgument)
		}
		if len(answers) != len(key) {
			return nil, fmt.Errorf("expected %d answers, got %d: %w", len(key), len(answers), pkgerrors.ErrInvalidArgument)
		}

		matches := 0
		for i, a := range answers {
			if a == key[i] {
				matches++
			}
		}
		score := math.Round(float64(matches)/float64(len(key))*10000) / 100
		passed := score >= s.passThreshold

		// a failing retake after a pass never rewinds the gate or the
		// recorded score
		if step.AssessmentPassed && !passed {
			return &AssessmentResult{StepID: step.ID, Score: score, Passed: false}, nil
		}

		updates := map[string]interface{}{"assessment_score": score}
		if passed {
			updates["assessment_passed"] = true
		}
		if err := s.steps.UpdateFields(inner, step.ID, updates); err != nil {
			return nil, err
		}

		return &AssessmentResult{StepID: step.ID, Score: score, Passed: passed}, nil
	}

	if dbc.Tx != nil {
		return run(dbc)
	}
	var out *AssessmentResult
	if err := s.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		res, err := run(dbctx.WithTx(dbc.Ctx, tx))
		if err != nil {
			return err
		}
		out = res
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *pathService) EvaluateStepReadiness(dbc dbctx.Context, userID, stepID uuid.UUID) (*StepReadiness, error) {
	step, path, err := s.ownedStep(dbc, userID, stepID)
	if err != nil {
		return nil, err
	}
	if step.Completed {
		return &StepReadiness{StepID: step.ID, CanComplete: false, Reason: "step already completed"}, nil
	}
	reason, err := s.gateReason(dbc, path.ID, step)
	if err != nil {
		return nil, err
	}
	if reason != "" {
		return &StepReadiness{StepID: step.ID, CanComplete: false, Reason: reason}, nil
	}
	return &StepReadiness{StepID: step.ID, CanComplete: true}, nil
}

// ownedStep loads a step and its path, enforcing that the path belongs to the
// calling user. Unknown and foreign steps are indistinguishable to the caller.
func (s *pathService) ownedStep(inner dbctx.Context, userID, stepID uuid.UUID) (*types.LearningPathStep, *types.LearningPath, error) {
	step, err := s.steps.GetByID(inner, stepID)
	if err != nil {
		return nil, nil, err
	}
	if step == nil {
		return nil, nil, fmt.Errorf("step %s: %w", stepID, pkgerrors.ErrNotFound)
	}
	path, err := s.paths.GetByID(inner, step.PathID)
	if err != nil {
		return nil, nil, err
	}
	if path == nil || path.UserID != userID {
		return nil, nil, fmt.Errorf("step %s: %w", stepID, pkgerrors.ErrNotFound)
	}
	return step, path, nil
}

// gateReason returns why a step cannot complete yet, or "" when the gate is
// open: the previous step must be completed and the step's own assessment
// passed. A step without an assessment key auto-passes.
func (s *pathService) gateReason(inner dbctx.Context, pathID uuid.UUID, step *types.LearningPathStep) (string, error) {
	if step.Position > 1 {
		steps, err := s.steps.ListByPath(inner, pathID)
		if err != nil {
			return "", err
		}
		for _, prev := range steps {
			if prev.Position == step.Position-1 && !prev.Completed {
				return fmt.Sprintf("step %d must be completed first", prev.Position), nil
			}
		}
	}

	if len(step.AssessmentKey) > 0 && !step.AssessmentPassed {
		return "assessment not passed", nil
	}
	return "", nil
}

func progressPercent(total, completed int64) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

func decodeAssessmentKey(raw datatypes.JSON) ([]int, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var key []int
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, fmt.Errorf("malformed assessment key: %w", err)
	}
	if len(key) == 0 {
		return nil, nil
	}
	return key, nil
}

func (s *pathService) view(inner dbctx.Context, path *types.LearningPath, steps []*types.LearningPathStep) (*PathView, error) {
	var meta pathMetadata
	if len(path.Metadata) > 0 {
		if err := json.Unmarshal(path.Metadata, &meta); err != nil {
			s.log.Warn("unreadable path metadata", "path_id", path.ID, "error", err)
		}
	}

	names := map[uuid.UUID]string{}
	ids := make([]uuid.UUID, 0, len(steps))
	for _, st := range steps {
		ids = append(ids, st.SkillID)
	}
	if len(ids) > 0 {
		skills, err := s.skills.GetByIDs(inner, ids)
		if err != nil {
			return nil, err
		}
		for _, sk := range skills {
			names[sk.ID] = sk.Name
		}
	}

	stepViews := make([]StepView, 0, len(steps))
	for _, st := range steps {
		stepViews = append(stepViews, StepView{
			ID:               st.ID,
			SkillID:          st.SkillID,
			SkillName:        names[st.SkillID],
			Position:         st.Position,
			TargetLevel:      st.TargetLevel,
			Gap:              st.Gap,
			Severity:         st.Severity,
			EstimatedWeeks:   st.EstimatedWeeks,
			Completed:        st.Completed,
			CompletedAt:      st.CompletedAt,
			AssessmentPassed: st.AssessmentPassed,
			AssessmentScore:  st.AssessmentScore,
			HasAssessment:    len(st.AssessmentKey) > 0,
		})
	}

	return &PathView{
		ID:            path.ID,
		UserID:        path.UserID,
		RoleID:        path.RoleID,
		TotalWeeks:    path.TotalWeeks,
		Progress:      path.Progress,
		CycleDetected: meta.CycleDetected,
		Groups:        meta.Groups,
		Steps:         stepViews,
		CreatedAt:     path.CreatedAt,
		UpdatedAt:     path.UpdatedAt,
	}, nil
}
