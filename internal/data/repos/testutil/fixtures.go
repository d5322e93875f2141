package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/pathwise/pathwise-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedSkill(tb testing.TB, ctx context.Context, tx *gorm.DB, slug string) *types.Skill {
	tb.Helper()
	s := &types.Skill{
		ID:   uuid.New(),
		Slug: slug,
		Name: slug,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed skill: %v", err)
	}
	return s
}

func SeedPrerequisite(tb testing.TB, ctx context.Context, tx *gorm.DB, skillID, prerequisiteID uuid.UUID) {
	tb.Helper()
	p := &types.SkillPrerequisite{
		ID:             uuid.New(),
		SkillID:        skillID,
		PrerequisiteID: prerequisiteID,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed prerequisite: %v", err)
	}
}

func SeedRole(tb testing.TB, ctx context.Context, tx *gorm.DB, slug string) *types.Role {
	tb.Helper()
	r := &types.Role{
		ID:    uuid.New(),
		Slug:  slug,
		Title: slug,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed role: %v", err)
	}
	return r
}

func SeedRequirement(tb testing.TB, ctx context.Context, tx *gorm.DB, roleID, skillID uuid.UUID, level string, position int) *types.SkillRequirement {
	tb.Helper()
	req := &types.SkillRequirement{
		ID:         uuid.New(),
		RoleID:     roleID,
		SkillID:    skillID,
		Level:      level,
		Weight:     0.5,
		Difficulty: 1,
		Position:   position,
	}
	if err := tx.WithContext(ctx).Create(req).Error; err != nil {
		tb.Fatalf("seed requirement: %v", err)
	}
	return req
}

func SeedPath(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, roleID uuid.UUID) *types.LearningPath {
	tb.Helper()
	p := &types.LearningPath{
		ID:     uuid.New(),
		UserID: userID,
		RoleID: roleID,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed path: %v", err)
	}
	return p
}

func SeedPathStep(tb testing.TB, ctx context.Context, tx *gorm.DB, pathID, skillID uuid.UUID, position int) *types.LearningPathStep {
	tb.Helper()
	s := &types.LearningPathStep{
		ID:             uuid.New(),
		PathID:         pathID,
		SkillID:        skillID,
		Position:       position,
		TargetLevel:    "intermediate",
		Gap:            25,
		Severity:       "medium",
		EstimatedWeeks: 3,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed path step: %v", err)
	}
	return s
}

func SeedSkillState(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, skillID uuid.UUID, score float64) *types.UserSkillState {
	tb.Helper()
	now := time.Now().UTC()
	st := &types.UserSkillState{
		ID:         uuid.New(),
		UserID:     userID,
		SkillID:    skillID,
		Score:      score,
		AssessedAt: &now,
	}
	if err := tx.WithContext(ctx).Create(st).Error; err != nil {
		tb.Fatalf("seed skill state: %v", err)
	}
	return st
}

func SeedProgression(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, skillID uuid.UUID, score float64, recordedAt time.Time) *types.SkillProgression {
	tb.Helper()
	p := &types.SkillProgression{
		ID:         uuid.New(),
		UserID:     userID,
		SkillID:    skillID,
		Score:      score,
		RecordedAt: recordedAt,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed progression: %v", err)
	}
	return p
}
