package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/pathwise/pathwise-backend/internal/domain"
	"github.com/pathwise/pathwise-backend/internal/pkg/dbctx"
	"github.com/pathwise/pathwise-backend/internal/platform/logger"
)

type SkillRepo interface {
	Create(dbc dbctx.Context, rows []*types.Skill) ([]*types.Skill, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Skill, error)
	GetBySlug(dbc dbctx.Context, slug string) (*types.Skill, error)
	ListAll(dbc dbctx.Context) ([]*types.Skill, error)

	AddPrerequisite(dbc dbctx.Context, skillID, prerequisiteID uuid.UUID) error
	ListPrerequisites(dbc dbctx.Context) ([]*types.SkillPrerequisite, error)
}

type skillRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkillRepo(db *gorm.DB, baseLog *logger.Logger) SkillRepo {
	return &skillRepo{db: db, log: baseLog.With("repo", "SkillRepo")}
}

func (r *skillRepo) Create(dbc dbctx.Context, rows []*types.Skill) ([]*types.Skill, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Skill{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *skillRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Skill, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Skill
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *skillRepo) GetBySlug(dbc dbctx.Context, slug string) (*types.Skill, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if slug == "" {
		return nil, nil
	}
	var row types.Skill
	if err := t.WithContext(dbc.Ctx).Where("slug = ?", slug).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *skillRepo) ListAll(dbc dbctx.Context) ([]*types.Skill, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Skill
	if err := t.WithContext(dbc.Ctx).Order("slug ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *skillRepo) AddPrerequisite(dbc dbctx.Context, skillID, prerequisiteID uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if skillID == uuid.Nil || prerequisiteID == uuid.Nil || skillID == prerequisiteID {
		return nil
	}
	row := types.SkillPrerequisite{SkillID: skillID, PrerequisiteID: prerequisiteID}
	return t.WithContext(dbc.Ctx).
		Where(types.SkillPrerequisite{SkillID: skillID, PrerequisiteID: prerequisiteID}).
		FirstOrCreate(&row).Error
}

func (r *skillRepo) ListPrerequisites(dbc dbctx.Context) ([]*types.SkillPrerequisite, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.SkillPrerequisite
	if err := t.WithContext(dbc.Ctx).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
