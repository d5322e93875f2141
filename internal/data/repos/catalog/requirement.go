package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/pathwise/pathwise-backend/internal/domain"
	"github.com/pathwise/pathwise-backend/internal/pkg/dbctx"
	"github.com/pathwise/pathwise-backend/internal/platform/logger"
)

type RoleRepo interface {
	Create(dbc dbctx.Context, row *types.Role) (*types.Role, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Role, error)
	GetBySlug(dbc dbctx.Context, slug string) (*types.Role, error)
}

type roleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoleRepo(db *gorm.DB, baseLog *logger.Logger) RoleRepo {
	return &roleRepo{db: db, log: baseLog.With("repo", "RoleRepo")}
}

func (r *roleRepo) Create(dbc dbctx.Context, row *types.Role) (*types.Role, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := t.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *roleRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Role, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Role
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *roleRepo) GetBySlug(dbc dbctx.Context, slug string) (*types.Role, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if slug == "" {
		return nil, nil
	}
	var row types.Role
	if err := t.WithContext(dbc.Ctx).Where("slug = ?", slug).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

type SkillRequirementRepo interface {
	Create(dbc dbctx.Context, rows []*types.SkillRequirement) ([]*types.SkillRequirement, error)
	ListByRole(dbc dbctx.Context, roleID uuid.UUID) ([]*types.SkillRequirement, error)
}

type skillRequirementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkillRequirementRepo(db *gorm.DB, baseLog *logger.Logger) SkillRequirementRepo {
	return &skillRequirementRepo{db: db, log: baseLog.With("repo", "SkillRequirementRepo")}
}

func (r *skillRequirementRepo) Create(dbc dbctx.Context, rows []*types.SkillRequirement) ([]*types.SkillRequirement, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.SkillRequirement{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *skillRequirementRepo) ListByRole(dbc dbctx.Context, roleID uuid.UUID) ([]*types.SkillRequirement, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.SkillRequirement
	if roleID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("role_id = ?", roleID).
		Order("position ASC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
