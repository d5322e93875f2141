package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/pathwise/pathwise-backend/internal/domain"
	"github.com/pathwise/pathwise-backend/internal/pkg/dbctx"
	"github.com/pathwise/pathwise-backend/internal/platform/logger"
)

type PathRepo interface {
	Create(dbc dbctx.Context, row *types.LearningPath) (*types.LearningPath, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LearningPath, error)
	GetByUserAndRole(dbc dbctx.Context, userID, roleID uuid.UUID) (*types.LearningPath, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.LearningPath, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type pathRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPathRepo(db *gorm.DB, baseLog *logger.Logger) PathRepo {
	return &pathRepo{db: db, log: baseLog.With("repo", "PathRepo")}
}

func (r *pathRepo) Create(dbc dbctx.Context, row *types.LearningPath) (*types.LearningPath, error) {
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

func (r *pathRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LearningPath, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.LearningPath
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *pathRepo) GetByUserAndRole(dbc dbctx.Context, userID, roleID uuid.UUID) (*types.LearningPath, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || roleID == uuid.Nil {
		return nil, nil
	}
	var row types.LearningPath
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *pathRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.LearningPath, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.LearningPath
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *pathRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.LearningPath{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *pathRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("id IN ?", ids).Delete(&types.LearningPath{}).Error
}
