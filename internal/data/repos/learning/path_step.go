package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/pathwise/pathwise-backend/internal/domain"
	"github.com/pathwise/pathwise-backend/internal/pkg/dbctx"
	"github.com/pathwise/pathwise-backend/internal/platform/logger"
)

type PathStepRepo interface {
	Create(dbc dbctx.Context, rows []*types.LearningPathStep) ([]*types.LearningPathStep, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LearningPathStep, error)
	ListByPath(dbc dbctx.Context, pathID uuid.UUID) ([]*types.LearningPathStep, error)
	CountByPath(dbc dbctx.Context, pathID uuid.UUID) (total int64, completed int64, err error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteByPathIDs(dbc dbctx.Context, pathIDs []uuid.UUID) error
}

type pathStepRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPathStepRepo(db *gorm.DB, baseLog *logger.Logger) PathStepRepo {
	return &pathStepRepo{db: db, log: baseLog.With("repo", "PathStepRepo")}
}

func (r *pathStepRepo) Create(dbc dbctx.Context, rows []*types.LearningPathStep) ([]*types.LearningPathStep, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.LearningPathStep{}, nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *pathStepRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LearningPathStep, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.LearningPathStep
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *pathStepRepo) ListByPath(dbc dbctx.Context, pathID uuid.UUID) ([]*types.LearningPathStep, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.LearningPathStep
	if pathID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("path_id = ?", pathID).
		Order("position ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *pathStepRepo) CountByPath(dbc dbctx.Context, pathID uuid.UUID) (int64, int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if pathID == uuid.Nil {
		return 0, 0, nil
	}
	var total, completed int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.LearningPathStep{}).
		Where("path_id = ?", pathID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := t.WithContext(dbc.Ctx).
		Model(&types.LearningPathStep{}).
		Where("path_id = ? AND completed", pathID).
		Count(&completed).Error; err != nil {
		return 0, 0, err
	}
	return total, completed, nil
}

func (r *pathStepRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
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
		Model(&types.LearningPathStep{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *pathStepRepo) DeleteByPathIDs(dbc dbctx.Context, pathIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(pathIDs) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("path_id IN ?", pathIDs).Delete(&types.LearningPathStep{}).Error
}
