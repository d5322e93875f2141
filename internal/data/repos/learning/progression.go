package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/pathwise/pathwise-backend/internal/domain"
	"github.com/pathwise/pathwise-backend/internal/pkg/dbctx"
	"github.com/pathwise/pathwise-backend/internal/platform/logger"
)

type SkillProgressionRepo interface {
	Create(dbc dbctx.Context, rows []*types.SkillProgression) ([]*types.SkillProgression, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.SkillProgression, error)
}

type skillProgressionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkillProgressionRepo(db *gorm.DB, baseLog *logger.Logger) SkillProgressionRepo {
	return &skillProgressionRepo{db: db, log: baseLog.With("repo", "SkillProgressionRepo")}
}

func (r *skillProgressionRepo) Create(dbc dbctx.Context, rows []*types.SkillProgression) ([]*types.SkillProgression, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.SkillProgression{}, nil
	}
	now := time.Now().UTC()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		if row.RecordedAt.IsZero() {
			row.RecordedAt = now
		}
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *skillProgressionRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.SkillProgression, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.SkillProgression
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("recorded_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
