package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/pathwise/pathwise-backend/internal/domain"
	"github.com/pathwise/pathwise-backend/internal/pkg/dbctx"
	"github.com/pathwise/pathwise-backend/internal/platform/logger"
)

type UserSkillStateRepo interface {
	Upsert(dbc dbctx.Context, row *types.UserSkillState) error
	MapByUser(dbc dbctx.Context, userID uuid.UUID) (map[uuid.UUID]float64, error)
}

type userSkillStateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserSkillStateRepo(db *gorm.DB, baseLog *logger.Logger) UserSkillStateRepo {
	return &userSkillStateRepo{db: db, log: baseLog.With("repo", "UserSkillStateRepo")}
}

func (r *userSkillStateRepo) Upsert(dbc dbctx.Context, row *types.UserSkillState) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == uuid.Nil || row.SkillID == uuid.Nil {
		return nil
	}

	now := time.Now().UTC()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now

	return t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "skill_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"score", "assessed_at", "updated_at",
			}),
		}).
		Create(row).Error
}

func (r *userSkillStateRepo) MapByUser(dbc dbctx.Context, userID uuid.UUID) (map[uuid.UUID]float64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := map[uuid.UUID]float64{}
	if userID == uuid.Nil {
		return out, nil
	}
	var rows []*types.UserSkillState
	if err := t.WithContext(dbc.Ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.SkillID] = row.Score
	}
	return out, nil
}
