package engagement

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type TopicProgressRepo interface {
	// Upsert writes is_completed for (user, topic), creating the row when absent.
	Upsert(dbc dbctx.Context, userID, topicID uuid.UUID, completed bool) (*types.TopicProgress, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.TopicProgress, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.TopicProgress, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type topicProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicProgressRepo(db *gorm.DB, baseLog *logger.Logger) TopicProgressRepo {
	repoLog := baseLog.With("repo", "TopicProgressRepo")
	return &topicProgressRepo{db: db, log: repoLog}
}

func (r *topicProgressRepo) Upsert(dbc dbctx.Context, userID, topicID uuid.UUID, completed bool) (*types.TopicProgress, error) {
	tx := dbc.DB(r.db)
	row := &types.TopicProgress{
		UserID:      userID,
		TopicID:     topicID,
		IsCompleted: completed,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "topic_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"is_completed": completed,
			"updated_at":   time.Now().UTC(),
		}),
	}).Create(row).Error; err != nil {
		return nil, err
	}

	var out types.TopicProgress
	if err := tx.Where("user_id = ? AND topic_id = ?", userID, topicID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *topicProgressRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.TopicProgress, error) {
	var p types.TopicProgress
	err := dbc.DB(r.db).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *topicProgressRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.TopicProgress, error) {
	var out []*types.TopicProgress
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *topicProgressRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(r.db).Where("id = ?", id).Delete(&types.TopicProgress{}).Error
}
