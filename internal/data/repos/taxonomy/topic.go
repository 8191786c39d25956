package taxonomy

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type TopicRepo interface {
	Create(dbc dbctx.Context, topics []*types.Topic) ([]*types.Topic, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Topic, error)
	GetBySubjectAndName(dbc dbctx.Context, subjectID uuid.UUID, name string) (*types.Topic, error)
	List(dbc dbctx.Context, subjectID *uuid.UUID) ([]*types.Topic, error)
	Update(dbc dbctx.Context, topic *types.Topic) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type topicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	repoLog := baseLog.With("repo", "TopicRepo")
	return &topicRepo{db: db, log: repoLog}
}

func (r *topicRepo) Create(dbc dbctx.Context, topics []*types.Topic) ([]*types.Topic, error) {
	if len(topics) == 0 {
		return []*types.Topic{}, nil
	}
	if err := dbc.DB(r.db).Omit("Subject").Create(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *topicRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Topic, error) {
	var t types.Topic
	err := dbc.DB(r.db).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *topicRepo) GetBySubjectAndName(dbc dbctx.Context, subjectID uuid.UUID, name string) (*types.Topic, error) {
	var t types.Topic
	err := dbc.DB(r.db).Where("subject_id = ? AND name = ?", subjectID, name).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *topicRepo) List(dbc dbctx.Context, subjectID *uuid.UUID) ([]*types.Topic, error) {
	q := dbc.DB(r.db).Order("name ASC")
	if subjectID != nil {
		q = q.Where("subject_id = ?", *subjectID)
	}
	var out []*types.Topic
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *topicRepo) Update(dbc dbctx.Context, topic *types.Topic) error {
	return dbc.DB(r.db).
		Model(&types.Topic{}).
		Where("id = ?", topic.ID).
		Updates(map[string]any{
			"subject_id": topic.SubjectID,
			"name":       topic.Name,
		}).Error
}

func (r *topicRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.Transaction(r.db, func(inner dbctx.Context) error {
		return deleteTopics(inner.DB(r.db), []uuid.UUID{id})
	})
}
