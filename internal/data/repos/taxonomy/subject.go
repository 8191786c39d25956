package taxonomy

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type SubjectRepo interface {
	Create(dbc dbctx.Context, subjects []*types.Subject) ([]*types.Subject, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Subject, error)
	GetByName(dbc dbctx.Context, name string) (*types.Subject, error)
	List(dbc dbctx.Context) ([]*types.Subject, error)
	Update(dbc dbctx.Context, subject *types.Subject) error
	// Delete removes the subject with its topics and chapters, clears references
	// from resources and quizzes and drops progress rows for the removed topics.
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type subjectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	repoLog := baseLog.With("repo", "SubjectRepo")
	return &subjectRepo{db: db, log: repoLog}
}

func (r *subjectRepo) Create(dbc dbctx.Context, subjects []*types.Subject) ([]*types.Subject, error) {
	if len(subjects) == 0 {
		return []*types.Subject{}, nil
	}
	if err := dbc.DB(r.db).Create(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Subject, error) {
	var s types.Subject
	err := dbc.DB(r.db).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *subjectRepo) GetByName(dbc dbctx.Context, name string) (*types.Subject, error) {
	var s types.Subject
	err := dbc.DB(r.db).Where("name = ?", name).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *subjectRepo) List(dbc dbctx.Context) ([]*types.Subject, error) {
	var out []*types.Subject
	if err := dbc.DB(r.db).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *subjectRepo) Update(dbc dbctx.Context, subject *types.Subject) error {
	return dbc.DB(r.db).
		Model(&types.Subject{}).
		Where("id = ?", subject.ID).
		Updates(map[string]any{"name": subject.Name}).Error
}

func (r *subjectRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.Transaction(r.db, func(inner dbctx.Context) error {
		tx := inner.DB(r.db)
		var topicIDs []uuid.UUID
		if err := tx.Model(&types.Topic{}).Where("subject_id = ?", id).Pluck("id", &topicIDs).Error; err != nil {
			return err
		}
		if err := deleteTopics(tx, topicIDs); err != nil {
			return err
		}
		if err := clearRefs(tx, "subject_id", []uuid.UUID{id}); err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&types.Subject{}).Error
	})
}

// clearRefs nulls a taxonomy column on resources and quizzes.
func clearRefs(tx *gorm.DB, column string, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	for _, model := range []any{&types.Resource{}, &types.Quiz{}} {
		if err := tx.Model(model).
			Where(column+" IN ?", ids).
			Update(column, nil).Error; err != nil {
			return err
		}
	}
	return nil
}

// deleteTopics removes topics with their chapters and progress rows.
func deleteTopics(tx *gorm.DB, topicIDs []uuid.UUID) error {
	if len(topicIDs) == 0 {
		return nil
	}
	var chapterIDs []uuid.UUID
	if err := tx.Model(&types.Chapter{}).Where("topic_id IN ?", topicIDs).Pluck("id", &chapterIDs).Error; err != nil {
		return err
	}
	if err := clearRefs(tx, "chapter_id", chapterIDs); err != nil {
		return err
	}
	if len(chapterIDs) > 0 {
		if err := tx.Where("id IN ?", chapterIDs).Delete(&types.Chapter{}).Error; err != nil {
			return err
		}
	}
	if err := clearRefs(tx, "topic_id", topicIDs); err != nil {
		return err
	}
	if err := tx.Where("topic_id IN ?", topicIDs).Delete(&types.TopicProgress{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", topicIDs).Delete(&types.Topic{}).Error
}
