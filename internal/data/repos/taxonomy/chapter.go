package taxonomy

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type ChapterRepo interface {
	Create(dbc dbctx.Context, chapters []*types.Chapter) ([]*types.Chapter, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Chapter, error)
	GetByTopicAndTitle(dbc dbctx.Context, topicID uuid.UUID, title string) (*types.Chapter, error)
	List(dbc dbctx.Context, topicID *uuid.UUID) ([]*types.Chapter, error)
	Update(dbc dbctx.Context, chapter *types.Chapter) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type chapterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
	repoLog := baseLog.With("repo", "ChapterRepo")
	return &chapterRepo{db: db, log: repoLog}
}

func (r *chapterRepo) Create(dbc dbctx.Context, chapters []*types.Chapter) ([]*types.Chapter, error) {
	if len(chapters) == 0 {
		return []*types.Chapter{}, nil
	}
	if err := dbc.DB(r.db).Omit("Topic").Create(&chapters).Error; err != nil {
		return nil, err
	}
	return chapters, nil
}

func (r *chapterRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Chapter, error) {
	var c types.Chapter
	err := dbc.DB(r.db).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *chapterRepo) GetByTopicAndTitle(dbc dbctx.Context, topicID uuid.UUID, title string) (*types.Chapter, error) {
	var c types.Chapter
	err := dbc.DB(r.db).Where("topic_id = ? AND title = ?", topicID, title).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *chapterRepo) List(dbc dbctx.Context, topicID *uuid.UUID) ([]*types.Chapter, error) {
	q := dbc.DB(r.db).Order("title ASC")
	if topicID != nil {
		q = q.Where("topic_id = ?", *topicID)
	}
	var out []*types.Chapter
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *chapterRepo) Update(dbc dbctx.Context, chapter *types.Chapter) error {
	return dbc.DB(r.db).
		Model(&types.Chapter{}).
		Where("id = ?", chapter.ID).
		Updates(map[string]any{
			"topic_id": chapter.TopicID,
			"title":    chapter.Title,
		}).Error
}

func (r *chapterRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.Transaction(r.db, func(inner dbctx.Context) error {
		tx := inner.DB(r.db)
		if err := clearRefs(tx, "chapter_id", []uuid.UUID{id}); err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&types.Chapter{}).Error
	})
}
