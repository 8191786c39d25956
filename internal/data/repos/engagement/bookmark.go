package engagement

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type BookmarkRepo interface {
	Create(dbc dbctx.Context, bookmarks []*types.Bookmark) ([]*types.Bookmark, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Bookmark, error)
	// Find returns the user's bookmark on the given resource or quiz, if any.
	Find(dbc dbctx.Context, userID uuid.UUID, resourceID, quizID *uuid.UUID) (*types.Bookmark, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Bookmark, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type bookmarkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookmarkRepo(db *gorm.DB, baseLog *logger.Logger) BookmarkRepo {
	repoLog := baseLog.With("repo", "BookmarkRepo")
	return &bookmarkRepo{db: db, log: repoLog}
}

func (r *bookmarkRepo) Create(dbc dbctx.Context, bookmarks []*types.Bookmark) ([]*types.Bookmark, error) {
	if len(bookmarks) == 0 {
		return []*types.Bookmark{}, nil
	}
	if err := dbc.DB(r.db).Create(&bookmarks).Error; err != nil {
		return nil, err
	}
	return bookmarks, nil
}

func (r *bookmarkRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Bookmark, error) {
	var b types.Bookmark
	err := dbc.DB(r.db).Where("id = ?", id).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookmarkRepo) Find(dbc dbctx.Context, userID uuid.UUID, resourceID, quizID *uuid.UUID) (*types.Bookmark, error) {
	if resourceID == nil && quizID == nil {
		return nil, nil
	}
	q := dbc.DB(r.db).Where("user_id = ?", userID)
	switch {
	case resourceID != nil && quizID != nil:
		q = q.Where("(resource_id = ? OR quiz_id = ?)", *resourceID, *quizID)
	case resourceID != nil:
		q = q.Where("resource_id = ?", *resourceID)
	default:
		q = q.Where("quiz_id = ?", *quizID)
	}
	var b types.Bookmark
	err := q.First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookmarkRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Bookmark, error) {
	var out []*types.Bookmark
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *bookmarkRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(r.db).Where("id = ?", id).Delete(&types.Bookmark{}).Error
}
