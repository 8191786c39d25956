package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type BookmarkInput struct {
	ResourceID *uuid.UUID `json:"resource"`
	QuizID     *uuid.UUID `json:"quiz"`
}

type BookmarkService interface {
	Create(dbc dbctx.Context, userID uuid.UUID, in BookmarkInput) (*types.Bookmark, error)
	List(dbc dbctx.Context, userID uuid.UUID) ([]*types.Bookmark, error)
	Get(dbc dbctx.Context, userID, id uuid.UUID) (*types.Bookmark, error)
	Delete(dbc dbctx.Context, userID, id uuid.UUID) error
}

type bookmarkService struct {
	db        *gorm.DB
	log       *logger.Logger
	bookmarks repos.BookmarkRepo
	resources repos.ResourceRepo
	quizzes   repos.QuizRepo
}

func NewBookmarkService(
	db *gorm.DB,
	baseLog *logger.Logger,
	bookmarkRepo repos.BookmarkRepo,
	resourceRepo repos.ResourceRepo,
	quizRepo repos.QuizRepo,
) BookmarkService {
	return &bookmarkService{
		db:        db,
		log:       baseLog.With("service", "BookmarkService"),
		bookmarks: bookmarkRepo,
		resources: resourceRepo,
		quizzes:   quizRepo,
	}
}

func (bs *bookmarkService) Create(dbc dbctx.Context, userID uuid.UUID, in BookmarkInput) (*types.Bookmark, error) {
	if in.ResourceID != nil && *in.ResourceID == uuid.Nil {
		in.ResourceID = nil
	}
	if in.QuizID != nil && *in.QuizID == uuid.Nil {
		in.QuizID = nil
	}
	if in.ResourceID == nil && in.QuizID == nil {
		return nil, apierr.BadRequest("bookmark_target_required", fmt.Errorf("resource or quiz is required"))
	}
	b := &types.Bookmark{UserID: userID, ResourceID: in.ResourceID, QuizID: in.QuizID}
	err := dbc.Transaction(bs.db, func(inner dbctx.Context) error {
		if in.ResourceID != nil {
			r, err := bs.resources.GetByID(inner, *in.ResourceID)
			if err != nil {
				return err
			}
			if r == nil {
				return apierr.BadRequest("resource_not_found", fmt.Errorf("resource %s does not exist", *in.ResourceID))
			}
			existing, err := bs.bookmarks.Find(inner, userID, in.ResourceID, nil)
			if err != nil {
				return err
			}
			if existing != nil {
				return apierr.Conflict("already_bookmarked", fmt.Errorf("resource already bookmarked"))
			}
		}
		if in.QuizID != nil {
			q, err := bs.quizzes.GetByID(inner, *in.QuizID)
			if err != nil {
				return err
			}
			if q == nil {
				return apierr.BadRequest("quiz_not_found", fmt.Errorf("quiz %s does not exist", *in.QuizID))
			}
			existing, err := bs.bookmarks.Find(inner, userID, nil, in.QuizID)
			if err != nil {
				return err
			}
			if existing != nil {
				return apierr.Conflict("already_bookmarked", fmt.Errorf("quiz already bookmarked"))
			}
		}
		_, err := bs.bookmarks.Create(inner, []*types.Bookmark{b})
		return err
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (bs *bookmarkService) List(dbc dbctx.Context, userID uuid.UUID) ([]*types.Bookmark, error) {
	return bs.bookmarks.ListByUser(dbc, userID)
}

func (bs *bookmarkService) Get(dbc dbctx.Context, userID, id uuid.UUID) (*types.Bookmark, error) {
	b, err := bs.bookmarks.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if b == nil || b.UserID != userID {
		return nil, apierr.NotFound("bookmark_not_found")
	}
	return b, nil
}

func (bs *bookmarkService) Delete(dbc dbctx.Context, userID, id uuid.UUID) error {
	return dbc.Transaction(bs.db, func(inner dbctx.Context) error {
		if _, err := bs.Get(inner, userID, id); err != nil {
			return err
		}
		return bs.bookmarks.Delete(inner, id)
	})
}
