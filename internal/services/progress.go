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

type ProgressService interface {
	List(dbc dbctx.Context, userID uuid.UUID) ([]*types.TopicProgress, error)
	Get(dbc dbctx.Context, userID, id uuid.UUID) (*types.TopicProgress, error)
	// MarkComplete creates or updates the caller's row for the topic. Repeated
	// calls leave a single completed row.
	MarkComplete(dbc dbctx.Context, userID uuid.UUID, topicID *uuid.UUID) (*types.TopicProgress, error)
	Delete(dbc dbctx.Context, userID, id uuid.UUID) error
}

type progressService struct {
	db       *gorm.DB
	log      *logger.Logger
	progress repos.TopicProgressRepo
	topics   repos.TopicRepo
}

func NewProgressService(db *gorm.DB, baseLog *logger.Logger, progressRepo repos.TopicProgressRepo, topicRepo repos.TopicRepo) ProgressService {
	return &progressService{
		db:       db,
		log:      baseLog.With("service", "ProgressService"),
		progress: progressRepo,
		topics:   topicRepo,
	}
}

func (ps *progressService) List(dbc dbctx.Context, userID uuid.UUID) ([]*types.TopicProgress, error) {
	return ps.progress.ListByUser(dbc, userID)
}

func (ps *progressService) Get(dbc dbctx.Context, userID, id uuid.UUID) (*types.TopicProgress, error) {
	p, err := ps.progress.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.UserID != userID {
		return nil, apierr.NotFound("progress_not_found")
	}
	return p, nil
}

func (ps *progressService) MarkComplete(dbc dbctx.Context, userID uuid.UUID, topicID *uuid.UUID) (*types.TopicProgress, error) {
	if topicID == nil || *topicID == uuid.Nil {
		return nil, apierr.BadRequest("topic_required", fmt.Errorf("topic required"))
	}
	var out *types.TopicProgress
	err := dbc.Transaction(ps.db, func(inner dbctx.Context) error {
		t, err := ps.topics.GetByID(inner, *topicID)
		if err != nil {
			return err
		}
		if t == nil {
			return apierr.NotFound("topic_not_found")
		}
		out, err = ps.progress.Upsert(inner, userID, t.ID, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (ps *progressService) Delete(dbc dbctx.Context, userID, id uuid.UUID) error {
	return dbc.Transaction(ps.db, func(inner dbctx.Context) error {
		if _, err := ps.Get(inner, userID, id); err != nil {
			return err
		}
		return ps.progress.Delete(inner, id)
	})
}
