package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type NotificationInput struct {
	// UserID is the recipient; it defaults to the caller.
	UserID *uuid.UUID `json:"user"`
	Title  string     `json:"title" validate:"required,max=255"`
	Body   string     `json:"body"`
}

type NotificationService interface {
	Create(dbc dbctx.Context, actorID uuid.UUID, in NotificationInput) (*types.Notification, error)
	List(dbc dbctx.Context, userID uuid.UUID, unreadOnly bool) ([]*types.Notification, error)
	Get(dbc dbctx.Context, userID, id uuid.UUID) (*types.Notification, error)
	MarkRead(dbc dbctx.Context, userID, id uuid.UUID) error
	Delete(dbc dbctx.Context, userID, id uuid.UUID) error
}

type notificationService struct {
	db            *gorm.DB
	log           *logger.Logger
	notifications repos.NotificationRepo
	users         repos.UserRepo
}

func NewNotificationService(db *gorm.DB, baseLog *logger.Logger, notificationRepo repos.NotificationRepo, userRepo repos.UserRepo) NotificationService {
	return &notificationService{
		db:            db,
		log:           baseLog.With("service", "NotificationService"),
		notifications: notificationRepo,
		users:         userRepo,
	}
}

func (ns *notificationService) Create(dbc dbctx.Context, actorID uuid.UUID, in NotificationInput) (*types.Notification, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)
	if err := validateInput("invalid_notification", in); err != nil {
		return nil, err
	}
	target := actorID
	if in.UserID != nil && *in.UserID != uuid.Nil {
		target = *in.UserID
	}
	if target != actorID {
		u, err := ns.users.GetByID(dbc, target)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, apierr.BadRequest("user_not_found", fmt.Errorf("user %s does not exist", target))
		}
	}
	n := &types.Notification{UserID: target, Title: in.Title, Body: in.Body}
	if _, err := ns.notifications.Create(dbc, []*types.Notification{n}); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

func (ns *notificationService) List(dbc dbctx.Context, userID uuid.UUID, unreadOnly bool) ([]*types.Notification, error) {
	return ns.notifications.ListByUser(dbc, userID, unreadOnly)
}

// Get treats other users' notifications as missing.
func (ns *notificationService) Get(dbc dbctx.Context, userID, id uuid.UUID) (*types.Notification, error) {
	n, err := ns.notifications.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if n == nil || n.UserID != userID {
		return nil, apierr.NotFound("notification_not_found")
	}
	return n, nil
}

func (ns *notificationService) MarkRead(dbc dbctx.Context, userID, id uuid.UUID) error {
	return dbc.Transaction(ns.db, func(inner dbctx.Context) error {
		if _, err := ns.Get(inner, userID, id); err != nil {
			return err
		}
		return ns.notifications.MarkRead(inner, id)
	})
}

func (ns *notificationService) Delete(dbc dbctx.Context, userID, id uuid.UUID) error {
	return dbc.Transaction(ns.db, func(inner dbctx.Context) error {
		if _, err := ns.Get(inner, userID, id); err != nil {
			return err
		}
		return ns.notifications.Delete(inner, id)
	})
}
