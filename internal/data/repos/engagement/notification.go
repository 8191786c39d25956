package engagement

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type NotificationRepo interface {
	Create(dbc dbctx.Context, notifications []*types.Notification) ([]*types.Notification, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Notification, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, unreadOnly bool) ([]*types.Notification, error)
	MarkRead(dbc dbctx.Context, id uuid.UUID) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	repoLog := baseLog.With("repo", "NotificationRepo")
	return &notificationRepo{db: db, log: repoLog}
}

func (r *notificationRepo) Create(dbc dbctx.Context, notifications []*types.Notification) ([]*types.Notification, error) {
	if len(notifications) == 0 {
		return []*types.Notification{}, nil
	}
	if err := dbc.DB(r.db).Create(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Notification, error) {
	var n types.Notification
	err := dbc.DB(r.db).Where("id = ?", id).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, unreadOnly bool) ([]*types.Notification, error) {
	q := dbc.DB(r.db).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var out []*types.Notification
	if err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *notificationRepo) MarkRead(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(r.db).
		Model(&types.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *notificationRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(r.db).Where("id = ?", id).Delete(&types.Notification{}).Error
}
