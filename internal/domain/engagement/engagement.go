package engagement

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bookmark points at a resource or a quiz; at least one target is set.
type Bookmark struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_bookmark_user_resource,priority:1;uniqueIndex:idx_bookmark_user_quiz,priority:1" json:"user_id"`
	ResourceID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_bookmark_user_resource,priority:2" json:"resource_id"`
	QuizID     *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_bookmark_user_quiz,priority:2" json:"quiz_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Bookmark) TableName() string { return "bookmark" }

func (b *Bookmark) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type Notification struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title  string    `gorm:"not null;column:title" json:"title"`
	Body   string    `gorm:"column:body" json:"body"`
	IsRead bool      `gorm:"not null;default:false;column:is_read" json:"is_read"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Notification) TableName() string { return "notification" }

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// TopicProgress is unique per (user, topic) and written by upsert.
type TopicProgress struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_topic_progress_user_topic,priority:1" json:"user_id"`
	TopicID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_topic_progress_user_topic,priority:2" json:"topic_id"`
	IsCompleted bool      `gorm:"not null;default:false;column:is_completed" json:"is_completed"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (TopicProgress) TableName() string { return "topic_progress" }

func (p *TopicProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
