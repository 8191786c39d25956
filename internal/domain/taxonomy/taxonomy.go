package taxonomy

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Subject struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"uniqueIndex;not null;column:name" json:"name"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Subject) TableName() string { return "subject" }

func (s *Subject) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Topic names are unique within a subject.
type Topic struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SubjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_topic_subject_name,priority:1" json:"subject_id"`
	Subject   *Subject  `gorm:"foreignKey:SubjectID;references:ID" json:"subject,omitempty"`
	Name      string    `gorm:"not null;column:name;uniqueIndex:idx_topic_subject_name,priority:2" json:"name"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Topic) TableName() string { return "topic" }

func (t *Topic) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Chapter titles are unique within a topic.
type Chapter struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TopicID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chapter_topic_title,priority:1" json:"topic_id"`
	Topic   *Topic    `gorm:"foreignKey:TopicID;references:ID" json:"topic,omitempty"`
	Title   string    `gorm:"not null;column:title;uniqueIndex:idx_chapter_topic_title,priority:2" json:"title"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Chapter) TableName() string { return "chapter" }

func (c *Chapter) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
