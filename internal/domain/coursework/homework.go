package coursework

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Homework struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TeacherID   uuid.UUID `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	DueDate     time.Time `gorm:"not null;column:due_date" json:"due_date"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Homework) TableName() string { return "homework" }

func (h *Homework) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

type HomeworkSubmission struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HomeworkID   uuid.UUID `gorm:"type:uuid;not null;index" json:"homework_id"`
	Homework     *Homework `gorm:"foreignKey:HomeworkID;references:ID" json:"-"`
	StudentID    uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	TextResponse string    `gorm:"column:text_response" json:"text_response"`
	StorageKey   string    `gorm:"column:storage_key" json:"-"`
	FileURL      string    `gorm:"column:file_url" json:"file"`
	Grade        *float64  `gorm:"column:grade" json:"grade"`
	Feedback     string    `gorm:"column:feedback" json:"feedback"`

	CreatedAt time.Time `gorm:"not null;index" json:"submitted_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (HomeworkSubmission) TableName() string { return "homework_submission" }

func (s *HomeworkSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
