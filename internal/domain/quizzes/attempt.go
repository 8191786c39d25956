package quizzes

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuizAttempt is one scored pass at a quiz. Score is written once, at grading time.
type QuizAttempt struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID           uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Quiz             *Quiz     `gorm:"foreignKey:QuizID;references:ID" json:"-"`
	StudentID        uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	Score            float64   `gorm:"not null;default:0;column:score" json:"score"`
	TimeTakenSeconds int       `gorm:"not null;default:0;column:time_taken_seconds" json:"time_taken_seconds"`

	Answers []AttemptAnswer `gorm:"foreignKey:AttemptID;references:ID" json:"answers"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (QuizAttempt) TableName() string { return "quiz_attempt" }

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type AttemptAnswer struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AttemptID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"attempt_id"`
	QuestionID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"question_id"`
	SelectedChoiceID *uuid.UUID `gorm:"type:uuid;index" json:"selected_choice_id"`
	TextAnswer       string     `gorm:"column:text_answer" json:"text_answer"`
	IsCorrect        bool       `gorm:"not null;default:false;column:is_correct" json:"is_correct"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (AttemptAnswer) TableName() string { return "attempt_answer" }

func (a *AttemptAnswer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
