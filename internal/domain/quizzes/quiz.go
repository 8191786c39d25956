package quizzes

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	QuestionTypeMCQ   = "mcq"
	QuestionTypeTF    = "tf"
	QuestionTypeShort = "short"
)

func ValidQuestionType(t string) bool {
	switch t {
	case QuestionTypeMCQ, QuestionTypeTF, QuestionTypeShort:
		return true
	}
	return false
}

// RequiresCorrectChoice reports whether grading a question depends on a flagged choice.
func RequiresCorrectChoice(t string) bool {
	return t == QuestionTypeMCQ || t == QuestionTypeTF
}

type Quiz struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreatorID uuid.UUID  `gorm:"type:uuid;not null;index" json:"creator_id"`
	SubjectID *uuid.UUID `gorm:"type:uuid;index" json:"subject_id"`
	TopicID   *uuid.UUID `gorm:"type:uuid;index" json:"topic_id"`
	ChapterID *uuid.UUID `gorm:"type:uuid;index" json:"chapter_id"`

	Title            string `gorm:"not null;column:title" json:"title"`
	IsTimed          bool   `gorm:"not null;default:false;column:is_timed" json:"is_timed"`
	TimeLimitSeconds int    `gorm:"not null;default:0;column:time_limit_seconds" json:"time_limit_seconds"`
	RandomizeOrder   bool   `gorm:"not null;default:false;column:randomize_order" json:"randomize_order"`

	Questions []Question `gorm:"foreignKey:QuizID;references:ID" json:"questions"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Quiz) TableName() string { return "quiz" }

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type Question struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID       uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Position     int       `gorm:"not null;default:0;column:position" json:"position"`
	Text         string    `gorm:"not null;column:text" json:"text"`
	QuestionType string    `gorm:"not null;column:question_type" json:"question_type"`
	Difficulty   string    `gorm:"not null;default:'medium';column:difficulty" json:"difficulty"`
	Explanation  string    `gorm:"column:explanation" json:"explanation"`

	Choices []Choice `gorm:"foreignKey:QuestionID;references:ID" json:"choices"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Question) TableName() string { return "question" }

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	if q.Difficulty == "" {
		q.Difficulty = "medium"
	}
	return nil
}

// Choice never serializes IsCorrect; answers are only revealed through grading.
type Choice struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Position   int       `gorm:"not null;default:0;column:position" json:"position"`
	Text       string    `gorm:"not null;column:text" json:"text"`
	IsCorrect  bool      `gorm:"not null;default:false;column:is_correct" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Choice) TableName() string { return "choice" }

func (c *Choice) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
