package domain

import (
	"github.com/yungbote/learnhub-backend/internal/domain/auth"
	"github.com/yungbote/learnhub-backend/internal/domain/coursework"
	"github.com/yungbote/learnhub-backend/internal/domain/engagement"
	"github.com/yungbote/learnhub-backend/internal/domain/quizzes"
	"github.com/yungbote/learnhub-backend/internal/domain/resources"
	"github.com/yungbote/learnhub-backend/internal/domain/taxonomy"
	"github.com/yungbote/learnhub-backend/internal/domain/user"
)

const (
	DifficultyEasy   = resources.DifficultyEasy
	DifficultyMedium = resources.DifficultyMedium
	DifficultyHard   = resources.DifficultyHard

	QuestionTypeMCQ   = quizzes.QuestionTypeMCQ
	QuestionTypeTF    = quizzes.QuestionTypeTF
	QuestionTypeShort = quizzes.QuestionTypeShort
)

type (
	User      = user.User
	UserToken = auth.UserToken

	Subject = taxonomy.Subject
	Topic   = taxonomy.Topic
	Chapter = taxonomy.Chapter

	Resource        = resources.Resource
	ResourceVersion = resources.ResourceVersion

	Quiz          = quizzes.Quiz
	Question      = quizzes.Question
	Choice        = quizzes.Choice
	QuizAttempt   = quizzes.QuizAttempt
	AttemptAnswer = quizzes.AttemptAnswer

	Homework           = coursework.Homework
	HomeworkSubmission = coursework.HomeworkSubmission

	Bookmark      = engagement.Bookmark
	Notification  = engagement.Notification
	TopicProgress = engagement.TopicProgress
)

var (
	ValidDifficulty       = resources.ValidDifficulty
	ValidQuestionType     = quizzes.ValidQuestionType
	RequiresCorrectChoice = quizzes.RequiresCorrectChoice
)

// AllModels lists every persisted model in migration order.
func AllModels() []any {
	return []any{
		&User{},
		&UserToken{},
		&Subject{},
		&Topic{},
		&Chapter{},
		&Resource{},
		&ResourceVersion{},
		&Quiz{},
		&Question{},
		&Choice{},
		&QuizAttempt{},
		&AttemptAnswer{},
		&Homework{},
		&HomeworkSubmission{},
		&Bookmark{},
		&Notification{},
		&TopicProgress{},
	}
}
