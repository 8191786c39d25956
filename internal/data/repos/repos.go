package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos/auth"
	"github.com/yungbote/learnhub-backend/internal/data/repos/coursework"
	"github.com/yungbote/learnhub-backend/internal/data/repos/engagement"
	"github.com/yungbote/learnhub-backend/internal/data/repos/quizzes"
	"github.com/yungbote/learnhub-backend/internal/data/repos/resources"
	"github.com/yungbote/learnhub-backend/internal/data/repos/taxonomy"
	"github.com/yungbote/learnhub-backend/internal/data/repos/user"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

type SubjectRepo = taxonomy.SubjectRepo
type TopicRepo = taxonomy.TopicRepo
type ChapterRepo = taxonomy.ChapterRepo

type ResourceRepo = resources.ResourceRepo
type ResourceVersionRepo = resources.ResourceVersionRepo
type ResourceFilter = resources.ResourceFilter

type QuizRepo = quizzes.QuizRepo
type QuestionRepo = quizzes.QuestionRepo
type QuizAttemptRepo = quizzes.QuizAttemptRepo
type QuizFilter = quizzes.QuizFilter
type ScoreSummary = quizzes.ScoreSummary
type SubjectScore = quizzes.SubjectScore

type HomeworkRepo = coursework.HomeworkRepo
type SubmissionRepo = coursework.SubmissionRepo
type SubmissionFilter = coursework.SubmissionFilter

type BookmarkRepo = engagement.BookmarkRepo
type NotificationRepo = engagement.NotificationRepo
type TopicProgressRepo = engagement.TopicProgressRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	return taxonomy.NewSubjectRepo(db, baseLog)
}
func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	return taxonomy.NewTopicRepo(db, baseLog)
}
func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
	return taxonomy.NewChapterRepo(db, baseLog)
}

func NewResourceRepo(db *gorm.DB, baseLog *logger.Logger) ResourceRepo {
	return resources.NewResourceRepo(db, baseLog)
}
func NewResourceVersionRepo(db *gorm.DB, baseLog *logger.Logger) ResourceVersionRepo {
	return resources.NewResourceVersionRepo(db, baseLog)
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return quizzes.NewQuizRepo(db, baseLog)
}
func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return quizzes.NewQuestionRepo(db, baseLog)
}
func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	return quizzes.NewQuizAttemptRepo(db, baseLog)
}

func NewHomeworkRepo(db *gorm.DB, baseLog *logger.Logger) HomeworkRepo {
	return coursework.NewHomeworkRepo(db, baseLog)
}
func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
	return coursework.NewSubmissionRepo(db, baseLog)
}

func NewBookmarkRepo(db *gorm.DB, baseLog *logger.Logger) BookmarkRepo {
	return engagement.NewBookmarkRepo(db, baseLog)
}
func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return engagement.NewNotificationRepo(db, baseLog)
}
func NewTopicProgressRepo(db *gorm.DB, baseLog *logger.Logger) TopicProgressRepo {
	return engagement.NewTopicProgressRepo(db, baseLog)
}
