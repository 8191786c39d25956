package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type Repos struct {
	User      repos.UserRepo
	UserToken repos.UserTokenRepo

	Subject repos.SubjectRepo
	Topic   repos.TopicRepo
	Chapter repos.ChapterRepo

	Resource        repos.ResourceRepo
	ResourceVersion repos.ResourceVersionRepo

	Quiz        repos.QuizRepo
	Question    repos.QuestionRepo
	QuizAttempt repos.QuizAttemptRepo

	Homework   repos.HomeworkRepo
	Submission repos.SubmissionRepo

	Bookmark      repos.BookmarkRepo
	Notification  repos.NotificationRepo
	TopicProgress repos.TopicProgressRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(db, log),
		UserToken: repos.NewUserTokenRepo(db, log),

		Subject: repos.NewSubjectRepo(db, log),
		Topic:   repos.NewTopicRepo(db, log),
		Chapter: repos.NewChapterRepo(db, log),

		Resource:        repos.NewResourceRepo(db, log),
		ResourceVersion: repos.NewResourceVersionRepo(db, log),

		Quiz:        repos.NewQuizRepo(db, log),
		Question:    repos.NewQuestionRepo(db, log),
		QuizAttempt: repos.NewQuizAttemptRepo(db, log),

		Homework:   repos.NewHomeworkRepo(db, log),
		Submission: repos.NewSubmissionRepo(db, log),

		Bookmark:      repos.NewBookmarkRepo(db, log),
		Notification:  repos.NewNotificationRepo(db, log),
		TopicProgress: repos.NewTopicProgressRepo(db, log),
	}
}
