package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/observability"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/services"
)

type Services struct {
	Auth  services.AuthService
	User  services.UserService
	Files services.FileService

	Taxonomy  services.TaxonomyService
	Resources services.ResourceService
	Quizzes   services.QuizService
	Homework  services.HomeworkService

	Bookmarks     services.BookmarkService
	Notifications services.NotificationService
	Progress      services.ProgressService

	Search    services.SearchService
	Dashboard services.DashboardService
	Generator services.GeneratorService
	Chat      services.ChatService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	extractor := services.NewPDFExtractor()
	files := services.NewFileService(log, clients.Bucket, cfg.MaxUploadBytes)
	dashboard := services.NewDashboardService(log, reposet.QuizAttempt, clients.Cache, cfg.DashboardCacheTTL, metrics)
	notifications := services.NewNotificationService(db, log, reposet.Notification, reposet.User)

	return Services{
		Auth: services.NewAuthService(
			db, log,
			reposet.User, reposet.UserToken,
			cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
		),
		User:  services.NewUserService(db, log, reposet.User),
		Files: files,

		Taxonomy: services.NewTaxonomyService(db, log, reposet.Subject, reposet.Topic, reposet.Chapter),
		Resources: services.NewResourceService(
			db, log,
			reposet.Resource, reposet.ResourceVersion,
			reposet.Subject, reposet.Topic, reposet.Chapter,
			files, extractor, metrics,
		),
		Quizzes: services.NewQuizService(
			db, log,
			reposet.Quiz, reposet.Question, reposet.QuizAttempt, reposet.User,
			reposet.Subject, reposet.Topic, reposet.Chapter,
			dashboard, metrics,
		),
		Homework: services.NewHomeworkService(db, log, reposet.Homework, reposet.Submission, files, notifications),

		Bookmarks:     services.NewBookmarkService(db, log, reposet.Bookmark, reposet.Resource, reposet.Quiz),
		Notifications: notifications,
		Progress:      services.NewProgressService(db, log, reposet.TopicProgress, reposet.Topic),

		Search:    services.NewSearchService(log, reposet.Resource, reposet.Quiz),
		Dashboard: dashboard,
		Generator: services.NewGeneratorService(log, files, extractor),
		Chat:      services.NewChatService(log, reposet.Resource),
	}
}
