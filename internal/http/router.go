package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/learnhub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/learnhub-backend/internal/http/middleware"
	"github.com/yungbote/learnhub-backend/internal/observability"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	CORSOrigins    []string
	RequestTimeout time.Duration

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler     *httpH.HealthHandler
	AuthHandler       *httpH.AuthHandler
	TaxonomyHandler   *httpH.TaxonomyHandler
	ResourceHandler   *httpH.ResourceHandler
	QuizHandler       *httpH.QuizHandler
	CourseworkHandler *httpH.CourseworkHandler
	EngagementHandler *httpH.EngagementHandler
	DiscoveryHandler  *httpH.DiscoveryHandler
	AIHandler         *httpH.AIHandler
}

// NewRouter mounts every route under /api. Read-only catalogue routes take an
// optional token; everything else requires one.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachRequestContext(cfg.RequestTimeout))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")

	public := api.Group("/")
	protected := api.Group("/")
	if cfg.AuthMiddleware != nil {
		public.Use(cfg.AuthMiddleware.OptionalAuth())
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Auth
	if h := cfg.AuthHandler; h != nil {
		api.POST("/auth/register/", h.Register)
		api.POST("/auth/token/", h.Token)
		api.POST("/auth/refresh/", h.Refresh)
		protected.POST("/auth/logout/", h.Logout)
		protected.GET("/auth/me/", h.Me)
		protected.PATCH("/auth/me/", h.UpdateMe)
	}

	// Taxonomy
	if h := cfg.TaxonomyHandler; h != nil {
		public.GET("/subjects/", h.ListSubjects)
		public.GET("/subjects/:id/", h.GetSubject)
		protected.POST("/subjects/", h.CreateSubject)
		protected.PUT("/subjects/:id/", h.UpdateSubject)
		protected.PATCH("/subjects/:id/", h.UpdateSubject)
		protected.DELETE("/subjects/:id/", h.DeleteSubject)

		public.GET("/topics/", h.ListTopics)
		public.GET("/topics/:id/", h.GetTopic)
		protected.POST("/topics/", h.CreateTopic)
		protected.PUT("/topics/:id/", h.UpdateTopic)
		protected.PATCH("/topics/:id/", h.UpdateTopic)
		protected.DELETE("/topics/:id/", h.DeleteTopic)

		public.GET("/chapters/", h.ListChapters)
		public.GET("/chapters/:id/", h.GetChapter)
		protected.POST("/chapters/", h.CreateChapter)
		protected.PUT("/chapters/:id/", h.UpdateChapter)
		protected.PATCH("/chapters/:id/", h.UpdateChapter)
		protected.DELETE("/chapters/:id/", h.DeleteChapter)
	}

	// Resources
	if h := cfg.ResourceHandler; h != nil {
		public.GET("/resources/", h.List)
		public.GET("/resources/:id/", h.Get)
		protected.POST("/resources/", h.Create)
		protected.PUT("/resources/:id/", h.Update)
		protected.PATCH("/resources/:id/", h.Update)
		protected.DELETE("/resources/:id/", h.Delete)
		protected.POST("/resources/:id/upload_version/", h.UploadVersion)

		public.GET("/resource-versions/", h.ListVersions)
		public.GET("/resource-versions/:id/", h.GetVersion)
		protected.POST("/resource-versions/:id/reextract/", h.ReextractVersion)
	}

	// Quizzes
	if h := cfg.QuizHandler; h != nil {
		public.GET("/quizzes/", h.List)
		public.GET("/quizzes/:id/", h.Get)
		public.GET("/quizzes/:id/take/", h.Take)
		protected.POST("/quizzes/", h.Create)
		protected.PUT("/quizzes/:id/", h.Update)
		protected.PATCH("/quizzes/:id/", h.Update)
		protected.DELETE("/quizzes/:id/", h.Delete)
		protected.POST("/quizzes/:id/grade/", h.Grade)

		public.GET("/questions/", h.ListQuestions)
		public.GET("/questions/:id/", h.GetQuestion)
		protected.POST("/questions/", h.CreateQuestion)
		protected.PUT("/questions/:id/", h.UpdateQuestion)
		protected.PATCH("/questions/:id/", h.UpdateQuestion)
		protected.DELETE("/questions/:id/", h.DeleteQuestion)

		protected.GET("/attempts/", h.ListAttempts)
		protected.GET("/attempts/:id/", h.GetAttempt)
		protected.DELETE("/attempts/:id/", h.DeleteAttempt)
	}

	// Homework
	if h := cfg.CourseworkHandler; h != nil {
		public.GET("/homeworks/", h.ListHomework)
		public.GET("/homeworks/:id/", h.GetHomework)
		protected.POST("/homeworks/", h.CreateHomework)
		protected.PUT("/homeworks/:id/", h.UpdateHomework)
		protected.PATCH("/homeworks/:id/", h.UpdateHomework)
		protected.DELETE("/homeworks/:id/", h.DeleteHomework)

		protected.GET("/submissions/", h.ListSubmissions)
		protected.GET("/submissions/:id/", h.GetSubmission)
		protected.POST("/submissions/", h.CreateSubmission)
		protected.PATCH("/submissions/:id/grade/", h.GradeSubmission)
		protected.DELETE("/submissions/:id/", h.DeleteSubmission)
	}

	// Bookmarks, notifications, progress
	if h := cfg.EngagementHandler; h != nil {
		protected.GET("/bookmarks/", h.ListBookmarks)
		protected.GET("/bookmarks/:id/", h.GetBookmark)
		protected.POST("/bookmarks/", h.CreateBookmark)
		protected.DELETE("/bookmarks/:id/", h.DeleteBookmark)

		protected.GET("/notifications/", h.ListNotifications)
		protected.GET("/notifications/:id/", h.GetNotification)
		protected.POST("/notifications/", h.CreateNotification)
		protected.POST("/notifications/:id/mark_read/", h.MarkNotificationRead)
		protected.DELETE("/notifications/:id/", h.DeleteNotification)

		protected.GET("/progress/", h.ListProgress)
		protected.GET("/progress/:id/", h.GetProgress)
		protected.POST("/progress/mark_complete/", h.MarkTopicComplete)
		protected.DELETE("/progress/:id/", h.DeleteProgress)
	}

	// Search & dashboard
	if h := cfg.DiscoveryHandler; h != nil {
		public.GET("/search/", h.Search)
		protected.GET("/dashboard/", h.Dashboard)
	}

	// AI
	if h := cfg.AIHandler; h != nil {
		protected.POST("/ai/generate-questions/", h.GenerateQuestions)
		public.POST("/ai/chat/", h.Chat)
	}

	return r
}
