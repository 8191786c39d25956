package app

import (
	"github.com/yungbote/learnhub-backend/internal/http"
	httpH "github.com/yungbote/learnhub-backend/internal/http/handlers"
	"github.com/yungbote/learnhub-backend/internal/observability"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	Taxonomy   *httpH.TaxonomyHandler
	Resource   *httpH.ResourceHandler
	Quiz       *httpH.QuizHandler
	Coursework *httpH.CourseworkHandler
	Engagement *httpH.EngagementHandler
	Discovery  *httpH.DiscoveryHandler
	AI         *httpH.AIHandler
}

func wireHandlers(log *logger.Logger, services Services, clients Clients, db httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(db),
		Auth:       httpH.NewAuthHandler(services.Auth, services.User),
		Taxonomy:   httpH.NewTaxonomyHandler(services.Taxonomy),
		Resource:   httpH.NewResourceHandler(services.Resources, clients.Bucket),
		Quiz:       httpH.NewQuizHandler(services.Quizzes),
		Coursework: httpH.NewCourseworkHandler(services.Homework, clients.Bucket),
		Engagement: httpH.NewEngagementHandler(services.Bookmarks, services.Notifications, services.Progress),
		Discovery:  httpH.NewDiscoveryHandler(services.Search, services.Dashboard),
		AI:         httpH.NewAIHandler(services.Generator, services.Chat),
	}
}

func routerConfig(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) http.RouterConfig {
	return http.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    cfg.OtelServiceName,
		CORSOrigins:    cfg.CORSAllowOrigins,
		RequestTimeout: cfg.RequestTimeout,

		AuthMiddleware: middleware.Auth,

		HealthHandler:     handlers.Health,
		AuthHandler:       handlers.Auth,
		TaxonomyHandler:   handlers.Taxonomy,
		ResourceHandler:   handlers.Resource,
		QuizHandler:       handlers.Quiz,
		CourseworkHandler: handlers.Coursework,
		EngagementHandler: handlers.Engagement,
		DiscoveryHandler:  handlers.Discovery,
		AIHandler:         handlers.AI,
	}
}
