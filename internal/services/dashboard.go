package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	rediscache "github.com/yungbote/learnhub-backend/internal/clients/redis"
	"github.com/yungbote/learnhub-backend/internal/data/repos"
	"github.com/yungbote/learnhub-backend/internal/observability"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type Dashboard struct {
	AvgScore    float64              `json:"avg_score"`
	Subjects    []repos.SubjectScore `json:"subjects"`
	NumAttempts int64                `json:"num_attempts"`
}

type DashboardService interface {
	Get(dbc dbctx.Context, userID uuid.UUID) (*Dashboard, error)
	Invalidate(ctx context.Context, userID uuid.UUID)
}

type dashboardService struct {
	log      *logger.Logger
	attempts repos.QuizAttemptRepo
	cache    rediscache.Cache
	ttl      time.Duration
	metrics  *observability.Metrics
}

// NewDashboardService caches summaries for ttl. A nil cache or a zero ttl disables caching.
func NewDashboardService(
	baseLog *logger.Logger,
	attemptRepo repos.QuizAttemptRepo,
	cache rediscache.Cache,
	ttl time.Duration,
	metrics *observability.Metrics,
) DashboardService {
	return &dashboardService{
		log:      baseLog.With("service", "DashboardService"),
		attempts: attemptRepo,
		cache:    cache,
		ttl:      ttl,
		metrics:  metrics,
	}
}

func dashboardKey(userID uuid.UUID) string {
	return "dashboard:" + userID.String()
}

func (ds *dashboardService) cacheEnabled() bool {
	return ds.cache != nil && ds.ttl > 0
}

func (ds *dashboardService) Get(dbc dbctx.Context, userID uuid.UUID) (*Dashboard, error) {
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized("not_authenticated")
	}
	if ds.cacheEnabled() {
		var cached Dashboard
		err := ds.cache.GetJSON(dbc.Ctx, dashboardKey(userID), &cached)
		switch {
		case err == nil:
			ds.metrics.ObserveCache("dashboard", true)
			return &cached, nil
		case errors.Is(err, rediscache.ErrCacheMiss):
			ds.metrics.ObserveCache("dashboard", false)
		default:
			ds.log.Warn("Dashboard cache read failed", "user_id", userID, "error", err)
		}
	}

	sum, err := ds.attempts.SummarizeScores(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("summarize scores: %w", err)
	}
	out := &Dashboard{
		AvgScore:    sum.AvgScore,
		Subjects:    sum.Subjects,
		NumAttempts: sum.NumAttempts,
	}
	if out.Subjects == nil {
		out.Subjects = []repos.SubjectScore{}
	}
	if ds.cacheEnabled() {
		if err := ds.cache.SetJSON(dbc.Ctx, dashboardKey(userID), out, ds.ttl); err != nil {
			ds.log.Warn("Dashboard cache write failed", "user_id", userID, "error", err)
		}
	}
	return out, nil
}

func (ds *dashboardService) Invalidate(ctx context.Context, userID uuid.UUID) {
	if ds.cache == nil {
		return
	}
	if err := ds.cache.Delete(ctx, dashboardKey(userID)); err != nil {
		ds.log.Warn("Dashboard cache invalidation failed", "user_id", userID, "error", err)
	}
}
