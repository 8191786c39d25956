package observability

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/platform/envutil"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

const namespace = "learnhub"

type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	quizGrades      *prometheus.CounterVec
	gradeScore      prometheus.Histogram
	extractions     *prometheus.CounterVec
	versionUploads  prometheus.Counter
	cacheLookups    *prometheus.CounterVec
	dbConnPoolStats *prometheus.GaugeVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

func Current() *Metrics {
	return instance
}

// Init builds the process-wide metrics when METRICS_ENABLED is set. Returns nil otherwise.
func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("prometheus metrics initialized")
		}
	})
	return instance
}

// NewMetrics registers a fresh metric set on its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API request latency in seconds by method/route/status.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "inflight_requests",
			Help:      "In-flight API requests.",
		}),
		quizGrades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quiz",
			Name:      "grades_total",
			Help:      "Quiz grading calls by outcome.",
		}, []string{"outcome"}),
		gradeScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "quiz",
			Name:      "attempt_score",
			Help:      "Distribution of attempt scores.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resource",
			Name:      "extractions_total",
			Help:      "Text extraction runs by outcome.",
		}, []string{"outcome"}),
		versionUploads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resource",
			Name:      "version_uploads_total",
			Help:      "Resource versions stored.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by cache name and result.",
		}, []string{"cache", "result"}),
		dbConnPoolStats: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "connection_pool",
			Help:      "Database connection pool statistics.",
		}, []string{"stat"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.quizGrades, m.gradeScore,
		m.extractions, m.versionUploads,
		m.cacheLookups, m.dbConnPoolStats,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) ObserveGrade(outcome string, score float64) {
	if m == nil {
		return
	}
	m.quizGrades.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		m.gradeScore.Observe(score)
	}
}

func (m *Metrics) ObserveExtraction(outcome string) {
	if m == nil {
		return
	}
	m.extractions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncVersionUploads() {
	if m == nil {
		return
	}
	m.versionUploads.Inc()
}

func (m *Metrics) ObserveCache(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(cache, result).Inc()
}

func (m *Metrics) RecordDBPoolStats(open, inUse, idle int, waitCount int64, waitDuration time.Duration) {
	if m == nil {
		return
	}
	m.dbConnPoolStats.WithLabelValues("open").Set(float64(open))
	m.dbConnPoolStats.WithLabelValues("in_use").Set(float64(inUse))
	m.dbConnPoolStats.WithLabelValues("idle").Set(float64(idle))
	m.dbConnPoolStats.WithLabelValues("wait_count").Set(float64(waitCount))
	m.dbConnPoolStats.WithLabelValues("wait_duration_ms").Set(float64(waitDuration.Milliseconds()))
}

// StartDBPoolCollector samples sql.DB stats until ctx is done.
func (m *Metrics) StartDBPoolCollector(ctx context.Context, db *gorm.DB, log *logger.Logger) {
	if m == nil || db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		if log != nil {
			log.Warn("db pool metrics disabled", "error", err)
		}
		return
	}
	interval := envutil.Seconds("METRICS_SCRAPE_INTERVAL_SECONDS", 10*time.Second)
	if interval <= 0 {
		interval = 10 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			st := sqlDB.Stats()
			m.RecordDBPoolStats(st.OpenConnections, st.InUse, st.Idle, st.WaitCount, st.WaitDuration)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
