package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/learnhub-backend/internal/observability"
)

func TestMetricsSkipsProbesAndBucketsUnmatched(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.NewMetrics()
	r := gin.New()
	r.Use(Metrics(m))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/healthcheck", ok)
	r.GET("/api/subjects/", ok)

	for _, path := range []string{"/healthcheck", "/api/subjects/", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `route="/api/subjects/"`)
	assert.Contains(t, body, `route="unmatched",status="404"`)
	assert.NotContains(t, body, `route="/healthcheck"`)
}
