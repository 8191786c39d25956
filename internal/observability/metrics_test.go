package observability

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ApiInflightInc()
	m.ObserveAPI("GET", "/api/subjects", "200", time.Millisecond)
	m.ObserveGrade("ok", 50)
	m.ObserveCache("dashboard", true)
	assert.Nil(t, m.Registry())
}

func TestHandlerExposesRecordedSeries(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("GET", "/api/subjects", "200", 20*time.Millisecond)
	m.ObserveGrade("ok", 50)
	m.ObserveExtraction("failed")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `learnhub_api_requests_total{method="GET",route="/api/subjects",status="200"} 1`))
	assert.True(t, strings.Contains(body, `learnhub_quiz_grades_total{outcome="ok"} 1`))
	assert.True(t, strings.Contains(body, `learnhub_resource_extractions_total{outcome="failed"} 1`))
}
