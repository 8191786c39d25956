package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOtelHeaders(t *testing.T) {
	got := parseOtelHeaders([]string{"api-key=abc", " x = y ", "broken", "=v", "k="})
	assert.Equal(t, map[string]string{"api-key": "abc", "x": "y"}, got)
	assert.Nil(t, parseOtelHeaders(nil))
}

func TestClampRatio(t *testing.T) {
	assert.Equal(t, 0.0, clampRatio(-2))
	assert.Equal(t, 1.0, clampRatio(3))
	assert.Equal(t, 0.25, clampRatio(0.25))
}

func TestOtelConfigFromEnv(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER", "STDOUT")
	t.Setenv("OTEL_SAMPLER_RATIO", "7")
	cfg := OtelConfigFromEnv("svc", "test", "v1")
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "stdout", cfg.Exporter)
	assert.Equal(t, 1.0, cfg.SampleRatio)
	assert.Equal(t, "svc", cfg.ServiceName)
}

func TestStartSpanWithoutProvider(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test.op")
	defer span.End()
	assert.NotNil(t, ctx)
}
