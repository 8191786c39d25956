package observability

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/learnhub-backend/internal/platform/envutil"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

const tracerName = "github.com/yungbote/learnhub-backend"

type OtelConfig struct {
	Enabled     bool
	ServiceName string
	Environment string
	Version     string

	// Exporter is "otlp" or "stdout". An empty endpoint forces stdout.
	Exporter    string
	Endpoint    string
	Headers     map[string]string
	Insecure    bool
	SampleRatio float64
}

// OtelConfigFromEnv reads the OTEL_* keys on top of the service identity.
func OtelConfigFromEnv(serviceName, environment, version string) OtelConfig {
	return OtelConfig{
		Enabled:     envutil.Bool("OTEL_ENABLED", false),
		ServiceName: serviceName,
		Environment: environment,
		Version:     version,
		Exporter:    strings.ToLower(envutil.String("OTEL_EXPORTER", "otlp")),
		Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		Headers:     parseOtelHeaders(envutil.List("OTEL_EXPORTER_OTLP_HEADERS", nil)),
		Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
		SampleRatio: clampRatio(envutil.Float("OTEL_SAMPLER_RATIO", 0.1)),
	}
}

var (
	otelOnce     sync.Once
	otelShutdown func(context.Context) error
)

// InitOTel installs the global tracer provider once. The returned shutdown
// flushes pending spans and is nil when tracing is disabled.
func InitOTel(ctx context.Context, log *logger.Logger, cfg OtelConfig) func(context.Context) error {
	otelOnce.Do(func() {
		if !cfg.Enabled {
			return
		}
		name := strings.TrimSpace(cfg.ServiceName)
		if name == "" {
			name = "learnhub-backend"
		}
		res, err := resource.New(ctx, resource.WithAttributes(
			semconv.ServiceNameKey.String(name),
			semconv.ServiceVersionKey.String(strings.TrimSpace(cfg.Version)),
			attribute.String("deployment.environment", strings.TrimSpace(cfg.Environment)),
		))
		if err != nil {
			log.Warn("otel resource init failed (continuing)", "error", err)
		}

		opts := []sdktrace.TracerProviderOption{
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
			sdktrace.WithResource(res),
		}
		exporter, err := newSpanExporter(ctx, cfg)
		if err != nil {
			log.Warn("otel exporter init failed; spans will not be exported", "exporter", cfg.Exporter, "error", err)
		} else {
			opts = append(opts, sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)))
		}

		tp := sdktrace.NewTracerProvider(opts...)
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
		otelShutdown = tp.Shutdown
		log.Info("otel tracing initialized", "service", name, "exporter", cfg.Exporter, "endpoint", cfg.Endpoint)
	})
	return otelShutdown
}

func newSpanExporter(ctx context.Context, cfg OtelConfig) (sdktrace.SpanExporter, error) {
	if cfg.Exporter == "stdout" || cfg.Endpoint == "" {
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
	}
	return otlptracehttp.New(ctx, opts...)
}

// StartSpan opens a span on the global provider. It is a no-op span until
// InitOTel runs.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// parseOtelHeaders turns "k=v" pairs into a header map, skipping malformed entries.
func parseOtelHeaders(parts []string) map[string]string {
	headers := map[string]string{}
	for _, part := range parts {
		k, v, ok := strings.Cut(part, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			continue
		}
		headers[k] = v
	}
	if len(headers) == 0 {
		return nil
	}
	return headers
}

func clampRatio(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
