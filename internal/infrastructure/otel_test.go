package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/krykon00/krk-budget-app/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestOTelInitialization(t *testing.T) {
	cfg := config.Default().Telemetry
	cfg.EnableTracing = true

	providers, err := InitializeOTel(cfg, testLogger())
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelDisabled(t *testing.T) {
	cfg := config.Default().Telemetry
	cfg.EnableMetrics = false
	cfg.EnableTracing = false

	providers, err := InitializeOTel(cfg, testLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.PrometheusHTTP)
	assert.NotNil(t, providers.Tracer, "falls back to the global tracer")
	assert.NotNil(t, providers.Meter, "falls back to the global meter")
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestTraceCorrelation(t *testing.T) {
	cfg := config.Default().Telemetry
	cfg.EnableTracing = true

	providers, err := InitializeOTel(cfg, testLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.Empty(t, TraceIDFromContext(context.Background()))

	ctx, span := providers.Tracer.Start(context.Background(), "build-view")
	defer span.End()

	assert.Len(t, TraceIDFromContext(ctx), 32)
	RecordError(ctx, errors.New("boom"))
}

func TestBusinessMetrics(t *testing.T) {
	metrics, err := CreateBusinessMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	require.NotNil(t, metrics)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		metrics.RecordViewBuild(ctx, "overview", time.Millisecond, nil)
		metrics.RecordViewBuild(ctx, "overview", time.Millisecond, errors.New("missing file"))
		metrics.RecordDatasetLoad(ctx, "districts", 42, nil)
		metrics.RecordDatasetLoad(ctx, "districts", 0, errors.New("bad sheet"))
	})

	var nilMetrics *BusinessMetrics
	assert.NotPanics(t, func() {
		nilMetrics.RecordViewBuild(ctx, "overview", time.Second, nil)
		nilMetrics.RecordDatasetLoad(ctx, "overview", 1, nil)
	})
}

func TestPrometheusEndpoint(t *testing.T) {
	providers, err := InitializeOTel(config.Default().Telemetry, testLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RecordViewBuild(context.Background(), "districts", 20*time.Millisecond, nil)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "view_builds_total")
	assert.Contains(t, body, "go_goroutines")
}
