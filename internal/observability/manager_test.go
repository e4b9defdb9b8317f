package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/Huulamnguyen/biztime/internal/config"
)

func baseConfig() config.Observability {
	return config.Observability{
		ServiceName:     "biztime",
		ServiceVersion:  "test",
		Environment:     "test",
		MetricsExporter: "prometheus",
		TraceExporter:   "stdout",
		PrometheusPath:  "/metrics",
	}
}

func TestBuildDisabled(t *testing.T) {
	mgr, err := Build(context.Background(), baseConfig(), zap.NewNop())
	require.NoError(t, err)

	assert.False(t, mgr.TracingEnabled())
	assert.False(t, mgr.MetricsEnabled())
	assert.Nil(t, mgr.MetricsHandler())
	assert.NoError(t, mgr.Shutdown(context.Background()))
}

func TestPrometheusHandlerServesMeterValues(t *testing.T) {
	cfg := baseConfig()
	cfg.EnableMetrics = true

	mgr, err := Build(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = mgr.Shutdown(context.Background()) })

	require.True(t, mgr.MetricsEnabled())
	require.NotNil(t, mgr.MetricsHandler())

	counter, err := mgr.meterProvider.Meter("test").Int64Counter("biztime.company.writes")
	require.NoError(t, err)
	counter.Add(context.Background(), 2, metric.WithAttributes())

	rec := httptest.NewRecorder()
	mgr.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "biztime_company_writes")
}

func TestUnknownMetricsExporterLeavesMetricsOff(t *testing.T) {
	cfg := baseConfig()
	cfg.EnableMetrics = true
	cfg.MetricsExporter = "statsd"

	mgr, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)

	assert.False(t, mgr.MetricsEnabled())
}

func TestOTLPRequiresEndpoint(t *testing.T) {
	cfg := baseConfig()
	cfg.EnableTracing = true
	cfg.TraceExporter = "otlp"

	_, err := Build(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "OBS_OTLP_ENDPOINT")
}
