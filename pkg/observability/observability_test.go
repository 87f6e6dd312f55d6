package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestInitStdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{
		ServiceName:  "tablefactory-test",
		Exporter:     "stdout",
		Writer:       &buf,
		SamplingRate: 1.0,
	}))
	t.Cleanup(func() { _ = Shutdown(context.Background()) })

	_, span := StartSpan(context.Background(), "factory.create_source", attribute.String("identifier", "source-only"))
	EndSpan(span, errors.New("boom"))

	assert.Contains(t, buf.String(), "factory.create_source")
	assert.Contains(t, buf.String(), "source-only")
}

func TestInitRejectsUnknownExporter(t *testing.T) {
	err := Init(Config{Exporter: "zipkin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zipkin")
}

func TestNoopByDefault(t *testing.T) {
	require.NoError(t, Init(Config{Exporter: "none"}))
	_, span := StartSpan(context.Background(), "noop")
	EndSpan(span, nil)
	RecordValidation(context.Background(), "source-only", time.Millisecond, nil)
	assert.NoError(t, Shutdown(context.Background()))
}

func TestInitMetricReaderRecordsValidation(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	require.NoError(t, Init(Config{ServiceName: "tablefactory-test", MetricReader: reader}))
	t.Cleanup(func() { _ = Shutdown(context.Background()) })

	RecordValidation(context.Background(), "kafka", 2*time.Millisecond, nil)
	RecordValidation(context.Background(), "kafka", time.Millisecond, errors.New("bad option"))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)

	m := rm.ScopeMetrics[0].Metrics[0]
	assert.Equal(t, ValidationDurationMetric, m.Name)
	assert.Equal(t, "s", m.Unit)
	hist, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 2)
	for _, dp := range hist.DataPoints {
		assert.Equal(t, uint64(1), dp.Count)
		id, _ := dp.Attributes.Value("identifier")
		assert.Equal(t, "kafka", id.AsString())
	}
}

func TestStdoutExporterFlushesMetricsOnShutdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{ServiceName: "tablefactory-test", Exporter: "stdout", Writer: &buf}))

	RecordValidation(context.Background(), "postgres-cdc", time.Millisecond, nil)
	require.NoError(t, Shutdown(context.Background()))

	assert.Contains(t, buf.String(), ValidationDurationMetric)
	assert.Contains(t, buf.String(), "postgres-cdc")
}
