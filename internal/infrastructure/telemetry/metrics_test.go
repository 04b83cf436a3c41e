package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/hpfin/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func findMetric(t *testing.T, rm metricdata.ResourceMetrics, name string) metricdata.Metrics {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m
			}
		}
	}
	t.Fatalf("metric %q not collected", name)
	return metricdata.Metrics{}
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.Config{ServiceName: "hpfin-test"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	m, err := telemetry.NewClosingMetrics(mp.Meter("test"))
	require.NoError(t, err)
	m.RecordJob(ctx, "login", telemetry.ClosingOutcomeClosed, time.Second, 2)

	assert.NoError(t, mp.Shutdown(ctx))
}

func TestClosingMetrics_RecordJob(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })

	m, err := telemetry.NewClosingMetrics(provider.Meter("closing"))
	require.NoError(t, err)

	m.RecordJob(ctx, "login", telemetry.ClosingOutcomeClosed, 300*time.Millisecond, 3)
	m.RecordJob(ctx, "login", telemetry.ClosingOutcomeClosed, 200*time.Millisecond, 1)
	m.RecordJob(ctx, "catch_up", telemetry.ClosingOutcomeBusy, 10*time.Millisecond, 0)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	jobs, ok := findMetric(t, rm, "hpfin.closing.jobs").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	counts := map[string]int64{}
	for _, dp := range jobs.DataPoints {
		trigger, _ := dp.Attributes.Value(attribute.Key("trigger"))
		outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
		counts[trigger.AsString()+"/"+outcome.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"login/closed": 2, "catch_up/busy": 1}, counts)

	branches, ok := findMetric(t, rm, "hpfin.closing.branches_closed").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, branches.DataPoints, 1)
	assert.Equal(t, int64(4), branches.DataPoints[0].Value)

	duration, ok := findMetric(t, rm, "hpfin.closing.duration").Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var total uint64
	for _, dp := range duration.DataPoints {
		total += dp.Count
	}
	assert.Equal(t, uint64(3), total)
}

func TestClosingMetrics_Nil(t *testing.T) {
	var m *telemetry.ClosingMetrics
	assert.NotPanics(t, func() {
		m.RecordJob(context.Background(), "manual", telemetry.ClosingOutcomeFailed, time.Second, 0)
	})
}
