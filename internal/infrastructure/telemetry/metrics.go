package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

const defaultMetricsInterval = 60 * time.Second

// Outcomes recorded for a closing job.
const (
	ClosingOutcomeClosed   = "closed"
	ClosingOutcomeUpToDate = "up_to_date"
	ClosingOutcomeBusy     = "busy"
	ClosingOutcomeFailed   = "failed"
)

// MeterProvider owns the metric SDK provider and its periodic OTLP reader.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	logger   *zap.Logger
}

// NewMeterProvider builds an OTLP/gRPC backed meter provider and installs it globally.
// When disabled, meters are no-ops.
func NewMeterProvider(ctx context.Context, cfg Config, logger *zap.Logger) (*MeterProvider, error) {
	mp := &MeterProvider{logger: logger}
	if !cfg.Enabled {
		logger.Info("Metrics disabled, using no-op meter provider")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, err
	}

	interval := cfg.MetricsInterval
	if interval <= 0 {
		interval = defaultMetricsInterval
	}
	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp.provider)

	logger.Info("OpenTelemetry meter provider initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Duration("export_interval", interval),
	)
	return mp, nil
}

// Meter returns a named meter.
func (mp *MeterProvider) Meter(name string) metric.Meter {
	if mp.provider == nil {
		return metricnoop.NewMeterProvider().Meter(name)
	}
	return mp.provider.Meter(name)
}

// Shutdown exports the last collection and stops the reader.
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := mp.provider.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	mp.logger.Info("OpenTelemetry meter provider shut down")
	return nil
}

// ClosingMetrics counts closing queue jobs and the branches they close.
// A nil *ClosingMetrics records nothing.
type ClosingMetrics struct {
	jobs     metric.Int64Counter
	duration metric.Float64Histogram
	branches metric.Int64Counter
}

// NewClosingMetrics registers the closing instruments on meter.
func NewClosingMetrics(meter metric.Meter) (*ClosingMetrics, error) {
	jobs, err := meter.Int64Counter("hpfin.closing.jobs",
		metric.WithDescription("Closing balance jobs run, by trigger and outcome"),
		metric.WithUnit("{job}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create jobs counter: %w", err)
	}
	duration, err := meter.Float64Histogram("hpfin.closing.duration",
		metric.WithDescription("Time spent advancing one company's closing balances"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 300))
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	branches, err := meter.Int64Counter("hpfin.closing.branches_closed",
		metric.WithDescription("Branch closing rows written"),
		metric.WithUnit("{branch}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create branches counter: %w", err)
	}
	return &ClosingMetrics{jobs: jobs, duration: duration, branches: branches}, nil
}

// RecordJob records one finished job. outcome is one of the ClosingOutcome values.
func (m *ClosingMetrics) RecordJob(ctx context.Context, trigger, outcome string, elapsed time.Duration, branchesClosed int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("trigger", trigger),
		attribute.String("outcome", outcome),
	)
	m.jobs.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
	if branchesClosed > 0 {
		m.branches.Add(ctx, int64(branchesClosed), metric.WithAttributes(attribute.String("trigger", trigger)))
	}
}
