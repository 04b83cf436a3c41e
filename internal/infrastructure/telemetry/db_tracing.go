package telemetry

import (
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include bind variables in spans; never in production
	SlowQueryThresh time.Duration
	DBName          string
}

// DefaultDBTracingConfig returns tracing disabled with a 200ms slow query threshold.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		SlowQueryThresh: 200 * time.Millisecond,
		DBName:          "hpfin",
	}
}

const queryStartKey = "telemetry:query_start"

// RegisterDBTracing installs the otelgorm plugin plus a slow query marker on db.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	marker := slowQueryMarker{threshold: cfg.SlowQueryThresh}
	if err := marker.register(db); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

type slowQueryMarker struct {
	threshold time.Duration
}

func (m slowQueryMarker) register(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("telemetry:before_create", m.before),
		cb.Create().After("gorm:create").Register("telemetry:after_create", m.after),
		cb.Query().Before("gorm:query").Register("telemetry:before_query", m.before),
		cb.Query().After("gorm:query").Register("telemetry:after_query", m.after),
		cb.Update().Before("gorm:update").Register("telemetry:before_update", m.before),
		cb.Update().After("gorm:update").Register("telemetry:after_update", m.after),
		cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", m.before),
		cb.Delete().After("gorm:delete").Register("telemetry:after_delete", m.after),
		cb.Row().Before("gorm:row").Register("telemetry:before_row", m.before),
		cb.Row().After("gorm:row").Register("telemetry:after_row", m.after),
		cb.Raw().Before("gorm:raw").Register("telemetry:before_raw", m.before),
		cb.Raw().After("gorm:raw").Register("telemetry:after_raw", m.after),
	)
}

func (m slowQueryMarker) before(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func (m slowQueryMarker) after(db *gorm.DB) {
	if db.Statement.Context == nil {
		return
	}
	span := trace.SpanFromContext(db.Statement.Context)
	if !span.IsRecording() {
		return
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	v, ok := db.InstanceGet(queryStartKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed >= m.threshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
