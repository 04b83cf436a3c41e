package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, RegisterDBTracing(db, DefaultDBTracingConfig(), zap.NewNop()))
	assert.Nil(t, db.Callback().Query().Get("telemetry:after_query"))
}

func TestRegisterDBTracing_Enabled(t *testing.T) {
	db := openSQLite(t)
	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true

	require.NoError(t, RegisterDBTracing(db, cfg, zap.NewNop()))
	assert.NotNil(t, db.Callback().Query().Get("telemetry:after_query"))
	assert.NoError(t, db.Create(&tracedRow{Name: "a"}).Error)
}

func TestSlowQueryMarker(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, slowQueryMarker{threshold: 0}.register(db))

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	ctx, span := tp.Tracer("test").Start(context.Background(), "request")

	var rows []tracedRow
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	attrs := ended[0].Attributes()
	assert.Contains(t, attrs, attribute.Bool("db.slow_query", true))
	assert.Contains(t, attrs, attribute.String("db.sql.table", "traced_rows"))
}
