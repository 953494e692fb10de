package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/grasdvirus/prime-panier/internal/infrastructure/config"
)

type tracedDocument struct {
	ID   string `gorm:"primaryKey"`
	Body string
}

func newTracedDB(t *testing.T, cfg DBTracingConfig) (*gorm.DB, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	cfg.TracerProvider = provider

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedDocument{}))
	require.NoError(t, RegisterDBTracing(db, cfg, zap.NewNop()))
	return db, recorder
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db, recorder := newTracedDB(t, DBTracingConfig{Enabled: false})

	require.NoError(t, db.Create(&tracedDocument{ID: "p1", Body: "{}"}).Error)
	assert.Empty(t, recorder.Ended())
}

func TestRegisterDBTracing_TagsQuerySpans(t *testing.T) {
	db, recorder := newTracedDB(t, DBTracingConfig{Enabled: true, DBSystem: "sqlite", SlowQueryThreshold: time.Hour})

	require.NoError(t, db.Create(&tracedDocument{ID: "p1", Body: "{}"}).Error)

	spans := recorder.Ended()
	require.NotEmpty(t, spans)
	span := spans[len(spans)-1]
	assert.Equal(t, "gorm.Create", span.Name())

	table, ok := spanAttr(span, "db.sql.table")
	require.True(t, ok)
	assert.Equal(t, "traced_documents", table.AsString())
	rows, ok := spanAttr(span, "db.rows_affected")
	require.True(t, ok)
	assert.Equal(t, int64(1), rows.AsInt64())
	_, slow := spanAttr(span, "db.slow_query")
	assert.False(t, slow)
}

func TestRegisterDBTracing_MarksSlowQueries(t *testing.T) {
	db, recorder := newTracedDB(t, DBTracingConfig{Enabled: true, DBSystem: "sqlite", SlowQueryThreshold: time.Nanosecond})

	var docs []tracedDocument
	require.NoError(t, db.Find(&docs).Error)

	spans := recorder.Ended()
	require.NotEmpty(t, spans)
	slow, ok := spanAttr(spans[len(spans)-1], "db.slow_query")
	require.True(t, ok)
	assert.True(t, slow.AsBool())
}

func TestDBTracingConfigFromApp(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Env = "production"
	cfg.Telemetry.DBTraceEnabled = true
	cfg.Telemetry.DBSlowQueryThreshold = time.Second

	assert.False(t, DBTracingConfigFromApp(cfg).Enabled, "query tracing needs tracing enabled")

	cfg.Telemetry.Enabled = true
	got := DBTracingConfigFromApp(cfg)
	assert.True(t, got.Enabled)
	assert.False(t, got.IncludeVariables)
	assert.Equal(t, time.Second, got.SlowQueryThreshold)
}
