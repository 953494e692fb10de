package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return reader, provider
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func sumValue(rm metricdata.ResourceMetrics, name string) (int64, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				return 0, false
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total, true
		}
	}
	return 0, false
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased")
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestShopMetrics(t *testing.T) {
	reader, provider := newTestMeter(t)
	m, err := NewShopMetrics(provider.Meter("shop"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordOrderPlaced(ctx, 16000)
	m.RecordOrderPlaced(ctx, 2999.6)
	m.RecordProductLiked(ctx, "vetements")
	m.RecordContactMessage(ctx)

	rm := collect(t, reader)

	orders, ok := sumValue(rm, "orders_placed_total")
	require.True(t, ok)
	assert.Equal(t, int64(2), orders)

	amount, ok := sumValue(rm, "order_amount_total")
	require.True(t, ok)
	assert.Equal(t, int64(19000), amount)

	likes, ok := sumValue(rm, "product_likes_total")
	require.True(t, ok)
	assert.Equal(t, int64(1), likes)

	messages, ok := sumValue(rm, "contact_messages_total")
	require.True(t, ok)
	assert.Equal(t, int64(1), messages)
}

func TestShopMetrics_NilSafe(t *testing.T) {
	var m *ShopMetrics
	assert.NotPanics(t, func() {
		m.RecordOrderPlaced(context.Background(), 10)
		m.RecordProductLiked(context.Background(), "x")
		m.RecordContactMessage(context.Background())
	})

	_, err := NewShopMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestDBMetricsPlugin(t *testing.T) {
	reader, provider := newTestMeter(t)
	metrics, err := NewDBMetrics(provider.Meter("db.client"), DBMetricsConfig{SlowQueryThreshold: time.Hour}, zap.NewNop())
	require.NoError(t, err)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.Use(NewDBMetricsPlugin(metrics)))

	type row struct {
		ID   int
		Name string
	}
	require.NoError(t, db.AutoMigrate(&row{}))
	require.NoError(t, db.Create(&row{ID: 1, Name: "a"}).Error)

	var got []row
	require.NoError(t, db.Find(&got).Error)

	rm := collect(t, reader)
	total, ok := sumValue(rm, "db_query_total")
	require.True(t, ok)
	assert.GreaterOrEqual(t, total, int64(2))
}

func TestDBMetrics_SlowQuery(t *testing.T) {
	reader, provider := newTestMeter(t)
	metrics, err := NewDBMetrics(provider.Meter("db.client"), DBMetricsConfig{SlowQueryThreshold: time.Millisecond}, zap.NewNop())
	require.NoError(t, err)

	metrics.RecordQuery(context.Background(), "SELECT", 5*time.Millisecond, nil)
	metrics.RecordQuery(context.Background(), "SELECT", 0, errors.New("boom"))

	rm := collect(t, reader)
	slow, ok := sumValue(rm, "db_slow_query_total")
	require.True(t, ok)
	assert.Equal(t, int64(1), slow)
}

func TestDetectOperationType(t *testing.T) {
	assert.Equal(t, "SELECT", detectOperationType("  select * from documents"))
	assert.Equal(t, "INSERT", detectOperationType("INSERT INTO documents"))
	assert.Equal(t, "OTHER", detectOperationType("PRAGMA foreign_keys"))
}

func TestStartServiceSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx, span := StartServiceSpan(context.Background(), "order", "create", SpanAttrItemCount, 3, 42, "ignored")
	assert.NotEmpty(t, GetTraceID(ctx))
	assert.NotEmpty(t, GetSpanID(ctx))
	RecordError(span, errors.New("failed"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "order.create", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	require.Len(t, spans[0].Attributes(), 1)
	assert.Equal(t, SpanAttrItemCount, string(spans[0].Attributes()[0].Key))
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
	assert.Empty(t, GetSpanID(context.Background()))
}
