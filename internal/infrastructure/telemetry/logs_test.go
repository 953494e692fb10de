package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"

	"github.com/grasdvirus/prime-panier/internal/infrastructure/config"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/logger"
)

// capturedRecord keeps what the exporter saw; sdk records are only valid
// during Export.
type capturedRecord struct {
	body     string
	severity otellog.Severity
	attrs    map[string]string
}

type memoryLogExporter struct {
	mu      sync.Mutex
	records []capturedRecord
}

func (e *memoryLogExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		attrs := map[string]string{}
		r.WalkAttributes(func(kv otellog.KeyValue) bool {
			attrs[kv.Key] = kv.Value.AsString()
			return true
		})
		e.records = append(e.records, capturedRecord{body: r.Body().AsString(), severity: r.Severity(), attrs: attrs})
	}
	return nil
}

func (e *memoryLogExporter) Shutdown(context.Context) error   { return nil }
func (e *memoryLogExporter) ForceFlush(context.Context) error { return nil }

func (e *memoryLogExporter) all() []capturedRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]capturedRecord(nil), e.records...)
}

func TestNewLoggerProvider_Disabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	assert.Nil(t, lp.ZapCore())
	assert.NoError(t, lp.ForceFlush(context.Background()))
	assert.NoError(t, lp.Shutdown(context.Background()))
}

func TestLoggerProvider_ZapBridge(t *testing.T) {
	exporter := &memoryLogExporter{}
	lp, err := newLoggerProvider(LogsConfig{Enabled: true, ServiceName: "prime-panier"}, sdklog.NewSimpleProcessor(exporter), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })
	require.True(t, lp.IsEnabled())

	base, err := logger.New(&logger.Config{Level: "info", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	log := logger.Tee(base, lp.ZapCore())

	log.Debug("cart recomputed")
	log.Warn("Idempotency key reused with a different cart", zap.String("order_id", "o-1"))
	require.NoError(t, lp.ForceFlush(context.Background()))

	records := exporter.all()
	require.Len(t, records, 1)
	assert.Equal(t, "Idempotency key reused with a different cart", records[0].body)
	assert.Equal(t, otellog.SeverityWarn, records[0].severity)
	assert.Equal(t, "o-1", records[0].attrs["order_id"])
}

func TestLogsConfigFromApp(t *testing.T) {
	cfg := &config.Config{}
	cfg.Telemetry.LogsEnabled = true
	cfg.Telemetry.CollectorEndpoint = "otel:4317"

	assert.False(t, LogsConfigFromApp(cfg).Enabled, "log export needs telemetry enabled")

	cfg.Telemetry.Enabled = true
	got := LogsConfigFromApp(cfg)
	assert.True(t, got.Enabled)
	assert.Equal(t, "otel:4317", got.CollectorEndpoint)
}
