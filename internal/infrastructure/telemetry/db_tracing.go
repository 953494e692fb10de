package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/grasdvirus/prime-panier/internal/infrastructure/config"
)

// DBTracingConfig holds configuration for SQL query tracing.
type DBTracingConfig struct {
	Enabled            bool
	IncludeVariables   bool // bind values end up in span attributes; keep off in production
	SlowQueryThreshold time.Duration
	DBSystem           string
	TracerProvider     trace.TracerProvider // defaults to the global provider
}

// DBTracingConfigFromApp builds the query tracing configuration. Query spans
// need a tracer, so tracing must be enabled as a whole.
func DBTracingConfigFromApp(cfg *config.Config) DBTracingConfig {
	return DBTracingConfig{
		Enabled:            cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		IncludeVariables:   !cfg.App.IsProduction() && cfg.Log.Level == "debug",
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThreshold,
		DBSystem:           "postgresql",
	}
}

type queryStartKey struct{}

// RegisterDBTracing installs the otelgorm plugin on db plus a pair of
// callbacks that tag each query span with the document table, rows affected
// and a slow query marker. Disabled configurations register nothing.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled")
		return nil
	}
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}

	// otelgorm also reports connection pool statistics on the global meter.
	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.IncludeVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	// The span attributes must be set before otelgorm ends the span.
	after := slowQueryCallback(cfg.SlowQueryThreshold)
	cb := db.Callback()
	steps := []func() error{
		func() error { return cb.Create().Before("gorm:create").Register("shop_trace:before_create", markQueryStart) },
		func() error { return cb.Query().Before("gorm:query").Register("shop_trace:before_query", markQueryStart) },
		func() error { return cb.Update().Before("gorm:update").Register("shop_trace:before_update", markQueryStart) },
		func() error { return cb.Delete().Before("gorm:delete").Register("shop_trace:before_delete", markQueryStart) },
		func() error { return cb.Row().Before("gorm:row").Register("shop_trace:before_row", markQueryStart) },
		func() error { return cb.Raw().Before("gorm:raw").Register("shop_trace:before_raw", markQueryStart) },
		func() error {
			return cb.Create().After("gorm:create").Before("otel:after:create").Register("shop_trace:after_create", after)
		},
		func() error {
			return cb.Query().After("gorm:query").Before("otel:after:select").Register("shop_trace:after_query", after)
		},
		func() error {
			return cb.Update().After("gorm:update").Before("otel:after:update").Register("shop_trace:after_update", after)
		},
		func() error {
			return cb.Delete().After("gorm:delete").Before("otel:after:delete").Register("shop_trace:after_delete", after)
		},
		func() error {
			return cb.Row().After("gorm:row").Before("otel:after:row").Register("shop_trace:after_row", after)
		},
		func() error {
			return cb.Raw().After("gorm:raw").Before("otel:after:raw").Register("shop_trace:after_raw", after)
		},
	}
	for _, register := range steps {
		if err := register(); err != nil {
			return err
		}
	}

	logger.Info("Database tracing enabled",
		zap.Bool("include_variables", cfg.IncludeVariables),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold),
	)
	return nil
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func slowQueryCallback(threshold time.Duration) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}

		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		// A missing document is an ordinary lookup result.
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, db.Error.Error())
			span.RecordError(db.Error)
		}

		start, ok := ctx.Value(queryStartKey{}).(time.Time)
		if !ok {
			return
		}
		if elapsed := time.Since(start); elapsed > threshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query", trace.WithAttributes(
				attribute.Int64("threshold_ms", threshold.Milliseconds()),
			))
		}
	}
}
