package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "prime-panier", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, StorageMemory, cfg.Storage.Driver)
		assert.Equal(t, UploadLocal, cfg.Uploads.Driver)
		assert.Equal(t, "./public", cfg.Uploads.LocalDir)
		assert.Equal(t, int64(5<<20), cfg.Uploads.MaxSize)
		assert.Contains(t, cfg.Uploads.AllowedTypes, "image/png")
		assert.Equal(t, AuthJWT, cfg.Auth.Provider)
		assert.Equal(t, 12*time.Hour, cfg.Auth.TokenExpiration)
		assert.Equal(t, int64(5000), cfg.Shop.ShippingFee)
		assert.Equal(t, 12, cfg.Shop.ProductsPerPage)
		assert.Equal(t, 10*time.Second, cfg.Shop.OrderPollInterval)
		assert.Equal(t, 24*time.Hour, cfg.Shop.IdempotencyTTL)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.False(t, cfg.Telemetry.LogsEnabled)
		assert.False(t, cfg.Telemetry.DBTraceEnabled)
		assert.Equal(t, 200*time.Millisecond, cfg.Telemetry.DBSlowQueryThreshold)
		assert.Contains(t, cfg.HTTP.CORSAllowHeaders, "Idempotency-Key")
	})

	t.Run("loads values from environment variables with SHOP prefix", func(t *testing.T) {
		t.Setenv("SHOP_APP_PORT", "9000")
		t.Setenv("SHOP_STORAGE_DRIVER", "POSTGRES")
		t.Setenv("SHOP_DATABASE_HOST", "db.local")
		t.Setenv("SHOP_DATABASE_PORT", "5433")
		t.Setenv("SHOP_SHOP_SHIPPING_FEE", "2500")
		t.Setenv("SHOP_SHOP_ORDER_POLL_INTERVAL", "30s")
		t.Setenv("SHOP_REDIS_ENABLED", "true")
		t.Setenv("SHOP_TELEMETRY_LOGS_ENABLED", "true")
		t.Setenv("SHOP_TELEMETRY_DB_TRACE_ENABLED", "true")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
		assert.Equal(t, "db.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, int64(2500), cfg.Shop.ShippingFee)
		assert.Equal(t, 30*time.Second, cfg.Shop.OrderPollInterval)
		assert.True(t, cfg.Redis.Enabled)
		assert.True(t, cfg.Telemetry.LogsEnabled)
		assert.True(t, cfg.Telemetry.DBTraceEnabled)
	})

	t.Run("rejects unknown storage driver", func(t *testing.T) {
		t.Setenv("SHOP_STORAGE_DRIVER", "mongo")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.driver")
	})

	t.Run("firestore requires a project id", func(t *testing.T) {
		t.Setenv("SHOP_STORAGE_DRIVER", "firestore")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "firestore.project_id")
	})

	t.Run("bucket uploads require a bucket", func(t *testing.T) {
		t.Setenv("SHOP_UPLOADS_DRIVER", "s3")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "uploads.bucket")
	})

	t.Run("rejects negative shipping fee", func(t *testing.T) {
		t.Setenv("SHOP_SHOP_SHIPPING_FEE", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "shipping_fee")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("SHOP_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("SHOP_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("production requires a strong jwt secret", func(t *testing.T) {
		t.Setenv("SHOP_APP_ENV", "production")
		t.Setenv("SHOP_STORAGE_DRIVER", "postgres")
		t.Setenv("SHOP_DATABASE_SSLMODE", "require")
		t.Setenv("SHOP_AUTH_JWT_SECRET", "short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt_secret")
	})

	t.Run("production rejects the memory store", func(t *testing.T) {
		t.Setenv("SHOP_APP_ENV", "production")
		t.Setenv("SHOP_AUTH_PROVIDER", "firebase")
		t.Setenv("SHOP_AUTH_ADMIN_EMAILS", "boutique@example.com")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "memory")
	})

	t.Run("valid production configuration", func(t *testing.T) {
		t.Setenv("SHOP_APP_ENV", "production")
		t.Setenv("SHOP_STORAGE_DRIVER", "firestore")
		t.Setenv("SHOP_FIRESTORE_PROJECT_ID", "prime-panier")
		t.Setenv("SHOP_AUTH_PROVIDER", "firebase")
		t.Setenv("SHOP_AUTH_ADMIN_EMAILS", "boutique@example.com")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.App.IsProduction())
		assert.Equal(t, []string{"boutique@example.com"}, cfg.Auth.AdminEmails)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "shop", Password: "p@ss word", DBName: "prime_panier", SSLMode: "disable"}
	assert.Equal(t, "postgres://shop:p%40ss%20word@db:5432/prime_panier?sslmode=disable", d.DSN())
}
