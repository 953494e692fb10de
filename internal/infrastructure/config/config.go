package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers
const (
	StorageMemory    = "memory"
	StoragePostgres  = "postgres"
	StorageFirestore = "firestore"
)

// Upload drivers
const (
	UploadLocal = "local"
	UploadS3    = "s3"
	UploadGCS   = "gcs"
)

// Auth providers
const (
	AuthJWT      = "jwt"
	AuthFirebase = "firebase"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Firestore FirestoreConfig
	Redis     RedisConfig
	Uploads   UploadConfig
	Auth      AuthConfig
	Mail      MailConfig
	Shop      ShopConfig
	HTTP      HTTPConfig
	Log       LogConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// IsProduction reports whether the app runs in production
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// StorageConfig selects the document store backend
type StorageConfig struct {
	Driver string // memory, postgres, firestore
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// FirestoreConfig holds Firestore client settings
type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string // empty = application default credentials
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// UploadConfig holds upload relay settings
type UploadConfig struct {
	Driver          string // local, s3, gcs
	LocalDir        string // public static directory for the local driver
	PublicPrefix    string // URL prefix under which LocalDir is served
	Bucket          string
	Region          string
	Endpoint        string // custom S3 endpoint (MinIO, R2, ...)
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PublicBaseURL   string // base URL of the bucket for s3/gcs object URLs
	CredentialsFile string // GCS service account file
	MaxSize         int64
	AllowedTypes    []string
}

// AuthConfig holds admin authentication settings
type AuthConfig struct {
	Provider                string // jwt, firebase
	JWTSecret               string
	TokenExpiration         time.Duration
	Issuer                  string
	AdminEmails             []string
	AdminPasswordHash       string // bcrypt hash, jwt provider only
	FirebaseProjectID       string
	FirebaseCredentialsFile string
}

// MailConfig holds admin notification mail settings
type MailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	AdminEmail     string
}

// ShopConfig holds storefront business settings
type ShopConfig struct {
	ShippingFee       int64
	Currency          string
	ProductsPerPage   int
	OrderPollInterval time.Duration
	IdempotencyTTL    time.Duration
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	RequestTimeout        time.Duration // deadline of non-streaming handlers
	MaxHeaderBytes        int
	MaxBodySize           int64
	RateLimitEnabled      bool
	RateLimitRequests     int
	RateLimitWindow       time.Duration
	AuthRateLimitRequests int
	AuthRateLimitWindow   time.Duration
	CORSAllowOrigins      []string
	CORSAllowMethods      []string
	CORSAllowHeaders      []string
	TrustedProxies        []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled               bool
	CollectorEndpoint     string
	SamplingRatio         float64
	ServiceName           string
	Insecure              bool
	MetricsEnabled        bool
	MetricsExportInterval time.Duration
	LogsEnabled           bool          // export zap logs over OTLP
	DBTraceEnabled        bool          // trace SQL queries (otelgorm)
	DBSlowQueryThreshold  time.Duration // marks slower queries on their span
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SHOP_ prefix (e.g., SHOP_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/prime-panier")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("SHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(v.GetString("storage.driver")),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Firestore: FirestoreConfig{
			ProjectID:       v.GetString("firestore.project_id"),
			CredentialsFile: v.GetString("firestore.credentials_file"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Uploads: UploadConfig{
			Driver:          strings.ToLower(v.GetString("uploads.driver")),
			LocalDir:        v.GetString("uploads.local_dir"),
			PublicPrefix:    v.GetString("uploads.public_prefix"),
			Bucket:          v.GetString("uploads.bucket"),
			Region:          v.GetString("uploads.region"),
			Endpoint:        v.GetString("uploads.endpoint"),
			AccessKeyID:     v.GetString("uploads.access_key_id"),
			SecretAccessKey: v.GetString("uploads.secret_access_key"),
			UsePathStyle:    v.GetBool("uploads.use_path_style"),
			PublicBaseURL:   v.GetString("uploads.public_base_url"),
			CredentialsFile: v.GetString("uploads.credentials_file"),
			MaxSize:         v.GetInt64("uploads.max_size"),
			AllowedTypes:    v.GetStringSlice("uploads.allowed_types"),
		},
		Auth: AuthConfig{
			Provider:                strings.ToLower(v.GetString("auth.provider")),
			JWTSecret:               v.GetString("auth.jwt_secret"),
			TokenExpiration:         v.GetDuration("auth.token_expiration"),
			Issuer:                  v.GetString("auth.issuer"),
			AdminEmails:             v.GetStringSlice("auth.admin_emails"),
			AdminPasswordHash:       v.GetString("auth.admin_password_hash"),
			FirebaseProjectID:       v.GetString("auth.firebase_project_id"),
			FirebaseCredentialsFile: v.GetString("auth.firebase_credentials_file"),
		},
		Mail: MailConfig{
			SendGridAPIKey: v.GetString("mail.sendgrid_api_key"),
			FromEmail:      v.GetString("mail.from_email"),
			FromName:       v.GetString("mail.from_name"),
			AdminEmail:     v.GetString("mail.admin_email"),
		},
		Shop: ShopConfig{
			ShippingFee:       v.GetInt64("shop.shipping_fee"),
			Currency:          v.GetString("shop.currency"),
			ProductsPerPage:   v.GetInt("shop.products_per_page"),
			OrderPollInterval: v.GetDuration("shop.order_poll_interval"),
			IdempotencyTTL:    v.GetDuration("shop.idempotency_ttl"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:           v.GetDuration("http.read_timeout"),
			WriteTimeout:          v.GetDuration("http.write_timeout"),
			IdleTimeout:           v.GetDuration("http.idle_timeout"),
			RequestTimeout:        v.GetDuration("http.request_timeout"),
			MaxHeaderBytes:        v.GetInt("http.max_header_bytes"),
			MaxBodySize:           v.GetInt64("http.max_body_size"),
			RateLimitEnabled:      v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests:     v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:       v.GetDuration("http.rate_limit_window"),
			AuthRateLimitRequests: v.GetInt("http.auth_rate_limit_requests"),
			AuthRateLimitWindow:   v.GetDuration("http.auth_rate_limit_window"),
			CORSAllowOrigins:      v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:      v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:      v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:        v.GetStringSlice("http.trusted_proxies"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Telemetry: TelemetryConfig{
			Enabled:               v.GetBool("telemetry.enabled"),
			CollectorEndpoint:     v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:         v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:           v.GetString("telemetry.service_name"),
			Insecure:              v.GetBool("telemetry.insecure"),
			MetricsEnabled:        v.GetBool("telemetry.metrics_enabled"),
			MetricsExportInterval: v.GetDuration("telemetry.metrics_export_interval"),
			LogsEnabled:           v.GetBool("telemetry.logs_enabled"),
			DBTraceEnabled:        v.GetBool("telemetry.db_trace_enabled"),
			DBSlowQueryThreshold:  v.GetDuration("telemetry.db_slow_query_threshold"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "prime-panier"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = StorageMemory
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "prime_panier"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Uploads.Driver == "" {
		cfg.Uploads.Driver = UploadLocal
	}
	if cfg.Uploads.LocalDir == "" {
		cfg.Uploads.LocalDir = "./public"
	}
	if cfg.Uploads.PublicPrefix == "" {
		cfg.Uploads.PublicPrefix = "/"
	}
	if cfg.Uploads.Region == "" {
		cfg.Uploads.Region = "us-east-1"
	}
	if cfg.Uploads.MaxSize == 0 {
		cfg.Uploads.MaxSize = 5 << 20 // 5MB
	}
	if len(cfg.Uploads.AllowedTypes) == 0 {
		cfg.Uploads.AllowedTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}
	}
	if cfg.Auth.Provider == "" {
		cfg.Auth.Provider = AuthJWT
	}
	if cfg.Auth.TokenExpiration == 0 {
		cfg.Auth.TokenExpiration = 12 * time.Hour
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "prime-panier"
	}
	if cfg.Mail.FromName == "" {
		cfg.Mail.FromName = "Prime Panier"
	}
	if cfg.Shop.ShippingFee == 0 {
		cfg.Shop.ShippingFee = 5000
	}
	if cfg.Shop.Currency == "" {
		cfg.Shop.Currency = "XOF"
	}
	if cfg.Shop.ProductsPerPage == 0 {
		cfg.Shop.ProductsPerPage = 12
	}
	if cfg.Shop.OrderPollInterval == 0 {
		cfg.Shop.OrderPollInterval = 10 * time.Second
	}
	if cfg.Shop.IdempotencyTTL == 0 {
		cfg.Shop.IdempotencyTTL = 24 * time.Hour
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.RequestTimeout == 0 {
		cfg.HTTP.RequestTimeout = 10 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 120
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.HTTP.AuthRateLimitRequests == 0 {
		cfg.HTTP.AuthRateLimitRequests = 5
	}
	if cfg.HTTP.AuthRateLimitWindow == 0 {
		cfg.HTTP.AuthRateLimitWindow = time.Minute
	}
	// An empty origin list allows no cross-origin requests until configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "Idempotency-Key"}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "prime-panier"
	}
	if cfg.Telemetry.MetricsExportInterval == 0 {
		cfg.Telemetry.MetricsExportInterval = 60 * time.Second
	}
	if cfg.Telemetry.DBSlowQueryThreshold == 0 {
		cfg.Telemetry.DBSlowQueryThreshold = 200 * time.Millisecond
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if !slices.Contains([]string{StorageMemory, StoragePostgres, StorageFirestore}, c.Storage.Driver) {
		return fmt.Errorf("storage.driver must be one of memory, postgres, firestore, got %q", c.Storage.Driver)
	}
	if c.Storage.Driver == StorageFirestore && c.Firestore.ProjectID == "" {
		return fmt.Errorf("firestore.project_id is required when storage.driver is firestore")
	}

	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if !slices.Contains([]string{UploadLocal, UploadS3, UploadGCS}, c.Uploads.Driver) {
		return fmt.Errorf("uploads.driver must be one of local, s3, gcs, got %q", c.Uploads.Driver)
	}
	if c.Uploads.Driver != UploadLocal && c.Uploads.Bucket == "" {
		return fmt.Errorf("uploads.bucket is required when uploads.driver is %s", c.Uploads.Driver)
	}
	if c.Uploads.MaxSize < 0 {
		return fmt.Errorf("uploads.max_size cannot be negative")
	}

	if !slices.Contains([]string{AuthJWT, AuthFirebase}, c.Auth.Provider) {
		return fmt.Errorf("auth.provider must be jwt or firebase, got %q", c.Auth.Provider)
	}

	if c.Shop.ShippingFee < 0 {
		return fmt.Errorf("shop.shipping_fee cannot be negative")
	}
	if c.Shop.ProductsPerPage < 0 {
		return fmt.Errorf("shop.products_per_page cannot be negative")
	}

	if c.App.IsProduction() {
		if c.Auth.Provider == AuthJWT {
			if len(c.Auth.JWTSecret) < 32 {
				return fmt.Errorf("auth.jwt_secret must be at least 32 characters in production")
			}
			if c.Auth.AdminPasswordHash == "" {
				return fmt.Errorf("auth.admin_password_hash is required in production")
			}
		}
		if len(c.Auth.AdminEmails) == 0 {
			return fmt.Errorf("auth.admin_emails must list at least one administrator in production")
		}
		if c.Storage.Driver == StorageMemory {
			return fmt.Errorf("storage.driver=memory is not allowed in production")
		}
		if c.Storage.Driver == StoragePostgres && c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
