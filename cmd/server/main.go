package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"path"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/grasdvirus/prime-panier/internal/application/backoffice"
	catalogapp "github.com/grasdvirus/prime-panier/internal/application/catalog"
	contactapp "github.com/grasdvirus/prime-panier/internal/application/contact"
	contentapp "github.com/grasdvirus/prime-panier/internal/application/content"
	identityapp "github.com/grasdvirus/prime-panier/internal/application/identity"
	"github.com/grasdvirus/prime-panier/internal/application/media"
	"github.com/grasdvirus/prime-panier/internal/application/notification"
	tradeapp "github.com/grasdvirus/prime-panier/internal/application/trade"
	"github.com/grasdvirus/prime-panier/internal/domain/identity"
	"github.com/grasdvirus/prime-panier/internal/domain/trade"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/auth"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/cache"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/config"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/event"
	firestoreinfra "github.com/grasdvirus/prime-panier/internal/infrastructure/firestore"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/logger"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/mail"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/persistence"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/storage"
	"github.com/grasdvirus/prime-panier/internal/infrastructure/telemetry"
	"github.com/grasdvirus/prime-panier/internal/interfaces/http/handler"
	"github.com/grasdvirus/prime-panier/internal/interfaces/http/middleware"
	"github.com/grasdvirus/prime-panier/internal/interfaces/http/router"
)

func main() {
	// A local .env is optional; real environments set SHOP_* directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Prime Panier",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("version", telemetry.Version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.ConfigFromApp(cfg), log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfigFromApp(cfg), log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfigFromApp(cfg), log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = logger.Tee(log, lp.ZapCore())
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = mp.Shutdown(shutdownCtx)
		_ = tp.Shutdown(shutdownCtx)
		_ = lp.Shutdown(shutdownCtx)
	}()

	shopMetrics, err := telemetry.NewShopMetrics(mp.Meter("prime-panier"))
	if err != nil {
		log.Warn("Failed to initialize shop metrics", zap.Error(err))
	}

	// Document store
	store, err := openDocumentStore(ctx, cfg, mp, log)
	if err != nil {
		log.Fatal("Failed to open document store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing document store", zap.Error(err))
		}
	}()

	productRepo := persistence.NewProductRepository(store)
	orderRepo := persistence.NewOrderRepository(store)
	messageRepo := persistence.NewMessageRepository(store)
	contentRepo := persistence.NewContentRepository(store)

	// Redis backs checkout idempotency and token revocation when enabled
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisStore, ok := idempotencyStore.(*cache.RedisIdempotencyStore); ok {
		blacklist = auth.NewRedisTokenBlacklistWithClient(redisStore.GetClient())
	}

	// Events: admin e-mails for new orders and contact messages
	eventBus := event.NewInMemoryEventBus(log, event.WithAsyncDispatch(15*time.Second))
	mailHandler := notification.NewMailHandler(mail.NewMailer(cfg.Mail, log), cfg.Mail.AdminEmail, cfg.Shop.Currency, log)
	eventBus.Subscribe(mailHandler, mailHandler.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = eventBus.Stop(stopCtx)
	}()

	// Application services
	productService := catalogapp.NewProductService(productRepo, log)
	productService.SetShopMetrics(shopMetrics)

	contentService := contentapp.NewService(contentRepo, cfg.Shop.ProductsPerPage, log)

	orderService := tradeapp.NewOrderService(orderRepo, idempotencyStore, cfg.Shop.IdempotencyTTL,
		trade.NewShippingPolicy(cfg.Shop.ShippingFee))
	orderService.SetEventPublisher(eventBus)
	orderService.SetShopMetrics(shopMetrics)

	contactService := contactapp.NewService(messageRepo)
	contactService.SetEventPublisher(eventBus)
	contactService.SetShopMetrics(shopMetrics)

	objectStorage, err := storage.NewObjectStorage(ctx, &cfg.Uploads, log)
	if err != nil {
		log.Fatal("Failed to initialize upload storage", zap.Error(err))
	}
	uploadService := media.NewUploadService(objectStorage, media.UploadConfig{
		MaxSize:      cfg.Uploads.MaxSize,
		AllowedTypes: cfg.Uploads.AllowedTypes,
	}, log)

	saveAllService := backoffice.NewSaveAllService(productService, contentService, orderService)

	// Authentication
	directory := identity.NewAdminDirectory(cfg.Auth.AdminEmails)
	verifier, authService, err := newAuthentication(ctx, cfg, directory, blacklist, log)
	if err != nil {
		log.Fatal("Failed to initialize authentication", zap.Error(err))
	}

	// New-order notifications
	hub := notification.NewHub(16)
	go notification.NewOrderWatcher(orderService, hub, cfg.Shop.OrderPollInterval, log).Run(ctx)

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID 2. Recovery 3. Logger 4. Security headers 5. CORS
	// 6. Rate limit 7. Tracing 8. Metrics
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	cleanupStop := make(chan struct{})
	defer close(cleanupStop)

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		go rateLimiter.RunCleanup(cleanupStop)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.HTTPMetrics(mp, log))

	loginLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
	go loginLimiter.RunCleanup(cleanupStop)

	router.Setup(engine, router.Handlers{
		Product:       handler.NewProductHandler(productService),
		Content:       handler.NewContentHandler(contentService),
		Order:         handler.NewOrderHandler(orderService),
		Contact:       handler.NewContactHandler(contactService),
		Upload:        handler.NewUploadHandler(uploadService),
		Auth:          handler.NewAuthHandler(authService),
		Admin:         handler.NewAdminHandler(saveAllService),
		Notifications: handler.NewNotificationStreamHandler(hub, log),
		Health:        handler.NewHealthHandler(store),
	}, router.Guards{
		Authenticate: middleware.Authenticate(verifier, log),
		Timeout:      middleware.Timeout(cfg.HTTP.RequestTimeout),
		JSONLimit:    middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		UploadLimit:  middleware.BodyLimit(cfg.Uploads.MaxSize + 1<<20),
		LoginLimit:   middleware.RateLimit(loginLimiter),
	})

	// Local uploads are served from the same origin
	if cfg.Uploads.Driver == config.UploadLocal || cfg.Uploads.Driver == "" {
		engine.Static(path.Join(cfg.Uploads.PublicPrefix, "uploads"), filepath.Join(cfg.Uploads.LocalDir, "uploads"))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// openDocumentStore opens the backend selected by storage.driver
func openDocumentStore(ctx context.Context, cfg *config.Config, mp *telemetry.MeterProvider, log *zap.Logger) (persistence.DocumentStore, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := persistence.NewDatabase(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
		if err != nil {
			return nil, err
		}
		if _, err := telemetry.RegisterDBMetrics(db.DB, mp, telemetry.DBMetricsConfig{}, log); err != nil {
			log.Warn("Failed to register database metrics", zap.Error(err))
		}
		if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfigFromApp(cfg), log); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
		log.Info("Database connected successfully")
		return persistence.NewGormDocumentStore(db.DB, persistence.WithConnectionOwner(db)), nil
	case config.StorageFirestore:
		client, err := firestoreinfra.NewClient(ctx, cfg.Firestore, log)
		if err != nil {
			return nil, err
		}
		return firestoreinfra.NewDocumentStore(client), nil
	default:
		log.Warn("Using in-memory storage; data is lost on restart")
		return persistence.NewMemoryDocumentStore(), nil
	}
}

// newAuthentication returns the token verifier and, for the jwt provider,
// the password login service
func newAuthentication(
	ctx context.Context,
	cfg *config.Config,
	directory *identity.AdminDirectory,
	blacklist auth.TokenBlacklist,
	log *zap.Logger,
) (auth.TokenVerifier, *identityapp.AuthService, error) {
	if cfg.Auth.Provider == config.AuthFirebase {
		app, err := auth.NewFirebaseApp(ctx, cfg.Auth)
		if err != nil {
			return nil, nil, err
		}
		verifier, err := auth.NewFirebaseVerifierFromApp(ctx, app, directory)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Admin sign-in delegated to Firebase")
		return verifier, nil, nil
	}

	jwtService := auth.NewJWTService(cfg.Auth, auth.WithBlacklist(blacklist))
	authService := identityapp.NewAuthService(
		directory,
		cfg.Auth.AdminPasswordHash,
		jwtService,
		identityapp.DefaultAuthServiceConfig(),
		log,
	)
	return jwtService, authService, nil
}
