package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	blogapp "github.com/manutdmohit/proficientlegal-sub000/internal/application/blog"
	bookingapp "github.com/manutdmohit/proficientlegal-sub000/internal/application/booking"
	contentapp "github.com/manutdmohit/proficientlegal-sub000/internal/application/content"
	"github.com/manutdmohit/proficientlegal-sub000/internal/application/dashboard"
	enquiryapp "github.com/manutdmohit/proficientlegal-sub000/internal/application/enquiry"
	eventapp "github.com/manutdmohit/proficientlegal-sub000/internal/application/event"
	identityapp "github.com/manutdmohit/proficientlegal-sub000/internal/application/identity"
	"github.com/manutdmohit/proficientlegal-sub000/internal/application/notification"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/booking"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared/valueobject"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/auth"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/cache"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/config"
	contentstore "github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/content"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/event"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/logger"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/migration"
	infranotify "github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/notification"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/payment"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/persistence"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/scheduler"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/storage"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/telemetry"
	"github.com/manutdmohit/proficientlegal-sub000/internal/interfaces/http/handler"
	"github.com/manutdmohit/proficientlegal-sub000/internal/interfaces/http/middleware"
	"github.com/manutdmohit/proficientlegal-sub000/internal/interfaces/http/router"
	"github.com/manutdmohit/proficientlegal-sub000/migrations"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: cfg.Log.TimeFormat,
	}, zap.String("service", cfg.App.Name))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting site API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	rootCtx, stopRoot := context.WithCancel(context.Background())
	defer stopRoot()

	// Tracing is a no-op provider when disabled
	tracerProvider, err := telemetry.NewTracerProvider(rootCtx, telemetry.TracingConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(rootCtx, telemetry.MetricsConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	// Log export tees the zap logger into the collector
	logProvider, err := telemetry.NewLoggerProvider(rootCtx, telemetry.LogsConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = logProvider.Bridge(log)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithRedactedSQL(cfg.App.IsProduction()),
	)

	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfigFrom(cfg.Telemetry, cfg.App.IsProduction()), log)
		if err := plugin.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Database tracing disabled", zap.Error(err))
		}
	}

	if cfg.Database.AutoMigrate {
		if err := runMigrations(db, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	// Redis is optional; without it the blacklist and idempotency store stay in memory
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(rootCtx, cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, continuing with in-memory stores", zap.Error(err))
			redisClient = nil
		} else {
			defer func() {
				_ = redisClient.Close()
			}()
		}
	}

	var blacklist auth.TokenBlacklist
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	idempotencyStore, err := cache.NewIdempotencyStore(rootCtx, cfg.Redis, redisClient, false, log)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		_ = idempotencyStore.Close()
	}()

	// Repositories
	adminUserRepo := persistence.NewGormAdminUserRepository(db.DB)
	enquiryRepo := persistence.NewGormEnquiryRepository(db.DB)
	postRepo := persistence.NewGormPostRepository(db.DB)
	commentRepo := persistence.NewGormCommentRepository(db.DB)
	bookingRepo := persistence.NewGormBookingRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Events are written to the outbox in the same transaction as the payment
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)
	paymentRecorder := persistence.NewGormPaymentRecorder(db.DB, outboxPublisher)

	// Site content
	catalog, err := contentstore.LoadCatalog(cfg.Content.Path)
	if err != nil {
		log.Fatal("Failed to load site content", zap.Error(err), zap.String("path", cfg.Content.Path))
	}
	contentService := contentapp.NewService(catalog)
	log.Info("Site content loaded", zap.Int("practice_areas", contentService.PracticeAreaCount()))

	loc, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		log.Fatal("Invalid booking timezone", zap.Error(err), zap.String("timezone", cfg.Booking.Timezone))
	}

	// Outbound notifications
	renderer, err := notification.NewRenderer(notification.FirmInfo{
		Name:         cfg.Firm.Name,
		WebsiteURL:   cfg.App.BaseURL,
		AdminURL:     cfg.Firm.AdminURL,
		ContactPhone: cfg.Firm.ContactPhone,
	}, loc, contentService.PracticeAreaTitle)
	if err != nil {
		log.Fatal("Failed to parse email templates", zap.Error(err))
	}
	mailer, err := infranotify.NewMailer(cfg.Email, log)
	if err != nil {
		log.Fatal("Failed to configure mailer", zap.Error(err))
	}
	chat, err := infranotify.NewChatNotifier(cfg.Slack, log)
	if err != nil {
		log.Fatal("Failed to configure chat notifier", zap.Error(err))
	}

	gateway, err := payment.NewStripeGateway(cfg.Stripe, log)
	if err != nil {
		log.Fatal("Failed to configure payment gateway", zap.Error(err))
	}

	objectStorage, err := newObjectStorage(rootCtx, cfg, log)
	if err != nil {
		log.Fatal("Failed to configure media storage", zap.Error(err))
	}

	// Application services
	schedule, err := newSchedule(cfg.Booking, loc)
	if err != nil {
		log.Fatal("Invalid booking schedule", zap.Error(err))
	}
	fee, err := valueobject.NewMoneyFromString(cfg.Booking.FeeAmount, valueobject.Currency(cfg.Booking.FeeCurrency))
	if err != nil {
		log.Fatal("Invalid consultation fee", zap.Error(err))
	}

	paymentNotifier := bookingapp.NewPaymentNotifier(paymentRepo, mailer, chat, renderer, cfg.Email.StaffRecipients, log)
	bookingService := bookingapp.NewService(
		bookingapp.Repositories{Bookings: bookingRepo, Payments: paymentRepo, Recorder: paymentRecorder},
		gateway,
		schedule,
		contentService,
		paymentNotifier,
		bookingapp.Config{Fee: fee, CheckoutTTL: cfg.Booking.CheckoutTTL},
		log,
	)
	enquiryService := enquiryapp.NewService(enquiryRepo, mailer, chat, renderer, cfg.Email.StaffRecipients, log)
	postService := blogapp.NewPostService(postRepo, commentRepo, log)
	commentService := blogapp.NewCommentService(postRepo, commentRepo, log)
	mediaService := blogapp.NewMediaService(objectStorage, blogapp.MediaConfig{
		MaxUploadSize:   cfg.Storage.MaxUploadSize,
		KeyPrefix:       cfg.Storage.KeyPrefix,
		UploadURLExpiry: cfg.Storage.PresignExpiration,
	}, log)
	dashboardService := dashboard.NewService(
		enquiryRepo, bookingRepo, paymentRepo, postRepo,
		valueobject.Currency(cfg.Booking.FeeCurrency), loc, log,
	)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(adminUserRepo, jwtService, blacklist, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.Admin.MaxLoginAttempts,
		LockDuration:     cfg.Admin.LockDuration,
	}, log)
	if cfg.Admin.BootstrapEmail != "" {
		if err := authService.Bootstrap(rootCtx, identityapp.BootstrapInput{
			Email:    cfg.Admin.BootstrapEmail,
			Password: cfg.Admin.BootstrapPassword,
			Name:     cfg.Admin.BootstrapName,
		}); err != nil {
			log.Fatal("Failed to bootstrap admin user", zap.Error(err))
		}
	}

	siteMetrics, err := telemetry.NewSiteMetrics(telemetry.SiteMetricsConfig{
		Meter:  meterProvider.Meter("legal.site"),
		Logger: log,
		Outbox: outboxRepo,
	})
	if err != nil {
		log.Fatal("Failed to create site metrics", zap.Error(err))
	}
	if meterProvider.IsEnabled() {
		siteMetrics.StartPeriodicCollection(rootCtx, time.Minute)
	}

	// Event bus and outbox processor deliver receipts and staff notifications
	eventBus := event.NewInMemoryEventBus(log)
	idempotency := shared.DefaultIdempotencyConfig()
	if cfg.Event.IdempotencyTTL > 0 {
		idempotency.TTL = cfg.Event.IdempotencyTTL
	}
	deliveries := &event.DeliveryCounts{}
	for _, h := range []shared.EventHandler{
		bookingapp.NewReceiptEmailHandler(paymentNotifier, log),
		bookingapp.NewPaymentNotificationHandler(paymentNotifier, log),
		telemetry.NewPaymentMetricsHandler(siteMetrics),
	} {
		eventBus.Subscribe(
			event.NewIdempotentHandler(h, idempotencyStore, idempotency, log, event.WithDeliveryCounts(deliveries)),
			booking.EventTypePaymentCompleted,
		)
	}
	if err := eventBus.Start(rootCtx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	var outboxProcessor *event.OutboxProcessor
	if cfg.Event.ProcessorEnabled {
		outboxProcessor = event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, event.OutboxProcessorConfig{
			BatchSize:        cfg.Event.BatchSize,
			PollInterval:     cfg.Event.PollInterval,
			MaxRetries:       cfg.Event.MaxRetries,
			CleanupEnabled:   cfg.Event.CleanupEnabled,
			CleanupRetention: cfg.Event.CleanupRetention,
		}, log)
		if err := outboxProcessor.Start(rootCtx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
	}

	// Abandoned checkouts release their slots on a timer
	sweeper, err := scheduler.NewPeriodicRunner(scheduler.PeriodicRunnerConfig{
		Name:       "booking-expiry",
		Interval:   cfg.Booking.SweepInterval,
		Timeout:    time.Minute,
		RunOnStart: true,
	}, func(ctx context.Context) error {
		n, err := bookingService.ExpireStale(ctx)
		siteMetrics.RecordExpired(ctx, n)
		return err
	}, log)
	if err != nil {
		log.Fatal("Failed to create booking sweeper", zap.Error(err))
	}
	if err := sweeper.Start(rootCtx); err != nil {
		log.Fatal("Failed to start booking sweeper", zap.Error(err))
	}

	// HTTP engine
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.App.IsProduction()

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tracerProvider.IsEnabled(),
		}),
		middleware.HTTPMetrics(meterProvider),
		middleware.ProfilingLabels(profiler.IsEnabled()),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.SpanErrorMarker(),
		middleware.SecureWithConfig(security),
		middleware.CORSWithConfig(cors),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	var limiters []*middleware.RateLimiter
	newLimiter := func(limit int, window time.Duration) gin.HandlerFunc {
		l := middleware.NewRateLimiter(limit, window)
		limiters = append(limiters, l)
		return middleware.RateLimit(l)
	}
	if cfg.HTTP.RateLimitEnabled {
		engine.Use(newLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow))
	}

	mw := router.Middleware{
		JWT: middleware.JWTAuth(middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		}),
		Admin:        []gin.HandlerFunc{middleware.TracingAttributeInjector()},
		EnquiryLimit: newLimiter(cfg.HTTP.EnquiryRateLimitRequests, cfg.HTTP.EnquiryRateLimitWindow),
		CommentLimit: newLimiter(cfg.HTTP.EnquiryRateLimitRequests, cfg.HTTP.EnquiryRateLimitWindow),
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		mw.AuthLimit = newLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
	}
	defer func() {
		for _, l := range limiters {
			l.Stop()
		}
	}()

	checks := []handler.DependencyCheck{
		{Name: "database", Required: true, Ping: db.Ping},
	}
	if redisClient != nil {
		checks = append(checks, handler.DependencyCheck{
			Name: "redis",
			Ping: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}

	router.Mount(engine, router.Handlers{
		Content:   handler.NewContentHandler(contentService),
		Enquiry:   handler.NewEnquiryHandler(enquiryService),
		Blog:      handler.NewBlogHandler(postService, commentService),
		Media:     handler.NewMediaHandler(mediaService),
		Booking:   handler.NewBookingHandler(bookingService),
		Webhook:   handler.NewStripeWebhookHandler(bookingService),
		Outbox:    handler.NewOutboxHandler(outboxService),
		Auth:      handler.NewAuthHandler(authService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		System:    handler.NewSystemHandler(cfg.App.Name, version, checks...),
	}, mw)

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := sweeper.Stop(ctx); err != nil {
		log.Warn("Booking sweeper did not stop cleanly", zap.Error(err))
	}
	if outboxProcessor != nil {
		if err := outboxProcessor.Stop(ctx); err != nil {
			log.Warn("Outbox processor did not stop cleanly", zap.Error(err))
		}
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Warn("Event bus did not stop cleanly", zap.Error(err))
	}
	log.Info("Event deliveries", zap.Any("counts", deliveries.Snapshot()))
	siteMetrics.Stop()
	stopRoot()
	if err := tracerProvider.Shutdown(ctx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := meterProvider.Shutdown(ctx); err != nil {
		log.Warn("Meter provider shutdown failed", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler stop failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	if err := logProvider.Shutdown(ctx); err != nil {
		log.Warn("Logger provider shutdown failed", zap.Error(err))
	}
}

// runMigrations applies the embedded schema migrations
func runMigrations(db *persistence.Database, log *zap.Logger) error {
	m, err := migration.NewFromFS(db.SQL(), migrations.FS, log)
	if err != nil {
		return err
	}
	// Closing the migrator would close the shared pool
	return m.Up()
}

// newSchedule builds the consultation calendar from configuration
func newSchedule(cfg config.BookingConfig, loc *time.Location) (*booking.Schedule, error) {
	weekdays, err := cfg.ParsedWeekdays()
	if err != nil {
		return nil, err
	}
	return booking.NewSchedule(loc, cfg.SlotTimes, weekdays, cfg.MinLeadTime, cfg.MaxDaysAhead)
}

// newObjectStorage returns S3-compatible storage when configured, otherwise an in-process store
func newObjectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (blogapp.ObjectStorage, error) {
	if !cfg.Storage.Enabled {
		log.Warn("Object storage disabled, media is kept in memory")
		return storage.NewMemoryObjectStorage(cfg.App.BaseURL + "/media"), nil
	}

	s3, err := storage.NewS3ObjectStorage(cfg.Storage, log)
	if err != nil {
		return nil, err
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s3, nil
}
