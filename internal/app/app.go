package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "cipherhaven/docs"
	"cipherhaven/internal/config"
	"cipherhaven/internal/events"
	"cipherhaven/internal/handlers"
	"cipherhaven/internal/middleware"
	"cipherhaven/internal/monitoring"
	"cipherhaven/internal/pdf"
	"cipherhaven/internal/repositories"
	"cipherhaven/internal/routes"
	"cipherhaven/internal/services"
	"cipherhaven/internal/storage"
	"cipherhaven/internal/utils"
)

func NewLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// Run wires every dependency and serves HTTP until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("[app] close database", zap.Error(err))
		}
	}()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	// === Redis ===
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}

	// === Events ===
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATS.URL != "" {
		nc, err := nats.Connect(cfg.NATS.URL,
			nats.Name("cipherhaven"),
			nats.MaxReconnects(-1),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				if err != nil {
					logger.Warn("[nats] disconnected", zap.Error(err))
				}
			}),
		)
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		defer nc.Drain()
		publisher = events.NewNATSPublisher(nc, cfg.NATS.SubjectPrefix)
	} else {
		logger.Info("[nats] URL not set, events disabled")
	}

	reporter := monitoring.NewReporter(cfg.Sentry.DSN, cfg.Sentry.Environment, logger)
	defer reporter.Flush(2 * time.Second)

	// === Repos ===
	flowRepo := repositories.NewFlowRepository(rdb, cfg.Redis.FlowTTL)
	accountRepo := repositories.NewAccountRepository(db)

	// === Services ===
	identity := utils.NewIdentityClient(cfg.Identity.BaseURL, cfg.Identity.SecretKey, cfg.Identity.Timeout)
	tokens := middleware.NewSessionTokens(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)

	reconciler := services.NewMetadataReconciler(identity, flowRepo, accountRepo, publisher, reporter, logger,
		services.ReconcilerConfig{
			GrantAdmin:     cfg.SignUp.GrantAdmin,
			MaxAttempts:    cfg.SignUp.MetadataMaxAttempts,
			InitialBackoff: cfg.SignUp.MetadataInitialBackoff,
		})

	signUpDeps := services.SignUpDeps{
		Flows:      flowRepo,
		Accounts:   accountRepo,
		Identity:   identity,
		Sessions:   tokens,
		Reconciler: reconciler,
		Events:     publisher,
		Reporter:   reporter,
		Logger:     logger,
		GrantAdmin: cfg.SignUp.GrantAdmin,
		LockTTL:    cfg.SignUp.LockTTL,
	}
	if cfg.Email.SMTPHost != "" {
		signUpDeps.Mailer = services.NewEmailService(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
			cfg.Email.FromEmail,
		)
	}
	signUpService := services.NewSignUpService(signUpDeps)

	genDeps, err := generationDeps(ctx, cfg, logger, publisher)
	if err != nil {
		return err
	}
	generationService := services.NewGenerationService(genDeps)

	navigationService := services.NewNavigationService()
	accountService := services.NewAccountService(accountRepo)
	pdfGen := pdf.NewDocumentGenerator(cfg.Files.FontPath)

	// === Handlers ===
	signUpHandler := handlers.NewSignUpHandler(signUpService, logger)
	navigationHandler := handlers.NewNavigationHandler(navigationService)
	generationHandler := handlers.NewGenerationHandler(generationService, logger)
	reportHandler := handlers.NewReportHandler(pdfGen, logger)
	dashboardHandler := handlers.NewDashboardHandler(accountService, logger)
	healthHandler := handlers.NewHealthHandler(map[string]handlers.HealthCheck{
		"postgres": db.PingContext,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	})

	// === Gin ===
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(cfg.Server.AllowedOrigin))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		tokens,
		signUpHandler,
		navigationHandler,
		generationHandler,
		reportHandler,
		dashboardHandler,
		healthHandler,
	)

	// === Run ===
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Generation.Timeout + 30*time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("[app] server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("[app] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("[app] graceful shutdown complete")
	return nil
}

// generationDeps leaves a model unset when its key is missing; the matching
// endpoints then answer 502 instead of the process refusing to start.
func generationDeps(ctx context.Context, cfg *config.Config, logger *zap.Logger, publisher events.Publisher) (services.GenerationDeps, error) {
	deps := services.GenerationDeps{
		Events:     publisher,
		Logger:     logger,
		ImageCount: cfg.Generation.ImageCount,
	}

	if cfg.Generation.GeminiAPIKey != "" {
		gemini, err := utils.NewGeminiClient(ctx, cfg.Generation.GeminiAPIKey, cfg.Generation.GeminiModel, cfg.Generation.ImageModel)
		if err != nil {
			return deps, err
		}
		deps.Gemini = gemini
		deps.Images = gemini
	} else {
		logger.Warn("[generate] GEMINI_API_KEY not set, Gemini and Imagen disabled")
	}

	if cfg.Generation.GroqAPIKey != "" {
		deps.Gemma = utils.NewChatClient(cfg.Generation.GroqAPIKey, cfg.Generation.GroqBaseURL, cfg.Generation.GroqModel, cfg.Generation.Timeout)
	} else {
		logger.Warn("[generate] GROQ_API_TOKEN not set, Gemma disabled")
	}

	if cfg.Storage.Enabled {
		store, err := storage.NewImageStore(storage.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
			URLExpiry: cfg.Storage.URLExpiry,
		})
		if err != nil {
			return deps, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return deps, fmt.Errorf("ensure bucket %s: %w", cfg.Storage.Bucket, err)
		}
		deps.Store = store
	}

	if cfg.Telegram.BotToken != "" && cfg.Telegram.AdminChatID != 0 {
		notifier, err := services.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.AdminChatID, logger)
		if err != nil {
			// the bot is optional; intake keeps working without notices
			logger.Warn("[tg] disabled", zap.Error(err))
		} else {
			deps.Notifier = notifier
		}
	}
	return deps, nil
}

func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Flow-Token")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
