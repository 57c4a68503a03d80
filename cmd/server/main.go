package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/joho/godotenv"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps/achievements"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps/chatbot"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps/community"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps/forecast"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps/moderation"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps/notifications"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps/profile"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps/reminders"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps/scanner"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apps/subscription"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/chatlog"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/gateway"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/gemini"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/jobs"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/state/session"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/weather"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/workspace"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.MigrateShared(); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	// Log sinks: PostgreSQL (ERROR+ async batch) and, with a DSN, Sentry
	pgLogHandler := logging.NewPGHandler(database.DB)
	logSinks := []slog.Handler{pgLogHandler}
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			logSinks = append(logSinks, logging.NewSentryHandler(sentry.CurrentHub()))
			defer sentry.Flush(2 * time.Second)
		}
	}
	logging.Install(logSinks...)

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Optional backing services. Without them the server falls back to
	// in-process stores.
	var (
		weatherCache weather.Cache = weather.NoCache{}
		outbox       notify.Outbox = notify.NewMemoryOutbox()
		transcripts  chatlog.Store = chatlog.NewMemoryStore()
	)
	if cfg.RedisURL != "" {
		if err := database.ConnectRedis(cfg.RedisURL); err != nil {
			slog.Error("redis unavailable, using in-memory cache and outbox", "error", err)
		} else {
			weatherCache = weather.NewRedisCache(database.Redis)
			outbox = notify.NewRedisOutbox(database.Redis)
		}
	}
	if cfg.MongoURI != "" {
		if err := database.ConnectMongo(cfg.MongoURI, cfg.MongoDB); err != nil {
			slog.Error("mongo unavailable, chat history kept in memory", "error", err)
		} else {
			store := chatlog.NewMongoStore(database.MongoDB)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := store.EnsureIndexes(ctx); err != nil {
				slog.Warn("chat history index creation failed", "error", err)
			}
			cancel()
			transcripts = store
		}
	}

	var files gateway.FileStore
	if cfg.CloudinaryEnabled() {
		cld, err := gateway.NewCloudinaryFiles(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		if err != nil {
			slog.Error("cloudinary init failed", "error", err)
			os.Exit(1)
		}
		files = cld
	} else {
		slog.Warn("cloudinary not configured, uploads are disabled")
	}
	gw := gateway.New(database.DB, files)

	// Sessions and workspaces
	bg := state.NewBackground(15 * time.Second)
	sessions := session.NewService(gw, cfg.JWTSecret, cfg.JWTTokenExpiry)
	registry := workspace.NewRegistry(gw, sessions, outbox, bg,
		workspace.WithIdleTTL(cfg.WorkspaceIdleTTL),
		workspace.WithNotificationLifetime(cfg.NotificationLifetime),
	)

	deps := &apps.Deps{
		Config:  cfg,
		Gateway: gw,
		Gemini:  gemini.New(cfg.GeminiAPIURL, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.AITimeout),
		Weather: weather.New(cfg.WeatherAPIURL, cfg.WeatherAPIKey, weatherCache, cfg.WeatherCacheTTL),
		Chatlog: transcripts,
	}

	plugins := []apps.Plugin{
		scanner.New(),
		chatbot.New(),
		forecast.New(),
		community.New(),
		reminders.New(),
		notifications.New(),
		achievements.New(),
		profile.New(),
		subscription.New(),
		moderation.New(),
	}

	// Migrate plugin models
	for _, p := range plugins {
		if models := p.Models(); len(models) > 0 {
			if err := database.MigrateModels(models); err != nil {
				slog.Error("plugin migration failed", "plugin", p.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("plugin migrated", "plugin", p.ID(), "models", len(models))
		}
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(sessions, registry)
	healthHandler := handlers.NewHealthHandler(registry, database.Ping)
	legalHandler := handlers.NewLegalHandler("ADOPTD", cfg.SupportEmail)

	// Background jobs
	notifier := jobs.NewReminderNotifier(registry, cfg.ReminderPollInterval, cfg.ReminderTolerance)
	notifier.Start()
	sweeper := jobs.NewWorkspaceSweeper(registry, cfg.WorkspaceIdleTTL/6)
	sweeper.Start()

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, registry, authHandler, healthHandler, legalHandler, plugins, deps)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "plugins", len(plugins))
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	notifier.Stop()
	sweeper.Stop()
	bg.Wait()

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.CloseMongo(); err != nil {
		slog.Error("mongo close error", "error", err)
	}
	if err := database.CloseRedis(); err != nil {
		slog.Error("redis close error", "error", err)
	}
	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
