package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"fitbook/docs"
	"fitbook/internal/auth"
	"fitbook/internal/config"
	"fitbook/internal/database"
	"fitbook/internal/database/migration"
	handlers "fitbook/internal/http/handler"
	"fitbook/internal/http/middleware"
	"fitbook/internal/logger"
	"fitbook/internal/mail"
	"fitbook/internal/otel"
	"fitbook/internal/repository/postgres"
	"fitbook/internal/service"
	"fitbook/internal/storage"
)

// Uploads are capped per handler; the body limit only needs to leave room for multipart framing.
const bodyLimit = 6 << 20

// @title FitBook API
// @version 1.0
// @description Trainer and client booking API.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Load()

	log := logger.New(cfg.Log.Level, cfg.Log.Location())
	defer log.Sync()
	zap.ReplaceGlobals(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal("tracing_init_failed", zap.Error(err))
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			log.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		log.Fatal("failed to initialize object storage", zap.Error(err))
	}

	var mailer mail.Sender = mail.NewLogSender(log)
	if cfg.Mail.ResendAPIKey != "" {
		mailer = mail.NewResendSender(cfg.Mail.ResendAPIKey, cfg.Mail.From)
	} else {
		log.Warn("mail_delivery_disabled", zap.String("detail", "RESEND_API_KEY is empty, confirmation emails are logged"))
	}

	tm, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal("invalid auth configuration", zap.Error(err))
	}

	users := postgres.NewUserPostgres(db)
	trainers := postgres.NewTrainerPostgres(db)
	sessions := postgres.NewSessionPostgres(db)
	bookings := postgres.NewBookingPostgres(db)
	tokens := postgres.NewTokenPostgres(db)

	svc := handlers.Services{
		Auth: service.NewAuthService(users, trainers, tokens, tm, mailer, service.AuthOptions{
			ConfirmURL:          cfg.Mail.ConfirmURL,
			MailAttempts:        cfg.Mail.SendAttempts,
			RequireConfirmation: cfg.Auth.RequireConfirmation,
		}, log),
		Sessions: service.NewSessionService(sessions, bookings, trainers),
		Bookings: service.NewBookingService(bookings, sessions, trainers),
		Profiles: service.NewProfileService(users, trainers, objStore, cfg.MinIO.PresignExpiry, log),
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatal("failed to register metrics", zap.Error(err))
	}
	svc.Metrics = registry

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    bodyLimit,
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(metrics.Handler())
	app.Use(middleware.Timeout(cfg.RequestTimeout))

	handlers.RegisterRoutes(app, db, svc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		log.Info("server_shutdown", zap.String("status", "starting"))
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("server_shutdown", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	log.Info("server_start", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Error("tracing_shutdown_failed", zap.Error(err))
	}
}
