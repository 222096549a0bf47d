package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/psipro/platform/cmd/mainconfig"
	"github.com/psipro/platform/internal/api/router"
	"github.com/psipro/platform/internal/appointments"
	"github.com/psipro/platform/internal/assist"
	"github.com/psipro/platform/internal/audit"
	appconfig "github.com/psipro/platform/internal/config"
	"github.com/psipro/platform/internal/documents"
	"github.com/psipro/platform/internal/finance"
	"github.com/psipro/platform/internal/observability/metrics"
	"github.com/psipro/platform/internal/patients"
	"github.com/psipro/platform/internal/reminders"
	"github.com/psipro/platform/internal/settings"
	"github.com/psipro/platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting psipro API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// database/sql handle for the audit trail.
	auditDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open audit db", "error", err)
		os.Exit(1)
	}
	defer auditDB.Close()
	auditService := audit.NewService(auditDB)

	// Stores
	apptStore := appointments.NewPostgresStore(pool)
	patientStore := patients.NewPostgresStore(pool)
	documentStore := documents.NewPostgresStore(pool)

	var settingsStore settings.Store = settings.NewPostgresStore(pool)
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		settingsStore = settings.NewCachedStore(settingsStore, redis.NewClient(opts), cfg.SettingsTTL, logger)
		logger.Info("settings cache enabled", "redis_addr", cfg.RedisAddr)
	}

	// Document blob storage
	var blobs documents.Blobs
	if cfg.DocumentsBucket != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		s3Client := mainconfig.NewS3Client(awsCfg, cfg)
		blobs = documents.NewBlobStore(s3Client, s3.NewPresignClient(s3Client), cfg.DocumentsBucket, cfg.SignedURLTTL, logger)
	} else {
		logger.Error("DOCUMENTS_BUCKET is required")
		os.Exit(1)
	}

	// Metrics
	schedulingMetrics := metrics.NewSchedulingMetrics(nil)
	documentMetrics := metrics.NewDocumentMetrics(nil)

	// Services
	apptService := appointments.NewService(apptStore, auditService, schedulingMetrics, logger)
	if cfg.GeminiAPIKey != "" {
		enhancer, err := assist.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
		defer enhancer.Close()
		apptService.WithEnhancer(enhancer)
		logger.Info("clinical notes enhancement enabled", "model", cfg.GeminiModel)
	}
	documentService := documents.NewService(documentStore, blobs, patientStore, apptStore, settingsStore, documentMetrics, logger)
	reminderBuilder, err := reminders.NewBuilder("")
	if err != nil {
		logger.Error("failed to build reminder template", "error", err)
		os.Exit(1)
	}

	// Handlers
	routerCfg := &router.Config{
		Logger:              logger,
		AppointmentsHandler: appointments.NewHandler(apptService, logger, appointments.Options{
			AgendaStartHour:    cfg.AgendaStartHour,
			AgendaEndHour:      cfg.AgendaEndHour,
			AgendaSlotMinutes:  cfg.AgendaSlotMinutes,
			DefaultOccurrences: cfg.RecurrenceWeeks,
			DefaultSessionFee:  cfg.DefaultSessionFee,
		}),
		PatientsHandler:     patients.NewHandler(patientStore, logger),
		DocumentsHandler:    documents.NewHandler(documentService, logger),
		SettingsHandler:     settings.NewHandler(settingsStore, logger),
		FinanceHandler:      finance.NewHandler(finance.NewStatsRepository(pool), logger),
		RemindersHandler:    reminders.NewHandler(reminderBuilder, patientStore, apptStore, logger),
		JWTSecret:           cfg.JWTSecret,
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  cfg.CORSOrigins,
		RateLimitRPS:        cfg.RateLimitRPS,
		RateLimitBurst:      cfg.RateLimitBurst,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
