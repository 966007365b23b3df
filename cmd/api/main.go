package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/aaraconnect/whatsapp-platform/internal/api/router"
	appconfig "github.com/aaraconnect/whatsapp-platform/internal/config"
	"github.com/aaraconnect/whatsapp-platform/internal/events"
	"github.com/aaraconnect/whatsapp-platform/internal/http/handlers"
	"github.com/aaraconnect/whatsapp-platform/internal/observability/metrics"
	"github.com/aaraconnect/whatsapp-platform/internal/store"
	"github.com/aaraconnect/whatsapp-platform/internal/twilio"
	"github.com/aaraconnect/whatsapp-platform/internal/whatsapp"
	"github.com/aaraconnect/whatsapp-platform/pkg/logging"
)

func main() {
	// Load .env for local development; production relies on real env vars.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting whatsapp-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	db := store.NewStore(pool)

	// Webhook dedup is optional; without redis duplicates pass through.
	var dedup *events.DedupStore
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		dedup = events.NewDedupStore(redisClient, cfg.WebhookDedupTTL)
	} else {
		logger.Warn("REDIS_ADDR not set, webhook deduplication disabled")
	}

	catalog, err := whatsapp.NewCatalog()
	if err != nil {
		logger.Error("failed to load template catalog", "error", err)
		os.Exit(1)
	}

	m := metrics.NewMessagingMetrics(prometheus.DefaultRegisterer)

	factory := whatsapp.NewClientFactory(
		twilio.Builder("", logger.Logger),
		whatsapp.Credentials{
			AccountSID:  cfg.TwilioAccountSID,
			AuthToken:   cfg.TwilioAuthToken,
			PhoneNumber: cfg.TwilioFromNumber,
		},
		logger,
	)
	if !factory.Configured() {
		logger.Warn("service-level Twilio credentials not configured", "error", factory.ConfigError())
	}

	dispatcher := whatsapp.NewDispatcher(factory, catalog, whatsapp.SleepDelay(cfg.BulkSendDelay), m, logger)

	var dedupStore interface {
		MarkSeen(ctx context.Context, messageID string) (bool, error)
	}
	if dedup != nil {
		dedupStore = dedup
	}

	routerCfg := &router.Config{
		Logger:             logger,
		WhatsApp:           handlers.NewWhatsAppHandler(dispatcher, factory, catalog, db, dedupStore, m, logger),
		Users:              handlers.NewUserHandler(db, logger),
		Contacts:           handlers.NewContactHandler(db, logger),
		Campaigns:          handlers.NewCampaignHandler(db, logger),
		Templates:          handlers.NewTemplateHandler(db, logger),
		Credentials:        handlers.NewCredentialHandler(factory, db, logger),
		MetricsHandler:     promhttp.Handler(),
		JWTSecret:          cfg.JWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	logger.Info("server stopped")
}
