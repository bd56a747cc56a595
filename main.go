package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/jpart-gallery/gallery-api/internal/api"
	"github.com/jpart-gallery/gallery-api/internal/caption"
	"github.com/jpart-gallery/gallery-api/internal/config"
	"github.com/jpart-gallery/gallery-api/internal/database"
	"github.com/jpart-gallery/gallery-api/internal/llm"
	"github.com/jpart-gallery/gallery-api/internal/logger"
	"github.com/jpart-gallery/gallery-api/internal/media"
	"github.com/jpart-gallery/gallery-api/internal/metrics"
	"github.com/jpart-gallery/gallery-api/internal/observability"
	"github.com/jpart-gallery/gallery-api/internal/prompt"
	"github.com/jpart-gallery/gallery-api/internal/services"
)

const (
	sentryFlushTimeout = 2 * time.Second
	shutdownTimeout    = 10 * time.Second
	readHeaderTimeout  = 10 * time.Second
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if err := logger.Init(cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	initSentry(cfg)
	defer sentry.Flush(sentryFlushTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", err, nil)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", err, nil)
		os.Exit(1)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tracing := observability.InitializeLangfuse(ctx, cfg)
	recorder := metrics.Fanout{metrics.NewClient(ctx, cfg.Environment), metrics.NewSentryMetrics()}

	var acquirerOpts []media.Option
	if cfg.IsProduction() {
		acquirerOpts = append(acquirerOpts, media.WithPrivateNetworkBlock())
	}
	images := media.NewAcquirer(acquirerOpts...)

	captions, err := llm.NewCaptionProvider(ctx, cfg, images)
	if err != nil {
		logger.Error("Failed to create caption provider", err, logger.Fields{"provider": cfg.CaptionProvider})
		os.Exit(1)
	}
	if captions == nil {
		logger.Warn("Caption provider not configured", logger.Fields{"provider": cfg.CaptionProvider})
	}

	loader, err := prompt.NewPromptLoader()
	if err != nil {
		logger.Error("Failed to load prompts", err, nil)
		os.Exit(1)
	}

	content := services.NewContentService(services.ContentDeps{
		Captions:      captions,
		CaptionModel:  llm.CaptionModel(cfg),
		CaptionKeyEnv: llm.CaptionKeyEnv(cfg),
		Images:        images,
		Generator:     llm.NewImageClient(cfg.GeminiBaseURL, cfg.GoogleAPIKey, cfg.GoogleImageModel),
		Prompts:       prompt.NewPromptBuilder(loader, cfg.CaptionSystemDefault),
		Hashtags:      caption.NewDefaultAssembler(nil),
		Recorder:      recorder,
		Tracing:       tracing,
	})

	catalog := services.NewCatalogService(db)

	var gateway services.PaymentGateway
	if cfg.StripeConfigured() {
		gateway = services.NewStripeGateway(cfg.StripeSecretKey)
	} else {
		logger.Warn("Stripe not configured", nil)
	}
	checkout := services.NewCheckoutService(catalog, gateway, cfg.FrontendURL, cfg.StripeWebhookSecret)

	instagram := services.NewInstagramRelay(cfg.MakeWebhookURL, cfg.IGSecret, cfg.MakeSigningSecret)

	router := api.SetupRouter(api.Dependencies{
		Config:    cfg,
		DB:        db,
		Version:   GetVersion(),
		Recorder:  recorder,
		Content:   content,
		Catalog:   catalog,
		Checkout:  checkout,
		Instagram: instagram,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		logger.Info("Starting server", logger.Fields{"port": cfg.Port, "version": GetVersion(), "environment": cfg.Environment})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped", err, nil)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", err, nil)
	}
}

func initSentry(cfg *config.Config) {
	if cfg.SentryDSN == "" {
		logger.Warn("Sentry not configured (SENTRY_DSN not set)", nil)
		return
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          "gallery-api@" + releaseVersion,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
		EnableLogs:       true,
		Debug:            !cfg.IsProduction(),
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			if event.Request != nil {
				event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				event.Request.Cookies = ""
			}
			return event
		},
	}); err != nil {
		logger.Warn("Failed to initialize Sentry", logger.Fields{"error": err.Error()})
		return
	}
	logger.Info("Sentry initialized", logger.Fields{"environment": cfg.Environment, "release": releaseVersion})
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization":    true,
		"cookie":           true,
		"x-api-key":        true,
		"x-goog-api-key":   true,
		"stripe-signature": true,
	}

	for k, v := range headers {
		if sensitiveKeys[strings.ToLower(k)] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
