package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/workos/workos-go/v6/pkg/usermanagement"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"basegraph.app/membership/common/id"
	"basegraph.app/membership/common/logger"
	"basegraph.app/membership/common/otel"
	"basegraph.app/membership/core/config"
	"basegraph.app/membership/core/db"
	"basegraph.app/membership/internal/billing"
	"basegraph.app/membership/internal/http/middleware"
	httprouter "basegraph.app/membership/internal/http/router"
	"basegraph.app/membership/internal/invite"
	"basegraph.app/membership/internal/queue"
	"basegraph.app/membership/internal/service"
	"basegraph.app/membership/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	mode := billing.NewMode(cfg.Billing.Enforced())
	slog.InfoContext(ctx, "membership server starting",
		"env", cfg.Env,
		"service", cfg.OTel.ServiceName,
		"billing_mode", mode.String())

	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.Queue.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Queue.Stream)

	taskProducer := queue.NewRedisProducer(redisClient, cfg.Queue.Stream, nil)
	defer taskProducer.Close()

	callbacks := invite.NewRedisCallbackStore(redisClient)

	// provider and verifier stay nil interfaces in self-hosted mode
	var (
		provider billing.Provider
		verifier billing.WebhookVerifier
	)
	if mode.Enforced() {
		stripeProvider := billing.NewStripeProvider(cfg.Billing.StripeSecretKey, cfg.Billing.StripeWebhookSecret)
		provider = stripeProvider
		if cfg.Billing.StripeWebhookSecret != "" {
			verifier = stripeProvider
		}
	}

	services := service.NewServices(service.ServicesConfig{
		Stores:   store.NewStores(database.Queries()),
		TxRunner: service.NewTxRunner(database),
		Provider: provider,
		Channel:  invite.NewWorkOSChannel(callbacks, invite.NewWorkOSMagicAuth(usermanagement.NewClient(cfg.WorkOS.APIKey)), cfg.Billing.InviteCallbackTTL),
		Pending:  callbacks,
		Tasks:    taskProducer,
		Mode:     mode,
		WorkOS:   cfg.WorkOS,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, verifier)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services, verifier billing.WebhookVerifier) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		DashboardURL:        cfg.DashboardURL,
		IsProduction:        cfg.IsProduction(),
		InviteRatePerMinute: cfg.Billing.InviteRatePerMinute,
		WebhookVerifier:     verifier,
	})

	return router
}

const banner = `
 __  __ _____ __  __ ____  _____ ____  ____  _   _ ___ ____
|  \/  | ____|  \/  | __ )| ____|  _ \/ ___|| | | |_ _|  _ \
| |\/| |  _| | |\/| |  _ \|  _| | |_) \___ \| |_| || || |_) |
| |  | | |___| |  | | |_) | |___|  _ < ___) |  _  || ||  __/
|_|  |_|_____|_|  |_|____/|_____|_| \_\____/|_| |_|___|_|
`
