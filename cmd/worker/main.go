package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"basegraph.app/membership/common/id"
	"basegraph.app/membership/common/logger"
	"basegraph.app/membership/common/otel"
	"basegraph.app/membership/core/config"
	"basegraph.app/membership/core/db"
	"basegraph.app/membership/internal/billing"
	"basegraph.app/membership/internal/queue"
	"basegraph.app/membership/internal/service"
	"basegraph.app/membership/internal/store"
	"basegraph.app/membership/internal/worker"
)

const sessionSweepInterval = time.Hour

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	fmt.Printf("%s\n", banner)
	logger.Setup(cfg)

	mode := billing.NewMode(cfg.Billing.Enforced())
	slog.InfoContext(ctx, "membership worker starting",
		"env", cfg.Env,
		"billing_mode", mode.String(),
		"consumer_group", cfg.Queue.Group,
		"consumer_name", cfg.Queue.Consumer)

	// different node ID than the server
	if err := id.Init(2); err != nil {
		slog.ErrorContext(ctx, "failed to initialize id generator", "error", err)
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
	defer redisClient.Close()
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Queue.Stream)

	consumer, err := queue.NewRedisConsumer(redisClient, queue.ConsumerConfig{
		Stream:       cfg.Queue.Stream,
		Group:        cfg.Queue.Group,
		Consumer:     cfg.Queue.Consumer,
		DLQStream:    cfg.Queue.DLQStream,
		BatchSize:    10,
		Block:        5 * time.Second,
		MaxAttempts:  cfg.Queue.MaxAttempts,
		RequeueDelay: time.Second,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create consumer", "error", err)
		os.Exit(1)
	}

	var provider billing.Provider
	if mode.Enforced() {
		provider = billing.NewStripeProvider(cfg.Billing.StripeSecretKey, cfg.Billing.StripeWebhookSecret)
	}

	stores := store.NewStores(database.Queries())
	services := service.NewServices(service.ServicesConfig{
		Stores:   stores,
		TxRunner: service.NewTxRunner(database),
		Provider: provider,
		Mode:     mode,
		WorkOS:   cfg.WorkOS,
	})
	reconciler := services.Reconcile()

	w := worker.New(consumer, reconciler, worker.Config{
		MaxAttempts: cfg.Queue.MaxAttempts,
	})

	reclaimer := worker.NewRedisReclaimer(redisClient, worker.RedisReclaimerConfig{
		Stream:        cfg.Queue.Stream,
		Group:         cfg.Queue.Group,
		Consumer:      cfg.Queue.Consumer + "-reclaimer",
		MinIdle:       5 * time.Minute,
		Interval:      1 * time.Minute,
		BatchSize:     10,
		MaxDeliveries: int64(cfg.Queue.MaxAttempts),
	}, consumer, w.ProcessMessage)

	producer := queue.NewRedisProducer(redisClient, cfg.Queue.Stream, nil)
	defer producer.Close()
	sweeper := worker.NewSweeper(reconciler, producer, cfg.Billing.ReconcileSweepInterval)

	runCtx, stopRun := context.WithCancel(ctx)
	defer stopRun()

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Run(runCtx)
	}()
	go reclaimer.Run(runCtx)
	if mode.Enforced() {
		go sweeper.Run(runCtx)
	}
	go sweepSessions(runCtx, stores.Sessions())

	slog.InfoContext(ctx, "worker initialized and running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	reclaimer.Stop()
	if mode.Enforced() {
		sweeper.Stop()
	}
	w.Stop()
	stopRun()

	select {
	case <-shutdownCtx.Done():
		slog.WarnContext(ctx, "shutdown timeout exceeded")
	case err := <-errCh:
		if err != nil {
			slog.ErrorContext(ctx, "worker error during shutdown", "error", err)
		}
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(ctx, "worker shutdown complete")
}

func sweepSessions(ctx context.Context, sessions store.SessionStore) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessions.DeleteExpired(ctx); err != nil {
				slog.WarnContext(ctx, "failed to delete expired sessions", "error", err)
			}
		}
	}
}

const banner = `
 __  __ _____ __  __ ____  _____ ____    __        _____  ____  _  _______ ____
|  \/  | ____|  \/  | __ )| ____|  _ \   \ \      / / _ \|  _ \| |/ / ____|  _ \
| |\/| |  _| | |\/| |  _ \|  _| | |_) |   \ \ /\ / / | | | |_) | ' /|  _| | |_) |
| |  | | |___| |  | | |_) | |___|  _ <     \ V  V /| |_| |  _ <| . \| |___|  _ <
|_|  |_|_____|_|  |_|____/|_____|_| \_\     \_/\_/  \___/|_| \_\_|\_\_____|_| \_\
`
