// cmd/activity-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"activity-signup/internal/common/aws"
	"activity-signup/internal/common/config"
	"activity-signup/internal/common/database"
	"activity-signup/internal/common/events"
	"activity-signup/internal/common/logger"
	"activity-signup/internal/common/observability"
	"activity-signup/internal/handlers/activities"
	"activity-signup/internal/server"
	"activity-signup/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"app":     cfg.App.Name,
		"version": cfg.App.Version,
	})
	zapLog.Info("Starting activity server...", zap.String("environment", cfg.App.Environment))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}
	defer obs.Shutdown(context.Background())

	// --- Registry ---
	seed := registry.DefaultSeed()
	if cfg.Registry.SeedPath != "" {
		seed, err = registry.LoadSeed(cfg.Registry.SeedPath)
		if err != nil {
			zapLog.Fatal("seed load failed", zap.String("path", cfg.Registry.SeedPath), zap.Error(err))
		}
	}
	reg, err := registry.New(seed, registry.WithDuplicateRejection(cfg.Registry.RejectDuplicates))
	if err != nil {
		zapLog.Fatal("registry init failed", zap.Error(err))
	}
	zapLog.Info("Registry seeded",
		zap.Int("activities", len(seed)),
		zap.Bool("rejectDuplicates", cfg.Registry.RejectDuplicates),
	)

	// --- Event sinks ---
	var sinks []events.Sink

	if cfg.Events.Redis.Enabled {
		redis := database.NewRedis(cfg.Events.Redis)
		err = retryWithBackoff(func() error {
			return redis.Ping(ctx)
		}, 5, time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		sinks = append(sinks, events.NewRedisStreamSink(redis, cfg.Events.Redis.Stream, cfg.Events.Redis.MaxLen))
		zapLog.Info("Redis event stream enabled", zap.String("stream", cfg.Events.Redis.Stream))
	}

	if cfg.Events.Email.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Events.Email.Region, cfg.Events.Email.FromEmail)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
		sinks = append(sinks, events.NewEmailSink(sesClient))
		zapLog.Info("Confirmation emails enabled", zap.String("from", cfg.Events.Email.FromEmail))
	}

	handlerCfg := activities.LoadConfig()
	dispatcher := events.NewDispatcher(log, handlerCfg.EventTimeout, sinks...)

	// --- HTTP ---
	handler := activities.NewHandler(handlerCfg, reg, dispatcher, obs, log)
	srv := server.New(cfg.Server, log, handler)

	runErr := srv.Run(ctx)

	drainCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := dispatcher.Wait(drainCtx); err != nil {
		zapLog.Warn("pending events dropped at shutdown", zap.Error(err))
	}

	if runErr != nil {
		zapLog.Error("server stopped with error", zap.Error(runErr))
		return
	}

	zapLog.Info("Activity server stopped gracefully")
}
