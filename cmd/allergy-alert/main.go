// cmd/allergy-alert/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/andrewmicrosoft/allergy-alert/internal/common/config"
	"github.com/andrewmicrosoft/allergy-alert/internal/common/database"
	"github.com/andrewmicrosoft/allergy-alert/internal/common/logger"
	"github.com/andrewmicrosoft/allergy-alert/internal/history"
	"github.com/andrewmicrosoft/allergy-alert/internal/intake"
	"github.com/andrewmicrosoft/allergy-alert/internal/llm"
	"github.com/andrewmicrosoft/allergy-alert/internal/lookup"
	"github.com/andrewmicrosoft/allergy-alert/internal/server"
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootstrap := logger.New("info", "console")
		bootstrap.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting allergy-alert service...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Storage and domain services ---
	historyStore := history.NewStore(pg.GetDB(), log)
	if err := historyStore.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("history schema migration failed", zap.Error(err))
	}

	profileStore := intake.NewRedisProfileStore(redis.GetClient())
	intakeSvc := intake.NewService(profileStore, log)

	// Model credential validation is deferred to the lookup path so the
	// service still serves profile intake when MODEL_API_KEY is absent.
	var completer llm.Completer
	modelCfg := llm.FromModelConfig(cfg.Model)
	modelClient, err := llm.NewClient(modelCfg, log)
	if err != nil {
		log.WithError(err).Warn("Classification model unavailable, lookups will fail fast", nil)
		completer = llm.Unconfigured(modelCfg)
	} else {
		completer = modelClient
	}

	lookupSvc := lookup.NewService(completer, profileStore, historyStore, log)

	srv := server.New(cfg.Server, server.Deps{
		Intake:   intakeSvc,
		Lookup:   lookupSvc,
		History:  historyStore,
		Redis:    redis,
		Postgres: pg,
		Logger:   log,
	})

	go func() {
		if err := srv.Start(); err != nil {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("allergy-alert service stopped")
}
