package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/config"
	apphttp "fintrack/internal/http"
	"fintrack/internal/ids"
	applog "fintrack/internal/log"
	"fintrack/internal/store"
)

const (
	shutdownTimeout = 30 * time.Second
	amqpAttempts    = 5
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	cfg, logger := cli.LoadAndValidateConfig()
	logger.Info("Starting fintrack", "port", cfg.Port, applog.FieldBackend, cfg.DataBackend)

	ctx, cancel := cli.ShutdownContext(context.Background(), logger)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("fintrack stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *applog.Logger) error {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return fmt.Errorf("create %s backend: %w", backendCfg.Type, err)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", applog.FieldError, err)
		}
	}()

	// Change notifications are best effort; the API runs without a broker.
	var notifier store.Notifier
	if cfg.AMQPURL != "" {
		client, err := amqp.Connect(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, amqpAttempts)
		if err != nil {
			logger.Warn("AMQP unavailable, change notifications disabled", applog.FieldError, err)
		} else {
			defer client.Close()
			notifier = client
			logger.Info("Publishing change notifications", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	// store.Config treats zero retries as "use the default"
	retries := cfg.SaveRetries
	if retries == 0 {
		retries = -1
	}
	st, err := store.New(ctx, result.Persister, store.Config{
		SaveRetries: retries,
		RetryDelay:  cfg.SaveRetryDelay,
		Notifier:    notifier,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		Store:              st,
		IDs:                ids.UUID{},
		Ready:              result.Ready,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
