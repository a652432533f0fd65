package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qrbill/internal/billing"
	billinghandler "qrbill/internal/billing/handler"
	billingmetrics "qrbill/internal/billing/metrics"
	"qrbill/internal/billing/store"
	httpapi "qrbill/internal/http"
	"qrbill/internal/platform/config"
	"qrbill/internal/platform/httpserver"
	"qrbill/internal/platform/logger"
	"qrbill/internal/platform/metrics"
	"qrbill/internal/platform/postgres"
	"qrbill/internal/platform/redis"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/billing.
func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	billStore, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore.Close(); err != nil {
			log.Error("close store", "error", err)
		}
	}()

	appMetrics := metrics.New()
	service := billing.NewService(billStore,
		billing.WithLogger(log),
		billing.WithMetrics(billingmetrics.New(appMetrics.Registry)),
		billing.WithBatchLimits(cfg.BatchLimit, cfg.BatchConcurrency),
	)
	handler := billinghandler.New(service, log, cfg.CharacterSet)
	router := httpapi.NewRouter(appMetrics, handler)

	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting qrbill server", "addr", cfg.Addr, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStore selects the issued bill backend.
func openStore(ctx context.Context, cfg config.Server) (billing.Store, io.Closer, error) {
	switch cfg.Store {
	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store.NewPostgresStore(db), db, nil
	case config.StoreRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedisStore(client.Client, cfg.BillTTL), client, nil
	default:
		return store.NewInMemoryStore(), nopCloser{}, nil
	}
}
