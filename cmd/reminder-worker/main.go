package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"bilancio/internal/amqp"
	"bilancio/internal/config"
	"bilancio/internal/log"
	"bilancio/internal/metrics"
	"bilancio/internal/services"
	"bilancio/internal/storage"
	"bilancio/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger := log.New(log.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		Component: log.ComponentWorker,
	})
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open database", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The broker is optional: without it the worker still records runs, so
	// the evaluation history stays correct and publishing resumes when the
	// broker comes back on the next restart.
	var publisher services.ReminderPublisher
	client, err := amqp.DialWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, 5)
	if err != nil {
		logger.Warn("AMQP unavailable, reminders will not be published", log.FieldError, err)
	} else {
		defer client.Close()
		publisher = client
	}

	m := metrics.New()
	reminders := services.NewReminderService(repo, repo, repo, publisher, cfg.LookaheadDays)
	loop := worker.NewReminderWorker(reminders, m, logger, cfg.ReminderCallerKey, cfg.ReminderInterval)

	// Expose the worker's own counters; the API server has its own registry.
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	metricsSrv := &http.Server{Addr: ":" + cfg.Port, Handler: mux}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return metricsSrv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return loop.Run(gctx)
	})
	if client != nil {
		closed := client.NotifyClose()
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case amqpErr, ok := <-closed:
				if !ok || amqpErr == nil {
					// Clean close during shutdown.
					return nil
				}
				return fmt.Errorf("amqp connection lost: %w", amqpErr)
			}
		})
	}

	logger.Info("Reminder worker started",
		log.FieldCallerKey, cfg.ReminderCallerKey,
		"interval", cfg.ReminderInterval.String())

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
