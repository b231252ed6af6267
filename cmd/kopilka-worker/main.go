package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"kopilka/internal/config"
	"kopilka/internal/events"
	"kopilka/internal/export"
	"kopilka/internal/worker"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using environment")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Sheet export is optional; without it the worker is an audit logger.
	var exporter worker.Exporter
	if cfg.GoogleSpreadsheetID != "" {
		sheets, err := export.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize sheet exporter", "error", err)
			os.Exit(1)
		}
		exporter = sheets
		logger.Info("Sheet export enabled", "sheet", cfg.GoogleSheetName)
	}

	w := worker.NewTransactionWorker(exporter)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.ConsumeTransactions(ctx, func(msg *events.TransactionMessage) error {
			return w.HandleTransaction(ctx, msg)
		})
	})

	logger.Info("Worker started", "queue", cfg.AMQPQueue)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
