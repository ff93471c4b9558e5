package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"vypiska/internal/amqp"
	"vypiska/internal/config"
	"vypiska/internal/ledger"
	applog "vypiska/internal/log"
	"vypiska/internal/quotes"
	"vypiska/internal/report"
	"vypiska/internal/settings"
	"vypiska/internal/storage"
	"vypiska/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, err := ledger.NewFromConfig(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize ledger", applog.FieldError, err)
		os.Exit(1)
	}
	if source.Cleanup != nil {
		defer source.Cleanup()
	}

	archive, err := storage.NewRepository(cfg.SQLiteDBPath, logger)
	if err != nil {
		logger.Error("failed to open report archive", applog.FieldError, err)
		os.Exit(1)
	}
	defer archive.Close()

	prefs, err := settings.Load(cfg.SettingsPath)
	if err != nil {
		logger.Error("failed to load user settings", applog.FieldError, err, "path", cfg.SettingsPath)
		os.Exit(1)
	}

	reports := report.NewService(report.Options{
		Ledger: source.Reader,
		Currencies: quotes.NewCurrencyClient(quotes.CurrencyConfig{
			APIKey:       cfg.CurrencyAPIKey,
			BaseURL:      cfg.CurrencyAPIURL,
			BaseCurrency: cfg.BaseCurrency,
			Logger:       logger,
		}),
		Stocks: quotes.NewStockClient(quotes.StockConfig{
			AccessKey: cfg.StockAPIKey,
			BaseURL:   cfg.StockAPIURL,
			Logger:    logger,
		}),
		UserCurrencies:   prefs.UserCurrencies,
		UserStocks:       prefs.UserStocks,
		TransferCategory: cfg.TransferCategory,
		Logger:           logger,
	})
	reportWorker := worker.NewReportWorker(reports, archive, logger)

	// Refresh the archived statement at startup so reports can run against
	// sqlite even when the live source goes away later.
	if cfg.LedgerBackend != "sqlite" {
		if n, err := reportWorker.ImportLedger(ctx, source.Reader); err != nil {
			logger.Warn("startup ledger import failed", applog.FieldError, err)
		} else {
			logger.Info("startup ledger import done", applog.FieldRows, n)
		}
	}

	queue, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer queue.Close()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return queue.ConsumeReportRequests(ctx, reportWorker.HandleReportRequest)
	})
	group.Go(func() error {
		<-ctx.Done()
		return ctx.Err()
	})

	logger.Info("worker started", "queue", cfg.AMQPQueue)
	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("worker stopped")
}
