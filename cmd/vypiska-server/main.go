package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"vypiska/internal/amqp"
	"vypiska/internal/config"
	apphttp "vypiska/internal/http"
	"vypiska/internal/ledger"
	applog "vypiska/internal/log"
	"vypiska/internal/quotes"
	"vypiska/internal/report"
	"vypiska/internal/settings"
	"vypiska/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx := context.Background()

	source, err := ledger.NewFromConfig(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize ledger", applog.FieldError, err)
		os.Exit(1)
	}
	if source.Cleanup != nil {
		defer source.Cleanup()
	}

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

	opts := apphttp.Options{
		Addr:    ":" + cfg.Port,
		Reports: reports,
		Logger:  logger,
	}

	// The archive and the queue are optional; their endpoints answer 503
	// when left unconfigured.
	if cfg.SQLiteDBPath != "" {
		archive, err := storage.NewRepository(cfg.SQLiteDBPath, logger)
		if err != nil {
			logger.Error("failed to open report archive", applog.FieldError, err)
			os.Exit(1)
		}
		defer archive.Close()
		opts.Archive = archive
	}
	if cfg.AMQPURL != "" {
		queue, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer queue.Close()
		opts.Publisher = queue
	}

	srv := apphttp.NewServer(opts)

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", applog.FieldError, err)
		}
	}()

	logger.Info("starting report server", "port", cfg.Port, applog.FieldBackend, cfg.LedgerBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", applog.FieldError, err)
		os.Exit(1)
	}

	<-shutdownDone
	logger.Info("server stopped")
}
