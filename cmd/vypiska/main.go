package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

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
	// Load .env for local development; absence is fine.
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

	// The archive is optional for the CLI: without it reports are only
	// printed, with it every build is also persisted.
	var builder *worker.ReportWorker
	if cfg.SQLiteDBPath != "" {
		archive, err := storage.NewRepository(cfg.SQLiteDBPath, logger)
		if err != nil {
			logger.Error("failed to open report archive", applog.FieldError, err)
			os.Exit(1)
		}
		defer archive.Close()
		builder = worker.NewReportWorker(reports, archive, logger)
	}

	if err := run(ctx, os.Stdin, os.Stdout, reports, builder); err != nil {
		logger.Error("report build failed", applog.FieldError, err)
		os.Exit(1)
	}
}

// run drives the interactive menu: pick a report, optionally give a
// reference date, print the document.
func run(ctx context.Context, in *os.File, out *os.File, reports *report.Service, builder *worker.ReportWorker) error {
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, "Выберите отчёт:")
	fmt.Fprintln(out, "1. Главная страница")
	fmt.Fprintln(out, "2. Траты по дням недели")
	fmt.Fprintln(out, "3. Переводы физическим лицам")
	fmt.Fprint(out, "> ")

	choice := readLine(scanner)
	kind, ok := map[string]string{
		"1": report.KindHome,
		"2": report.KindWeekday,
		"3": report.KindTransfers,
	}[choice]
	if !ok {
		return fmt.Errorf("unknown choice: %q", choice)
	}

	fmt.Fprint(out, "Дата отчёта (ГГГГ-ММ-ДД ЧЧ:ММ:СС, пусто = сейчас): ")
	date := readLine(scanner)

	var payload []byte
	var err error
	if builder != nil {
		payload, err = builder.Build(ctx, kind, date)
		if err == nil {
			if _, saveErr := builder.Save(ctx, kind, date, payload); saveErr != nil {
				return saveErr
			}
		}
	} else {
		payload, err = buildOnly(ctx, reports, kind, date)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, string(payload))
	return nil
}

func buildOnly(ctx context.Context, reports *report.Service, kind, date string) ([]byte, error) {
	var doc any
	var err error
	switch kind {
	case report.KindHome:
		doc, err = reports.BuildHome(ctx, date)
	case report.KindWeekday:
		doc, err = reports.BuildWeekday(ctx, date)
	default:
		doc, err = reports.BuildTransfers(ctx, date)
	}
	if err != nil {
		return nil, err
	}
	return report.EncodeJSON(doc)
}

func readLine(scanner *bufio.Scanner) string {
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}
