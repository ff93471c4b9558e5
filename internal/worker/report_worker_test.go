package worker

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vypiska/internal/amqp"
	"vypiska/internal/core"
	"vypiska/internal/ledger"
	"vypiska/internal/report"
	"vypiska/internal/storage"
)

func testTable() *core.Table {
	table := core.NewTable(core.StatementColumns())
	table.Append([]string{"21.12.2021 17:39:33", "*7197", "-160,89", "Супермаркеты", "Колхоз", "21.12.2021"})
	table.Append([]string{"20.12.2021 12:06:12", "", "5000,00", "Пополнения", "Перевод с карты", "20.12.2021"})
	return table
}

type staticQuotes struct{}

func (staticQuotes) Rates(ctx context.Context, symbols []string) ([]core.CurrencyRate, error) {
	return []core.CurrencyRate{}, nil
}

func (staticQuotes) Prices(ctx context.Context, symbols []string) ([]core.StockPrice, error) {
	return []core.StockPrice{}, nil
}

func newTestWorker(t *testing.T) (*ReportWorker, *storage.Repository) {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "archive.db"), nil)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	service := report.NewService(report.Options{
		Ledger:     ledger.NewStatic(testTable()),
		Currencies: staticQuotes{},
		Stocks:     staticQuotes{},
		Now: func() time.Time {
			return time.Date(2021, 12, 25, 10, 0, 0, 0, time.UTC)
		},
	})
	return NewReportWorker(service, repo, nil), repo
}

func TestHandleReportRequestPersistsDocument(t *testing.T) {
	w, repo := newTestWorker(t)
	ctx := context.Background()

	msg := amqp.NewReportRequest(report.KindHome, "2021-12-25 10:00:00")
	if err := w.HandleReportRequest(ctx, msg); err != nil {
		t.Fatalf("handle request: %v", err)
	}

	record, err := repo.LatestReport(ctx, report.KindHome)
	if err != nil {
		t.Fatalf("latest report: %v", err)
	}
	if record.ReferenceDate != "2021-12-25 10:00:00" {
		t.Fatalf("unexpected reference date: %q", record.ReferenceDate)
	}
	if !strings.Contains(record.Payload, `"greeting"`) || !strings.Contains(record.Payload, "7197") {
		t.Fatalf("payload misses expected fields: %s", record.Payload)
	}
}

func TestBuildUnknownKind(t *testing.T) {
	w, _ := newTestWorker(t)
	if _, err := w.Build(context.Background(), "yearly", ""); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestBuildWeekdayAndTransfers(t *testing.T) {
	w, _ := newTestWorker(t)
	ctx := context.Background()

	payload, err := w.Build(ctx, report.KindWeekday, "2021-12-25 10:00:00")
	if err != nil {
		t.Fatalf("build weekday: %v", err)
	}
	if !strings.Contains(string(payload), "Tuesday") {
		t.Fatalf("expected Tuesday in weekday report, got %s", payload)
	}

	payload, err = w.Build(ctx, report.KindTransfers, "")
	if err != nil {
		t.Fatalf("build transfers: %v", err)
	}
	if string(payload) != "[]" {
		t.Fatalf("expected empty transfers report, got %s", payload)
	}
}

func TestHandleReportRequestPropagatesBuildError(t *testing.T) {
	w, repo := newTestWorker(t)
	ctx := context.Background()

	msg := amqp.NewReportRequest(report.KindHome, "not-a-date")
	if err := w.HandleReportRequest(ctx, msg); err == nil {
		t.Fatalf("expected error for bad reference date")
	}
	if _, err := repo.LatestReport(ctx, report.KindHome); !errors.Is(err, storage.ErrNoReport) {
		t.Fatalf("expected no persisted report, got %v", err)
	}
}

func TestImportLedger(t *testing.T) {
	w, repo := newTestWorker(t)
	ctx := context.Background()

	n, err := w.ImportLedger(ctx, ledger.NewStatic(testTable()))
	if err != nil {
		t.Fatalf("import ledger: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 imported rows, got %d", n)
	}

	table, err := repo.Read(ctx)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 archived rows, got %d", table.Len())
	}
}
