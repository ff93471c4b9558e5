// Package worker builds reports in response to queued requests and keeps the
// sqlite archive in step with the configured statement source.
package worker

import (
	"context"
	"fmt"

	"vypiska/internal/amqp"
	"vypiska/internal/ledger"
	"vypiska/internal/log"
	"vypiska/internal/report"
	"vypiska/internal/storage"
)

// ReportWorker consumes report requests, builds the document and persists it
// in the archive.
type ReportWorker struct {
	reports *report.Service
	archive *storage.Repository
	logger  *log.Logger
}

func NewReportWorker(reports *report.Service, archive *storage.Repository, logger *log.Logger) *ReportWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ReportWorker{
		reports: reports,
		archive: archive,
		logger:  logger.WithComponent(log.ComponentWorker),
	}
}

// HandleReportRequest builds the requested report and saves its JSON payload.
func (w *ReportWorker) HandleReportRequest(ctx context.Context, msg *amqp.ReportRequest) error {
	w.logger.InfoContext(ctx, "processing report request",
		log.FieldReportID, msg.ID,
		log.FieldReportKind, msg.Kind,
		log.FieldReference, msg.Date)

	payload, err := w.Build(ctx, msg.Kind, msg.Date)
	if err != nil {
		return fmt.Errorf("build %s report: %w", msg.Kind, err)
	}

	record, err := w.archive.SaveReport(ctx, msg.Kind, msg.Date, payload)
	if err != nil {
		return fmt.Errorf("persist %s report: %w", msg.Kind, err)
	}

	w.logger.InfoContext(ctx, "report request done",
		log.FieldReportID, record.ID,
		log.FieldReportKind, record.Kind)
	return nil
}

// Build produces the encoded document for one report kind.
func (w *ReportWorker) Build(ctx context.Context, kind, date string) ([]byte, error) {
	var (
		doc any
		err error
	)
	switch kind {
	case report.KindHome:
		doc, err = w.reports.BuildHome(ctx, date)
	case report.KindWeekday:
		doc, err = w.reports.BuildWeekday(ctx, date)
	case report.KindTransfers:
		doc, err = w.reports.BuildTransfers(ctx, date)
	default:
		return nil, fmt.Errorf("unknown report kind: %s", kind)
	}
	if err != nil {
		return nil, err
	}
	return report.EncodeJSON(doc)
}

// Save persists an already-built report document.
func (w *ReportWorker) Save(ctx context.Context, kind, date string, payload []byte) (storage.ReportRecord, error) {
	return w.archive.SaveReport(ctx, kind, date, payload)
}

// ImportLedger copies the statement from the configured source into the
// archive, replacing whatever was imported before. It is the recovery path
// for working offline against the sqlite backend.
func (w *ReportWorker) ImportLedger(ctx context.Context, source ledger.Reader) (int, error) {
	table, err := source.Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("read statement source: %w", err)
	}
	if err := w.archive.ReplaceOperations(ctx, table); err != nil {
		return 0, fmt.Errorf("import statement: %w", err)
	}
	w.logger.InfoContext(ctx, "ledger imported", log.FieldRows, table.Len())
	return table.Len(), nil
}
