package ledger

import (
	"context"
	"fmt"

	"vypiska/internal/config"
	"vypiska/internal/core"
	"vypiska/internal/ledger/sheets"
	"vypiska/internal/log"
	"vypiska/internal/storage"
)

// Backend names a statement source.
type Backend string

const (
	SheetsBackend Backend = "sheets"
	SQLiteBackend Backend = "sqlite"
	CSVBackend    Backend = "csv"
	MemoryBackend Backend = "memory"
)

// IsValid reports whether the backend name is known.
func (b Backend) IsValid() bool {
	switch b {
	case SheetsBackend, SQLiteBackend, CSVBackend, MemoryBackend:
		return true
	}
	return false
}

// Backends lists every valid backend name.
func Backends() []Backend {
	return []Backend{SheetsBackend, SQLiteBackend, CSVBackend, MemoryBackend}
}

// CleanupFunc releases whatever the backend holds open.
type CleanupFunc func() error

// Result carries a constructed reader and its optional cleanup.
type Result struct {
	Reader  Reader
	Cleanup CleanupFunc
}

// NewFromConfig builds the configured statement reader. Sheets and CSV
// readers are wrapped in the TTL cache so several reports in one session
// read the source once.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	backend := Backend(cfg.LedgerBackend)
	if !backend.IsValid() {
		return nil, fmt.Errorf("invalid ledger backend: %s", cfg.LedgerBackend)
	}

	switch backend {
	case SheetsBackend:
		client, err := sheets.New(ctx, sheets.Config{
			SpreadsheetID: cfg.GoogleSpreadsheetID,
			SheetName:     cfg.GoogleSheetName,
			Logger:        logger,
		})
		if err != nil {
			return nil, fmt.Errorf("initialize sheets ledger: %w", err)
		}
		logger.Info("initialized sheets ledger", log.FieldBackend, backend)
		return &Result{Reader: NewCached(client, cfg.LedgerCacheTTL)}, nil

	case SQLiteBackend:
		repo, err := storage.NewRepository(cfg.SQLiteDBPath, logger)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite ledger: %w", err)
		}
		logger.Info("initialized sqlite ledger", log.FieldBackend, backend, "db_path", cfg.SQLiteDBPath)
		return &Result{Reader: repo, Cleanup: repo.Close}, nil

	case CSVBackend:
		logger.Info("initialized csv ledger", log.FieldBackend, backend, "path", cfg.StatementPath)
		return &Result{Reader: NewCached(NewCSVReader(cfg.StatementPath, logger), cfg.LedgerCacheTTL)}, nil

	default: // MemoryBackend
		logger.Info("initialized memory ledger", log.FieldBackend, backend)
		return &Result{Reader: NewStatic(core.NewTable(core.StatementColumns()))}, nil
	}
}
