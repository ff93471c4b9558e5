// Package storage keeps the sqlite archive: a local copy of the statement
// rows and every report document that was persisted.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"vypiska/internal/core"
	"vypiska/internal/log"
)

// ErrNoReport is returned when no persisted report matches the query.
var ErrNoReport = errors.New("no report found")

// ReportRecord is one persisted report document.
type ReportRecord struct {
	ID            string
	Kind          string
	ReferenceDate string
	Payload       string
	CreatedAt     time.Time
}

// Repository is the sqlite-backed archive. It doubles as a ledger reader
// over the imported operations.
type Repository struct {
	db     *sql.DB
	logger *log.Logger
}

// NewRepository opens (and migrates) the archive at dbPath.
func NewRepository(dbPath string, logger *log.Logger) (*Repository, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, logger: logger.WithComponent(log.ComponentStorage)}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Read implements ledger.Reader over the imported operations, preserving
// their original export order.
func (r *Repository) Read(ctx context.Context) (*core.Table, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT operation_date, card_number, payment_amount, category, description, payment_date
		FROM operations
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer rows.Close()

	table := core.NewTable(core.StatementColumns())
	for rows.Next() {
		cells := make([]string, 6)
		if err := rows.Scan(&cells[0], &cells[1], &cells[2], &cells[3], &cells[4], &cells[5]); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		table.Append(cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operations: %w", err)
	}
	return table, nil
}

// ReplaceOperations swaps the archived statement for the given table in one
// transaction, keeping row order via an explicit position column.
func (r *Repository) ReplaceOperations(ctx context.Context, table *core.Table) error {
	indices := make([]int, 0, 6)
	for _, col := range core.StatementColumns() {
		idx, err := table.ColumnIndex(col)
		if err != nil {
			return err
		}
		indices = append(indices, idx)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM operations`); err != nil {
		return fmt.Errorf("clear operations: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO operations (position, operation_date, card_number, payment_amount, category, description, payment_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < table.Len(); i++ {
		row := table.Row(i)
		if _, err := stmt.ExecContext(ctx, i,
			row[indices[0]], row[indices[1]], row[indices[2]],
			row[indices[3]], row[indices[4]], row[indices[5]]); err != nil {
			return fmt.Errorf("insert operation %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	r.logger.InfoContext(ctx, "statement imported", log.FieldRows, table.Len())
	return nil
}

// SaveReport persists one built report document and returns its record.
func (r *Repository) SaveReport(ctx context.Context, kind, referenceDate string, payload []byte) (ReportRecord, error) {
	record := ReportRecord{
		ID:            uuid.NewString(),
		Kind:          kind,
		ReferenceDate: referenceDate,
		Payload:       string(payload),
		CreatedAt:     time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reports (id, kind, reference_date, payload, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		record.ID, record.Kind, record.ReferenceDate, record.Payload, record.CreatedAt)
	if err != nil {
		return ReportRecord{}, fmt.Errorf("insert report: %w", err)
	}

	r.logger.InfoContext(ctx, "report persisted",
		log.FieldReportID, record.ID,
		log.FieldReportKind, record.Kind,
		log.FieldReference, record.ReferenceDate)
	return record, nil
}

// LatestReport returns the most recently persisted report of the given kind.
func (r *Repository) LatestReport(ctx context.Context, kind string) (ReportRecord, error) {
	var record ReportRecord
	err := r.db.QueryRowContext(ctx, `
		SELECT id, kind, reference_date, payload, created_at
		FROM reports
		WHERE kind = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, kind).
		Scan(&record.ID, &record.Kind, &record.ReferenceDate, &record.Payload, &record.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ReportRecord{}, ErrNoReport
	}
	if err != nil {
		return ReportRecord{}, fmt.Errorf("query latest report: %w", err)
	}
	return record, nil
}

// ListReports returns up to limit persisted reports of one kind, newest
// first.
func (r *Repository) ListReports(ctx context.Context, kind string, limit int) ([]ReportRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, reference_date, payload, created_at
		FROM reports
		WHERE kind = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var records []ReportRecord
	for rows.Next() {
		var record ReportRecord
		if err := rows.Scan(&record.ID, &record.Kind, &record.ReferenceDate, &record.Payload, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
