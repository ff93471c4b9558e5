// Package ledger loads the bank statement into the in-memory table the
// reports run over. Sources are pluggable: a Google Sheets spreadsheet, a
// local CSV export, the sqlite archive, or a static in-memory table.
package ledger

import (
	"context"

	"vypiska/internal/core"
)

// Reader loads the full statement table for one report invocation.
type Reader interface {
	Read(ctx context.Context) (*core.Table, error)
}

// Static is a Reader over a fixed table, used by tests and as the fallback
// backend for local runs without any configured source.
type Static struct {
	Table *core.Table
}

// NewStatic wraps a prebuilt table in a Reader.
func NewStatic(table *core.Table) *Static {
	return &Static{Table: table}
}

func (s *Static) Read(ctx context.Context) (*core.Table, error) {
	if s.Table == nil {
		return core.NewTable(core.StatementColumns()), nil
	}
	return s.Table, nil
}
