package ledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"vypiska/internal/core"
	"vypiska/internal/log"
)

// CSVReader loads a statement exported as CSV. The first row is the header;
// column names must match the statement schema. A missing file surfaces as
// an error wrapping fs.ErrNotExist.
type CSVReader struct {
	path   string
	logger *log.Logger
}

// NewCSVReader creates a reader for the given file path.
func NewCSVReader(path string, logger *log.Logger) *CSVReader {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &CSVReader{path: path, logger: logger.WithComponent(log.ComponentLedger)}
}

func (r *CSVReader) Read(ctx context.Context) (*core.Table, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open statement: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // exports occasionally carry ragged rows

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read statement %s: %w", r.path, err)
	}
	if len(records) == 0 {
		return core.NewTable(core.StatementColumns()), nil
	}

	table := core.NewTable(records[0])
	for _, row := range records[1:] {
		table.Append(row)
	}
	r.logger.InfoContext(ctx, "statement loaded", log.FieldRows, table.Len(), "path", r.path)
	return table, nil
}
