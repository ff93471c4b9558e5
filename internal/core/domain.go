package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Column names of the bank statement export. Readers are expected to deliver
// these exact headers; everything downstream looks columns up by name.
const (
	ColOperationDate = "operation date"
	ColCardNumber    = "card number"
	ColAmount        = "payment amount"
	ColCategory      = "category"
	ColDescription   = "description"
	ColPaymentDate   = "payment date"
)

// Textual date layouts used by the statement export and by user input.
const (
	OperationDateLayout = "02.01.2006 15:04:05"
	PaymentDateLayout   = "02.01.2006"
	ReferenceDateLayout = "2006-01-02 15:04:05"
)

type (
	// Table is an ordered, column-named view over the raw statement rows.
	// Row order is source order; there is no uniqueness constraint. A Table
	// is built once per report invocation and discarded afterwards.
	Table struct {
		columns []string
		index   map[string]int
		rows    [][]string
	}

	// Transaction is the typed view of a single statement row. Optional
	// fields keep their raw string form.
	Transaction struct {
		OperationDate time.Time
		PaymentDate   string
		CardNumber    string
		Amount        decimal.Decimal
		Category      string
		Description   string
	}
)

// NewTable creates an empty table with the given column order.
func NewTable(columns []string) *Table {
	index := make(map[string]int, len(columns))
	cols := make([]string, len(columns))
	for i, c := range columns {
		c = strings.TrimSpace(c)
		cols[i] = c
		index[strings.ToLower(c)] = i
	}
	return &Table{columns: cols, index: index}
}

// StatementColumns returns the full column set of a statement export in its
// canonical order.
func StatementColumns() []string {
	return []string{
		ColOperationDate,
		ColCardNumber,
		ColAmount,
		ColCategory,
		ColDescription,
		ColPaymentDate,
	}
}

// Append adds a row, padding or truncating it to the column count.
func (t *Table) Append(row []string) {
	r := make([]string, len(t.columns))
	copy(r, row)
	t.rows = append(t.rows, r)
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return t.columns
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the raw cells of row i.
func (t *Table) Row(i int) []string {
	return t.rows[i]
}

// ColumnIndex resolves a column name (case-insensitive) to its position.
// A missing column is reported as *MissingColumnError.
func (t *Table) ColumnIndex(name string) (int, error) {
	if i, ok := t.index[strings.ToLower(name)]; ok {
		return i, nil
	}
	return 0, &MissingColumnError{Column: name}
}

// Value returns the trimmed cell at row i for the named column.
func (t *Table) Value(i int, column string) (string, error) {
	idx, err := t.ColumnIndex(column)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(t.rows[i][idx]), nil
}

// Select returns a new table containing the rows for which keep returns
// true, preserving the original order. The column layout is shared.
func (t *Table) Select(keep func(i int) bool) *Table {
	out := &Table{columns: t.columns, index: t.index}
	for i := range t.rows {
		if keep(i) {
			out.rows = append(out.rows, t.rows[i])
		}
	}
	return out
}

// Records renders the table as a list of column->value maps, the shape the
// report JSON uses for raw transaction listings. The amount column is emitted
// as a number when it parses.
func (t *Table) Records() []map[string]any {
	records := make([]map[string]any, 0, len(t.rows))
	for _, row := range t.rows {
		rec := make(map[string]any, len(t.columns))
		for i, col := range t.columns {
			v := strings.TrimSpace(row[i])
			if strings.EqualFold(col, ColAmount) {
				if d, err := ParseAmount(v); err == nil {
					rec[col] = d.InexactFloat64()
					continue
				}
			}
			rec[col] = v
		}
		records = append(records, rec)
	}
	return records
}

/// ParseOperationDate parses the "operation date" cell (DD.MM.YYYY HH:MM:SS).
func ParseOperationDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	ts, err := time.Parse(OperationDateLayout, s)
	if err != nil {
		return time.Time{}, &ParseError{Value: s, Layout: OperationDateLayout}
	}
	return ts, nil
}

// ParseReferenceDate parses user-supplied reference dates (YYYY-MM-DD HH:MM:SS).
func ParseReferenceDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	ts, err := time.Parse(ReferenceDateLayout, s)
	if err != nil {
		return time.Time{}, &ParseError{Value: s, Layout: ReferenceDateLayout}
	}
	return ts, nil
}
