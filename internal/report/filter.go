package report

import (
	"time"

	"vypiska/internal/core"
)

// Window is an inclusive [Start, End] range used to select transactions.
type Window struct {
	Start time.Time
	End   time.Time
}

// ComputeWindow derives the selection window from a reference date. With
// months <= 1 the window opens at the start of the reference month; otherwise
// it opens the given number of calendar months before the reference date.
// The reference date itself is the inclusive end.
func ComputeWindow(reference time.Time, months int) Window {
	var start time.Time
	if months <= 1 {
		start = time.Date(reference.Year(), reference.Month(), 1, 0, 0, 0, 0, reference.Location())
	} else {
		start = reference.AddDate(0, -months, 0)
	}
	return Window{Start: start, End: reference}
}

// Contains reports whether ts falls inside the window, bounds included.
func (w Window) Contains(ts time.Time) bool {
	return !ts.Before(w.Start) && !ts.After(w.End)
}

// FilterByDateRange restricts the table to rows whose operation date falls
// inside the window derived from reference and months. Rows whose operation
// date is blank or unparseable are dropped, not treated as an error; row
// order is preserved and an empty result is a valid outcome.
func FilterByDateRange(table *core.Table, reference time.Time, months int) (*core.Table, error) {
	dateIdx, err := table.ColumnIndex(core.ColOperationDate)
	if err != nil {
		return nil, err
	}
	window := ComputeWindow(reference, months)
	return table.Select(func(i int) bool {
		ts, err := core.ParseOperationDate(table.Row(i)[dateIdx])
		if err != nil {
			return false
		}
		return window.Contains(ts)
	}), nil
}
