package core

import (
	"errors"
	"testing"
	"time"
)

func TestColumnIndex(t *testing.T) {
	tbl := NewTable([]string{ColOperationDate, ColAmount})
	if i, err := tbl.ColumnIndex("Payment Amount"); err != nil || i != 1 {
		t.Fatalf("expected index 1, got %d (%v)", i, err)
	}

	_, err := tbl.ColumnIndex(ColCategory)
	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if missing.Column != ColCategory {
		t.Fatalf("expected column %q in error, got %q", ColCategory, missing.Column)
	}
}

func TestAppendPadsRows(t *testing.T) {
	tbl := NewTable(StatementColumns())
	tbl.Append([]string{"21.12.2021 01:06:22", "*7197"})
	if tbl.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", tbl.Len())
	}
	if got := len(tbl.Row(0)); got != len(StatementColumns()) {
		t.Fatalf("expected padded row of %d cells, got %d", len(StatementColumns()), got)
	}
	v, err := tbl.Value(0, ColDescription)
	if err != nil || v != "" {
		t.Fatalf("expected empty description, got %q (%v)", v, err)
	}
}

func TestSelectPreservesOrder(t *testing.T) {
	tbl := NewTable([]string{ColDescription})
	for _, d := range []string{"a", "b", "c", "d"} {
		tbl.Append([]string{d})
	}
	sub := tbl.Select(func(i int) bool { return i%2 == 0 })
	if sub.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", sub.Len())
	}
	if sub.Row(0)[0] != "a" || sub.Row(1)[0] != "c" {
		t.Fatalf("unexpected rows: %v %v", sub.Row(0), sub.Row(1))
	}
}

func TestRecordsEmitsNumericAmount(t *testing.T) {
	tbl := NewTable([]string{ColAmount, ColDescription})
	tbl.Append([]string{"-160.89", "Дмитрий Р."})
	recs := tbl.Records()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if got, ok := recs[0][ColAmount].(float64); !ok || got != -160.89 {
		t.Fatalf("expected -160.89 as float64, got %#v", recs[0][ColAmount])
	}
	if recs[0][ColDescription] != "Дмитрий Р." {
		t.Fatalf("unexpected description: %#v", recs[0][ColDescription])
	}
}

func TestParseOperationDate(t *testing.T) {
	ts, err := ParseOperationDate("21.12.2021 01:06:22")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	want := time.Date(2021, 12, 21, 1, 6, 22, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("expected %v, got %v", want, ts)
	}

	_, err = ParseOperationDate("2021-12-21")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestParseReferenceDate(t *testing.T) {
	if _, err := ParseReferenceDate("2022-01-21 17:39:33"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if _, err := ParseReferenceDate("21.01.2022"); err == nil {
		t.Fatalf("expected error for wrong layout")
	}
}
