package sheets

import (
	"context"
	"testing"
)

func TestNewRequiresSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if err == nil {
		t.Fatalf("expected error without spreadsheet ID")
	}
}

func TestToStrings(t *testing.T) {
	got := toStrings([]interface{}{" 21.12.2021 17:39:33 ", 5000, "*7197"})
	want := []string{"21.12.2021 17:39:33", "5000", "*7197"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cell %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBlank(t *testing.T) {
	if !blank([]string{"", "", ""}) {
		t.Fatalf("all-empty row should be blank")
	}
	if blank([]string{"", "x", ""}) {
		t.Fatalf("row with content should not be blank")
	}
}
