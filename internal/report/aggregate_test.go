package report

import (
	"errors"
	"math"
	"testing"

	"vypiska/internal/core"
)

func TestCardSummaries(t *testing.T) {
	summaries, err := CardSummaries(statementFixture())
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	want := []core.CardSummary{
		{LastDigits: "5091", TotalSpent: 645.78, Cashback: 6.46},
		{LastDigits: "7197", TotalSpent: 1749.25, Cashback: 17.49},
	}
	if len(summaries) != len(want) {
		t.Fatalf("expected %d cards, got %d: %+v", len(want), len(summaries), summaries)
	}
	for i, w := range want {
		if summaries[i] != w {
			t.Fatalf("card %d: expected %+v, got %+v", i, w, summaries[i])
		}
	}
}

func TestCardSummariesCashbackDerivation(t *testing.T) {
	summaries, err := CardSummaries(statementFixture())
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	for _, s := range summaries {
		// cashback = round(total_spent / 100, 2), exactly.
		if want := math.Round(s.TotalSpent) / 100; s.Cashback != want {
			t.Fatalf("cashback for %+v: expected %v", s, want)
		}
	}
}

func TestCardSummariesDropsBlankCards(t *testing.T) {
	table := core.NewTable([]string{core.ColCardNumber, core.ColAmount})
	table.Append([]string{"", "-100"})
	table.Append([]string{"*1234", "-50"})
	table.Append([]string{"*1234", "200"}) // income, not counted
	summaries, err := CardSummaries(table)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 card, got %d", len(summaries))
	}
	if summaries[0].LastDigits != "1234" || summaries[0].TotalSpent != 50 || summaries[0].Cashback != 0.5 {
		t.Fatalf("unexpected summary: %+v", summaries[0])
	}
}

func TestCardSummariesMissingColumn(t *testing.T) {
	table := core.NewTable([]string{core.ColAmount})
	_, err := CardSummaries(table)
	var missing *core.MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
}

func TestCardSummariesEmptyTable(t *testing.T) {
	summaries, err := CardSummaries(core.NewTable(core.StatementColumns()))
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("expected empty result, got %+v", summaries)
	}
}

func TestTopTransactions(t *testing.T) {
	top, err := TopTransactions(statementFixture(), 5)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	wantAmounts := []float64{5000, -1588.36, -645.78, -160.89, 23.6}
	if len(top) != len(wantAmounts) {
		t.Fatalf("expected %d transactions, got %d", len(wantAmounts), len(top))
	}
	for i, want := range wantAmounts {
		if top[i].Amount != want {
			t.Fatalf("position %d: expected %v, got %v", i, want, top[i].Amount)
		}
	}
	if top[0].Category != "Развлечения" || top[0].Date != "20.12.2021" {
		t.Fatalf("unexpected top transaction: %+v", top[0])
	}
}

func TestTopTransactionsStableTies(t *testing.T) {
	table := core.NewTable(core.StatementColumns())
	table.Append([]string{"01.12.2021 10:00:00", "*1111", "-100", "A", "first", "01.12.2021"})
	table.Append([]string{"02.12.2021 10:00:00", "*1111", "100", "B", "second", "02.12.2021"})
	table.Append([]string{"03.12.2021 10:00:00", "*1111", "-100", "C", "third", "03.12.2021"})
	top, err := TopTransactions(table, 3)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	wantOrder := []string{"first", "second", "third"}
	for i, want := range wantOrder {
		if top[i].Description != want {
			t.Fatalf("position %d: expected %q, got %q", i, want, top[i].Description)
		}
	}
}

func TestTopTransactionsFillsPlaceholders(t *testing.T) {
	table := core.NewTable(core.StatementColumns())
	table.Append([]string{"01.12.2021 10:00:00", "*1111", "", "", "", ""})
	top, err := TopTransactions(table, 5)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(top) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(top))
	}
	tx := top[0]
	if tx.Date != "unknown" || tx.Category != "no category" || tx.Description != "no description" || tx.Amount != 0 {
		t.Fatalf("unexpected placeholders: %+v", tx)
	}
}

func TestTopTransactionsShortTable(t *testing.T) {
	table := core.NewTable(core.StatementColumns())
	table.Append([]string{"01.12.2021 10:00:00", "*1111", "-5", "A", "only", "01.12.2021"})
	top, err := TopTransactions(table, 5)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(top) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(top))
	}
}

func TestAverageSpendByWeekdayThreeMonthWindow(t *testing.T) {
	filtered, err := FilterByDateRange(statementFixture(), mustRef(t, "2022-01-21 17:39:33"), 3)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	spending, err := AverageSpendByWeekday(filtered)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	want := []core.WeekdaySpend{
		{Weekday: "Friday", Spending: 645.78},
		{Weekday: "Tuesday", Spending: 160.89},
	}
	if len(spending) != len(want) {
		t.Fatalf("expected %d weekdays, got %d: %+v", len(want), len(spending), spending)
	}
	for i, w := range want {
		if spending[i] != w {
			t.Fatalf("weekday %d: expected %+v, got %+v", i, w, spending[i])
		}
	}
}

func TestAverageSpendByWeekdayFutureWindow(t *testing.T) {
	// A 3-month window ending late 2024 keeps only the September 2024 row.
	filtered, err := FilterByDateRange(statementFixture(), mustRef(t, "2024-10-01 00:00:00"), 3)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	spending, err := AverageSpendByWeekday(filtered)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	want := []core.WeekdaySpend{{Weekday: "Sunday", Spending: 1588.36}}
	if len(spending) != 1 || spending[0] != want[0] {
		t.Fatalf("expected %+v, got %+v", want, spending)
	}
}

func TestAverageSpendByWeekdayMeans(t *testing.T) {
	table := core.NewTable([]string{core.ColOperationDate, core.ColAmount})
	table.Append([]string{"06.12.2021 10:00:00", "-100"}) // Monday
	table.Append([]string{"13.12.2021 10:00:00", "-50"})  // Monday
	table.Append([]string{"07.12.2021 10:00:00", "900"})  // Tuesday, income
	spending, err := AverageSpendByWeekday(table)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(spending) != 1 {
		t.Fatalf("expected Monday only, got %+v", spending)
	}
	if spending[0].Weekday != "Monday" || spending[0].Spending != 75 {
		t.Fatalf("unexpected mean: %+v", spending[0])
	}
}

func TestAverageSpendByWeekdayMissingColumn(t *testing.T) {
	table := core.NewTable([]string{core.ColOperationDate})
	_, err := AverageSpendByWeekday(table)
	var missing *core.MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if missing.Column != core.ColAmount {
		t.Fatalf("expected %q, got %q", core.ColAmount, missing.Column)
	}
}
