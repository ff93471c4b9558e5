package report

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"vypiska/internal/core"
)

// Placeholder values for incomplete rows in the top-transactions listing.
const (
	noCategory    = "no category"
	noDescription = "no description"
	unknownDate   = "unknown"
)

var hundred = decimal.NewFromInt(100)

// CardSummaries groups expense rows (negative amounts) by card number and
// returns the total spent and cashback per card, sorted ascending by card
// number. Rows without a card number are dropped; positive amounts do not
// count, cashback is only meaningful on spend.
func CardSummaries(table *core.Table) ([]core.CardSummary, error) {
	cardIdx, err := table.ColumnIndex(core.ColCardNumber)
	if err != nil {
		return nil, err
	}
	amountIdx, err := table.ColumnIndex(core.ColAmount)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for i := 0; i < table.Len(); i++ {
		row := table.Row(i)
		card := strings.TrimSpace(row[cardIdx])
		if card == "" {
			continue
		}
		amount, err := core.ParseAmount(row[amountIdx])
		if err != nil || amount.Sign() >= 0 {
			continue
		}
		totals[card] = totals[card].Add(amount)
	}

	cards := make([]string, 0, len(totals))
	for card := range totals {
		cards = append(cards, card)
	}
	sort.Strings(cards)

	summaries := make([]core.CardSummary, 0, len(cards))
	for _, card := range cards {
		spent := totals[card].Abs()
		summaries = append(summaries, core.CardSummary{
			LastDigits: strings.TrimPrefix(card, "*"),
			TotalSpent: core.Round2(spent),
			Cashback:   core.Round2(spent.Div(hundred)),
		})
	}
	return summaries, nil
}

// TopTransactions returns the n transactions with the greatest absolute
// amount. Missing cells are filled with placeholders before ranking, the
// sort is stable so ties keep their source order, and the emitted amount
// keeps its original sign.
func TopTransactions(table *core.Table, n int) ([]core.TopTransaction, error) {
	amountIdx, err := table.ColumnIndex(core.ColAmount)
	if err != nil {
		return nil, err
	}
	categoryIdx, err := table.ColumnIndex(core.ColCategory)
	if err != nil {
		return nil, err
	}
	descriptionIdx, err := table.ColumnIndex(core.ColDescription)
	if err != nil {
		return nil, err
	}
	paymentIdx, err := table.ColumnIndex(core.ColPaymentDate)
	if err != nil {
		return nil, err
	}

	type entry struct {
		tx  core.TopTransaction
		abs decimal.Decimal
	}
	entries := make([]entry, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		row := table.Row(i)
		amount := decimal.Zero
		if d, err := core.ParseAmount(row[amountIdx]); err == nil {
			amount = d
		}
		tx := core.TopTransaction{
			Date:        strings.TrimSpace(row[paymentIdx]),
			Amount:      core.Round2(amount),
			Category:    strings.TrimSpace(row[categoryIdx]),
			Description: strings.TrimSpace(row[descriptionIdx]),
		}
		if tx.Date == "" {
			tx.Date = unknownDate
		}
		if tx.Category == "" {
			tx.Category = noCategory
		}
		if tx.Description == "" {
			tx.Description = noDescription
		}
		entries = append(entries, entry{tx: tx, abs: amount.Abs()})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].abs.GreaterThan(entries[j].abs)
	})
	if n > len(entries) {
		n = len(entries)
	}
	top := make([]core.TopTransaction, 0, n)
	for _, e := range entries[:n] {
		top = append(top, e.tx)
	}
	return top, nil
}

// AverageSpendByWeekday computes the mean expense per weekday over the
// expense rows (negative amounts). Weekday names come from the operation
// date; rows with unparseable dates or amounts are skipped. The result is
// sorted by weekday name and omits weekdays with no expense rows.
func AverageSpendByWeekday(table *core.Table) ([]core.WeekdaySpend, error) {
	dateIdx, err := table.ColumnIndex(core.ColOperationDate)
	if err != nil {
		return nil, err
	}
	amountIdx, err := table.ColumnIndex(core.ColAmount)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]decimal.Decimal)
	counts := make(map[string]int64)
	for i := 0; i < table.Len(); i++ {
		row := table.Row(i)
		ts, err := core.ParseOperationDate(row[dateIdx])
		if err != nil {
			continue
		}
		amount, err := core.ParseAmount(row[amountIdx])
		if err != nil || amount.Sign() >= 0 {
			continue
		}
		weekday := ts.Weekday().String()
		sums[weekday] = sums[weekday].Add(amount)
		counts[weekday]++
	}

	weekdays := make([]string, 0, len(sums))
	for weekday := range sums {
		weekdays = append(weekdays, weekday)
	}
	sort.Strings(weekdays)

	spending := make([]core.WeekdaySpend, 0, len(weekdays))
	for _, weekday := range weekdays {
		mean := sums[weekday].Div(decimal.NewFromInt(counts[weekday])).Abs()
		spending = append(spending, core.WeekdaySpend{
			Weekday:  weekday,
			Spending: core.Round2(mean),
		})
	}
	return spending, nil
}
