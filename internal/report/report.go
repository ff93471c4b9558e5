// Package report implements the derived views over a statement ledger: the
// home-page document, the weekday spending averages and the search for
// transfers to private persons.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"vypiska/internal/core"
	"vypiska/internal/log"
)

// Report kinds, used for persistence and for async build requests.
const (
	KindHome      = "home"
	KindWeekday   = "weekday"
	KindTransfers = "transfers"
)

// TopTransactionCount is how many transactions the home report lists.
const TopTransactionCount = 5

// WeekdayMonths is the rolling window of the weekday spending report.
const WeekdayMonths = 3

// LedgerReader loads the full statement table for one report invocation.
type LedgerReader interface {
	Read(ctx context.Context) (*core.Table, error)
}

// CurrencyQuoter fetches current rates for the user's currencies.
type CurrencyQuoter interface {
	Rates(ctx context.Context, symbols []string) ([]core.CurrencyRate, error)
}

// StockQuoter fetches current prices for the user's tickers.
type StockQuoter interface {
	Prices(ctx context.Context, symbols []string) ([]core.StockPrice, error)
}

// HomeReport is the home-page document. Field order matches the JSON the
// report has always produced.
type HomeReport struct {
	Greeting        string                `json:"greeting"`
	Cards           []core.CardSummary    `json:"cards"`
	TopTransactions []core.TopTransaction `json:"top_transactions"`
	CurrencyRates   []core.CurrencyRate   `json:"currency_rates"`
	StockPrices     []core.StockPrice     `json:"stock_prices"`
}

// Service composes the ledger, the aggregations and the quote providers into
// the user-facing reports. All report builds are pure given the ledger and
// the reference date; only the greeting and a defaulted reference date depend
// on the injected clock.
type Service struct {
	ledger           LedgerReader
	currencies       CurrencyQuoter
	stocks           StockQuoter
	userCurrencies   []string
	userStocks       []string
	transferCategory string
	now              func() time.Time
	logger           *log.Logger
}

// Options configures a report Service.
type Options struct {
	Ledger           LedgerReader
	Currencies       CurrencyQuoter
	Stocks           StockQuoter
	UserCurrencies   []string
	UserStocks       []string
	TransferCategory string
	Now              func() time.Time
	Logger           *log.Logger
}

// NewService creates a report service. Now defaults to time.Now and the
// transfer category to the statement's standard label.
func NewService(opts Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	category := opts.TransferCategory
	if category == "" {
		category = DefaultTransferCategory
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Service{
		ledger:           opts.Ledger,
		currencies:       opts.Currencies,
		stocks:           opts.Stocks,
		userCurrencies:   opts.UserCurrencies,
		userStocks:       opts.UserStocks,
		transferCategory: category,
		now:              now,
		logger:           logger.WithComponent(log.ComponentReport),
	}
}

// resolveReference parses an optional reference date; blank means "now".
func (s *Service) resolveReference(date string) (time.Time, error) {
	if date == "" {
		return s.now(), nil
	}
	return core.ParseReferenceDate(date)
}

// BuildHome builds the home-page document for the month-to-date window
// ending at the reference date. Any sub-step failure aborts the whole build;
// there is no partial document.
func (s *Service) BuildHome(ctx context.Context, date string) (*HomeReport, error) {
	reference, err := s.resolveReference(date)
	if err != nil {
		return nil, err
	}

	table, err := s.ledger.Read(ctx)
	if err != nil {
		return nil, err
	}
	filtered, err := FilterByDateRange(table, reference, 1)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "building home report",
		log.FieldReference, reference.Format(core.ReferenceDateLayout),
		log.FieldRows, filtered.Len())

	cards, err := CardSummaries(filtered)
	if err != nil {
		return nil, err
	}
	top, err := TopTransactions(filtered, TopTransactionCount)
	if err != nil {
		return nil, err
	}
	rates, err := s.currencies.Rates(ctx, s.userCurrencies)
	if err != nil {
		return nil, err
	}
	prices, err := s.stocks.Prices(ctx, s.userStocks)
	if err != nil {
		return nil, err
	}

	return &HomeReport{
		Greeting:        Greeting(s.now()),
		Cards:           cards,
		TopTransactions: top,
		CurrencyRates:   rates,
		StockPrices:     prices,
	}, nil
}

// BuildWeekday builds the average-spend-by-weekday report over a rolling
// three-month window ending at the reference date.
func (s *Service) BuildWeekday(ctx context.Context, date string) ([]core.WeekdaySpend, error) {
	reference, err := s.resolveReference(date)
	if err != nil {
		return nil, err
	}
	table, err := s.ledger.Read(ctx)
	if err != nil {
		return nil, err
	}
	filtered, err := FilterByDateRange(table, reference, WeekdayMonths)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "building weekday report",
		log.FieldReference, reference.Format(core.ReferenceDateLayout),
		log.FieldRows, filtered.Len())
	return AverageSpendByWeekday(filtered)
}

// BuildTransfers lists the transfers to private persons, either over the
// whole ledger or restricted to the month-to-date window of the reference
// date when one is given.
func (s *Service) BuildTransfers(ctx context.Context, date string) ([]map[string]any, error) {
	table, err := s.ledger.Read(ctx)
	if err != nil {
		return nil, err
	}
	if date != "" {
		reference, err := core.ParseReferenceDate(date)
		if err != nil {
			return nil, err
		}
		table, err = FilterByDateRange(table, reference, 1)
		if err != nil {
			return nil, err
		}
	}
	transfers, err := FindIndividualTransfers(table, s.transferCategory)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "building transfers report", log.FieldRows, transfers.Len())
	return transfers.Records(), nil
}

// Greeting returns the time-of-day greeting: night before 06:00, morning
// before 12:00, day before 18:00, evening otherwise.
func Greeting(now time.Time) string {
	switch hour := now.Hour(); {
	case hour < 6:
		return "Доброй ночи"
	case hour < 12:
		return "Доброе утро"
	case hour < 18:
		return "Добрый день"
	default:
		return "Добрый вечер"
	}
}

// EncodeJSON serializes a report document as indented UTF-8 JSON with
// non-ASCII text kept as-is.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
