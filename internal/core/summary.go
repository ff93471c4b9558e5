package core

// CardSummary is the per-card spending line of the home report. Cashback is
// one unit per hundred units of spend.
type CardSummary struct {
	LastDigits string  `json:"last_digits"`
	TotalSpent float64 `json:"total_spent"`
	Cashback   float64 `json:"cashback"`
}

// TopTransaction is one of the top-N transactions by absolute amount. Date is
// the textual payment date as exported, "unknown" when absent.
type TopTransaction struct {
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

// WeekdaySpend is the average expense for one weekday. Weekdays without
// expense rows are simply absent from the report.
type WeekdaySpend struct {
	Weekday  string  `json:"weekdays"`
	Spending float64 `json:"spending"`
}

// CurrencyRate is one quoted currency, expressed as units of the base
// currency per one unit of the quoted one.
type CurrencyRate struct {
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate"`
}

// StockPrice is one quoted ticker with its adjusted closing price.
type StockPrice struct {
	Stock string  `json:"stock"`
	Price float64 `json:"price"`
}
