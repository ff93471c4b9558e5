package quotes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"vypiska/internal/core"
	"vypiska/internal/log"
)

const (
	defaultStockURL = "https://api.marketstack.com/v1/eod/latest"
	stockService    = "marketstack"
)

// StockConfig configures the stock client.
type StockConfig struct {
	AccessKey  string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// StockClient fetches end-of-day stock prices from the marketstack API.
type StockClient struct {
	accessKey string
	baseURL   string
	client    *http.Client
	logger    *log.Logger
}

// NewStockClient creates a stock client.
func NewStockClient(cfg StockConfig) *StockClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultStockURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &StockClient{
		accessKey: cfg.AccessKey,
		baseURL:   baseURL,
		client:    client,
		logger:    logger.WithComponent(log.ComponentQuotes),
	}
}

type stockResponse struct {
	Data []struct {
		Symbol   string  `json:"symbol"`
		AdjClose float64 `json:"adj_close"`
	} `json:"data"`
}

// Prices returns the latest adjusted close per requested ticker, in API
// response order, capped at the requested count.
func (c *StockClient) Prices(ctx context.Context, symbols []string) ([]core.StockPrice, error) {
	if len(symbols) == 0 {
		return []core.StockPrice{}, nil
	}

	query := url.Values{}
	query.Set("access_key", c.accessKey)
	query.Set("symbols", strings.Join(symbols, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "requesting stock prices", log.FieldSymbols, symbols)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &core.ExternalServiceError{Service: stockService, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &core.ExternalServiceError{Service: stockService, Status: resp.StatusCode, Reason: "unexpected status"}
	}

	var payload stockResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &core.ExternalServiceError{Service: stockService, Reason: "malformed response: " + err.Error()}
	}
	if len(payload.Data) == 0 {
		return nil, &core.ExternalServiceError{Service: stockService, Reason: "response carries no data"}
	}

	limit := len(payload.Data)
	if limit > len(symbols) {
		limit = len(symbols)
	}
	prices := make([]core.StockPrice, 0, limit)
	for _, record := range payload.Data[:limit] {
		prices = append(prices, core.StockPrice{
			Stock: record.Symbol,
			Price: core.Round2(decimal.NewFromFloat(record.AdjClose)),
		})
	}
	return prices, nil
}
