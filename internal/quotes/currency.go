// Package quotes implements the currency and stock quote clients used to
// enrich the home report. Calls are blocking, single-shot requests: a failed
// or malformed response aborts the report, there is no retry and no fallback
// value.
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
	defaultCurrencyURL  = "https://api.apilayer.com/fixer/latest"
	defaultBaseCurrency = "RUB"
	currencyService     = "fixer"
)

// CurrencyConfig configures the currency client. Zero values fall back to
// the public endpoint and the ruble base.
type CurrencyConfig struct {
	APIKey       string
	BaseURL      string
	BaseCurrency string
	HTTPClient   *http.Client
	Logger       *log.Logger
}

// CurrencyClient fetches currency rates from the fixer API.
type CurrencyClient struct {
	apiKey  string
	baseURL string
	base    string
	client  *http.Client
	logger  *log.Logger
}

// NewCurrencyClient creates a currency client.
func NewCurrencyClient(cfg CurrencyConfig) *CurrencyClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultCurrencyURL
	}
	base := cfg.BaseCurrency
	if base == "" {
		base = defaultBaseCurrency
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &CurrencyClient{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		base:    base,
		client:  client,
		logger:  logger.WithComponent(log.ComponentQuotes),
	}
}

type currencyResponse struct {
	Success bool               `json:"success"`
	Rates   map[string]float64 `json:"rates"`
}

// Rates returns one rate per requested symbol, in request order. The fixer
// API quotes base->foreign, the report wants foreign->base, so each rate is
// inverted and rounded to two decimals.
func (c *CurrencyClient) Rates(ctx context.Context, symbols []string) ([]core.CurrencyRate, error) {
	if len(symbols) == 0 {
		return []core.CurrencyRate{}, nil
	}

	query := url.Values{}
	query.Set("symbols", strings.Join(symbols, ","))
	query.Set("base", c.base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.apiKey)

	c.logger.InfoContext(ctx, "requesting currency rates", log.FieldSymbols, symbols)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &core.ExternalServiceError{Service: currencyService, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &core.ExternalServiceError{Service: currencyService, Status: resp.StatusCode, Reason: "unexpected status"}
	}

	var payload currencyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &core.ExternalServiceError{Service: currencyService, Reason: "malformed response: " + err.Error()}
	}
	if !payload.Success {
		return nil, &core.ExternalServiceError{Service: currencyService, Reason: "response not marked successful"}
	}

	rates := make([]core.CurrencyRate, 0, len(symbols))
	for _, symbol := range symbols {
		rate, ok := payload.Rates[symbol]
		if !ok || rate == 0 {
			return nil, &core.ExternalServiceError{Service: currencyService, Reason: "no rate for symbol " + symbol}
		}
		inverted := decimal.NewFromInt(1).Div(decimal.NewFromFloat(rate))
		rates = append(rates, core.CurrencyRate{
			Currency: symbol,
			Rate:     core.Round2(inverted),
		})
	}
	return rates, nil
}
