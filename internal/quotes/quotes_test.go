package quotes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vypiska/internal/core"
)

func TestCurrencyRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("apikey"); got != "secret" {
			t.Errorf("expected apikey header, got %q", got)
		}
		if got := r.URL.Query().Get("base"); got != "RUB" {
			t.Errorf("expected base RUB, got %q", got)
		}
		if got := r.URL.Query().Get("symbols"); got != "USD,EUR" {
			t.Errorf("unexpected symbols: %q", got)
		}
		w.Write([]byte(`{"success":true,"rates":{"USD":0.010989,"EUR":0.009948}}`))
	}))
	defer srv.Close()

	client := NewCurrencyClient(CurrencyConfig{APIKey: "secret", BaseURL: srv.URL})
	rates, err := client.Rates(context.Background(), []string{"USD", "EUR"})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	want := []core.CurrencyRate{
		{Currency: "USD", Rate: 91.0},
		{Currency: "EUR", Rate: 100.52},
	}
	if len(rates) != 2 || rates[0] != want[0] || rates[1] != want[1] {
		t.Fatalf("expected %+v, got %+v", want, rates)
	}
}

func TestCurrencyRatesBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewCurrencyClient(CurrencyConfig{BaseURL: srv.URL})
	_, err := client.Rates(context.Background(), []string{"USD"})
	var ese *core.ExternalServiceError
	if !errors.As(err, &ese) {
		t.Fatalf("expected ExternalServiceError, got %v", err)
	}
	if ese.Status != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", ese.Status)
	}
}

func TestCurrencyRatesUnsuccessfulPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	client := NewCurrencyClient(CurrencyConfig{BaseURL: srv.URL})
	if _, err := client.Rates(context.Background(), []string{"USD"}); err == nil {
		t.Fatalf("expected error for unsuccessful payload")
	}
}

func TestCurrencyRatesMissingSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"rates":{"USD":0.010989}}`))
	}))
	defer srv.Close()

	client := NewCurrencyClient(CurrencyConfig{BaseURL: srv.URL})
	if _, err := client.Rates(context.Background(), []string{"USD", "EUR"}); err == nil {
		t.Fatalf("expected error for missing symbol")
	}
}

func TestCurrencyRatesNoSymbols(t *testing.T) {
	client := NewCurrencyClient(CurrencyConfig{BaseURL: "http://unused.invalid"})
	rates, err := client.Rates(context.Background(), nil)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(rates) != 0 {
		t.Fatalf("expected empty result, got %+v", rates)
	}
}

func TestStockPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("access_key"); got != "key" {
			t.Errorf("expected access_key, got %q", got)
		}
		w.Write([]byte(`{"data":[{"symbol":"AAPL","adj_close":220.114},{"symbol":"AMZN","adj_close":179.55}]}`))
	}))
	defer srv.Close()

	client := NewStockClient(StockConfig{AccessKey: "key", BaseURL: srv.URL})
	prices, err := client.Prices(context.Background(), []string{"AAPL", "AMZN"})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	want := []core.StockPrice{
		{Stock: "AAPL", Price: 220.11},
		{Stock: "AMZN", Price: 179.55},
	}
	if len(prices) != 2 || prices[0] != want[0] || prices[1] != want[1] {
		t.Fatalf("expected %+v, got %+v", want, prices)
	}
}

func TestStockPricesCappedAtRequestedCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"symbol":"AAPL","adj_close":220.11},{"symbol":"AMZN","adj_close":179.55}]}`))
	}))
	defer srv.Close()

	client := NewStockClient(StockConfig{BaseURL: srv.URL})
	prices, err := client.Prices(context.Background(), []string{"AAPL"})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(prices) != 1 || prices[0].Stock != "AAPL" {
		t.Fatalf("expected AAPL only, got %+v", prices)
	}
}

func TestStockPricesEmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client := NewStockClient(StockConfig{BaseURL: srv.URL})
	var ese *core.ExternalServiceError
	if _, err := client.Prices(context.Background(), []string{"AAPL"}); !errors.As(err, &ese) {
		t.Fatalf("expected ExternalServiceError, got %v", err)
	}
}

func TestStockPricesBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewStockClient(StockConfig{BaseURL: srv.URL})
	if _, err := client.Prices(context.Background(), []string{"AAPL"}); err == nil {
		t.Fatalf("expected error for bad status")
	}
}
