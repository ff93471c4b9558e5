package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries every runtime setting. Values come from the environment;
// each main loads .env first for local development.
type Config struct {
	// HTTP server
	Port string

	// Ledger source
	LedgerBackend  string
	StatementPath  string
	LedgerCacheTTL time.Duration

	// Google Sheets
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// SQLite archive
	SQLiteDBPath string

	// Quote providers
	CurrencyAPIKey string
	CurrencyAPIURL string
	StockAPIKey    string
	StockAPIURL    string
	BaseCurrency   string

	// User preferences
	SettingsPath     string
	TransferCategory string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// Load reads the configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		LedgerBackend:  getEnv("LEDGER_BACKEND", "csv"),
		StatementPath:  getEnv("STATEMENT_PATH", "data/operations.csv"),
		LedgerCacheTTL: getEnvDuration("LEDGER_CACHE_TTL", 5*time.Minute),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Operations"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/vypiska.db"),

		CurrencyAPIKey: getEnv("API_KEY_CURRENCY", ""),
		CurrencyAPIURL: getEnv("CURRENCY_API_URL", ""),
		StockAPIKey:    getEnv("API_KEY_STOCK", ""),
		StockAPIURL:    getEnv("STOCK_API_URL", ""),
		BaseCurrency:   getEnv("BASE_CURRENCY", "RUB"),

		SettingsPath:     getEnv("USER_SETTINGS_PATH", "user_settings.json"),
		TransferCategory: getEnv("TRANSFER_CATEGORY", "Переводы"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "vypiska"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "report_requests"),
	}
}

var validBackends = []string{"csv", "sheets", "sqlite", "memory"}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	backendOK := false
	for _, b := range validBackends {
		if c.LedgerBackend == b {
			backendOK = true
			break
		}
	}
	if !backendOK {
		problems = append(problems, fmt.Sprintf("invalid ledger backend '%s': must be one of %v", c.LedgerBackend, validBackends))
	}

	switch c.LedgerBackend {
	case "csv":
		if c.StatementPath == "" {
			problems = append(problems, "statement path cannot be empty when using the csv backend")
		}
	case "sheets":
		if c.GoogleSpreadsheetID == "" {
			problems = append(problems, "Google spreadsheet ID is required when using the sheets backend")
		}
		if c.GoogleSheetName == "" {
			problems = append(problems, "Google sheet name is required when using the sheets backend")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			problems = append(problems, "sqlite database path cannot be empty when using the sqlite backend")
		}
	}

	if c.LedgerCacheTTL < 0 {
		problems = append(problems, fmt.Sprintf("invalid ledger cache TTL %v: must not be negative", c.LedgerCacheTTL))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when an AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when an AMQP URL is provided")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
