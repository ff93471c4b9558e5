// Package settings loads the user's report preferences.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultPath is where the settings file lives relative to the working
// directory.
const DefaultPath = "user_settings.json"

// Settings holds the user-configured symbol lists for the home report.
type Settings struct {
	UserCurrencies []string `json:"user_currencies"`
	UserStocks     []string `json:"user_stocks"`
}

// Load reads and parses the settings file. A missing file surfaces as an
// error wrapping fs.ErrNotExist so callers can distinguish it from a
// malformed one.
func Load(path string) (Settings, error) {
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s, nil
}
