// Package core holds the statement table model and the money and date
// parsing helpers shared by the report builders.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a signed decimal amount from a statement cell. Both dot
// and comma decimal separators are accepted; exports produced on localized
// systems use the comma.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, &ParseError{Value: s, Layout: "decimal"}
	}
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.ReplaceAll(s, " ", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ParseError{Value: s, Layout: "decimal"}
	}
	return d, nil
}

// Round2 rounds half away from zero to two decimal places and returns the
// float used in the report JSON.
func Round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
