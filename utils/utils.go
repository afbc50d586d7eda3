package utils

import (
	"fmt"
	"strings"
)

// NullToZero handles null values in Yahoo's response (sometimes returned as 0 or omitted)
func NullToZero(val float64) float64 {
	if val == 0 || val != val { // NaN check
		return 0
	}
	return val
}

// NormalizeSymbol upper-cases and trims a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ValidateSymbol checks that a ticker symbol is 1-10 characters of
// letters, digits, '.' or '-'.
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if len(symbol) > 10 {
		return fmt.Errorf("symbol %q is too long", symbol)
	}
	for _, r := range symbol {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '-':
		default:
			return fmt.Errorf("symbol %q contains invalid character %q", symbol, r)
		}
	}
	return nil
}
