package handlers

import (
	"strconv"
	"strings"

	"stocks-trader/quote"
)

// ValidationError is a form error shown inline on the submitted page.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ParseShares accepts a positive whole number of shares.
func ParseShares(raw string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return 0, &ValidationError{Message: "Shares must be a positive whole number"}
	}
	return n, nil
}

// ParseSymbol normalizes a ticker symbol and rejects blank input.
func ParseSymbol(raw string) (string, error) {
	symbol := quote.Normalize(raw)
	if symbol == "" {
		return "", &ValidationError{Message: "Must provide a symbol"}
	}
	return symbol, nil
}
