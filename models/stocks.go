package models

import "github.com/shopspring/decimal"

// Quote is a point-in-time price for a symbol. It is never stored in the
// database.
type Quote struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

// Cost returns the price of the given number of shares.
func (q Quote) Cost(shares int64) decimal.Decimal {
	return q.Price.Mul(decimal.NewFromInt(shares))
}
