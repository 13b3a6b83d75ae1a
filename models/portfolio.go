package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is a user's current position in one symbol. A row only exists
// while Shares is positive.
type Holding struct {
	ID     uint   `gorm:"primaryKey"`
	UserID uint   `gorm:"not null;uniqueIndex:idx_holdings_user_symbol"`
	Symbol string `gorm:"not null;uniqueIndex:idx_holdings_user_symbol"`
	Shares int64  `gorm:"not null"`
}

func (Holding) TableName() string { return "holdings" }

type TransactionType string

const (
	Purchase TransactionType = "purchase"
	Sell     TransactionType = "sell"
)

// Transaction is an append-only ledger row. Price holds the total value of
// the trade (shares times the quoted price).
type Transaction struct {
	ID     uint            `gorm:"primaryKey"`
	UserID uint            `gorm:"not null;index"`
	Type   TransactionType `gorm:"not null"`
	Symbol string          `gorm:"not null"`
	Shares int64           `gorm:"not null"`
	Price  decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Date   time.Time       `gorm:"autoCreateTime"`
}
