package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StartingCash is the balance every new account is funded with.
var StartingCash = decimal.NewFromInt(10000)

type User struct {
	ID        uint            `gorm:"primaryKey"`
	Username  string          `gorm:"not null;uniqueIndex"`
	Hash      string          `gorm:"not null"`
	Cash      decimal.Decimal `gorm:"type:decimal(20,2);not null;default:10000.00"`
	CreatedAt time.Time
}

func NewUser(username, hash string) *User {
	return &User{
		Username: username,
		Hash:     hash,
		Cash:     StartingCash,
	}
}
