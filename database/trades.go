package database

import (
	"context"
	"errors"
	"fmt"

	"stocks-trader/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Trade describes a buy or sell request priced at a single quote.
type Trade struct {
	UserID uint
	Symbol string
	Shares int64
	Price  decimal.Decimal // per share
}

// Total is the cash value of the trade.
func (t Trade) Total() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Shares))
}

func (t Trade) validate() error {
	if t.Shares <= 0 || t.Symbol == "" || !t.Price.IsPositive() {
		return ErrInvalidTrade
	}
	return nil
}

// Buy debits the user's cash, adds the shares to the holding and records a
// purchase, all in one transaction.
func (s *Store) Buy(ctx context.Context, t Trade) (*models.Transaction, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	total := t.Total()

	var record *models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := findUser(tx, t.UserID)
		if err != nil {
			return err
		}
		if total.GreaterThan(user.Cash) {
			return ErrInsufficientFunds
		}

		record = &models.Transaction{
			UserID: t.UserID,
			Type:   models.Purchase,
			Symbol: t.Symbol,
			Shares: t.Shares,
			Price:  total,
		}
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("record purchase: %w", err)
		}

		if err := updateCash(tx, t.UserID, user.Cash.Sub(total)); err != nil {
			return err
		}

		res := tx.Model(&models.Holding{}).
			Where("user_id = ? AND symbol = ?", t.UserID, t.Symbol).
			Update("shares", gorm.Expr("shares + ?", t.Shares))
		if res.Error != nil {
			return fmt.Errorf("update holding %s: %w", t.Symbol, res.Error)
		}
		if res.RowsAffected == 0 {
			holding := models.Holding{UserID: t.UserID, Symbol: t.Symbol, Shares: t.Shares}
			if err := tx.Create(&holding).Error; err != nil {
				return fmt.Errorf("create holding %s: %w", t.Symbol, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("buy %d %s: %w", t.Shares, t.Symbol, err)
	}
	return record, nil
}

// Sell credits the proceeds, removes the shares from the holding (deleting
// it when emptied) and records the sale, all in one transaction.
func (s *Store) Sell(ctx context.Context, t Trade) (*models.Transaction, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	proceeds := t.Total()

	var record *models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var holding models.Holding
		err := tx.Where("user_id = ? AND symbol = ?", t.UserID, t.Symbol).First(&holding).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInsufficientShares
		}
		if err != nil {
			return fmt.Errorf("get holding %s: %w", t.Symbol, err)
		}
		if holding.Shares < t.Shares {
			return ErrInsufficientShares
		}

		user, err := findUser(tx, t.UserID)
		if err != nil {
			return err
		}

		record = &models.Transaction{
			UserID: t.UserID,
			Type:   models.Sell,
			Symbol: t.Symbol,
			Shares: t.Shares,
			Price:  proceeds,
		}
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("record sale: %w", err)
		}

		if err := updateCash(tx, t.UserID, user.Cash.Add(proceeds)); err != nil {
			return err
		}

		if holding.Shares == t.Shares {
			if err := tx.Delete(&holding).Error; err != nil {
				return fmt.Errorf("delete holding %s: %w", t.Symbol, err)
			}
			return nil
		}
		err = tx.Model(&holding).Update("shares", holding.Shares-t.Shares).Error
		if err != nil {
			return fmt.Errorf("update holding %s: %w", t.Symbol, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sell %d %s: %w", t.Shares, t.Symbol, err)
	}
	return record, nil
}

func updateCash(tx *gorm.DB, userID uint, cash decimal.Decimal) error {
	if cash.IsNegative() {
		return ErrInsufficientFunds
	}
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Update("cash", cash).Error; err != nil {
		return fmt.Errorf("update cash for user %d: %w", userID, err)
	}
	return nil
}
