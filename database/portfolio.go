package database

import (
	"context"
	"fmt"

	"stocks-trader/models"
)

// Holdings returns the user's positions ordered by symbol, descending.
func (s *Store) Holdings(ctx context.Context, userID uint) ([]models.Holding, error) {
	var holdings []models.Holding
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("symbol DESC").
		Find(&holdings).Error
	if err != nil {
		return nil, fmt.Errorf("list holdings for user %d: %w", userID, err)
	}
	return holdings, nil
}

// HeldSymbols returns the symbols the user owns, ascending.
func (s *Store) HeldSymbols(ctx context.Context, userID uint) ([]string, error) {
	var symbols []string
	err := s.db.WithContext(ctx).
		Model(&models.Holding{}).
		Where("user_id = ?", userID).
		Order("symbol ASC").
		Pluck("symbol", &symbols).Error
	if err != nil {
		return nil, fmt.Errorf("list symbols for user %d: %w", userID, err)
	}
	return symbols, nil
}

// History returns every transaction of the user in insertion order.
func (s *Store) History(ctx context.Context, userID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions for user %d: %w", userID, err)
	}
	return transactions, nil
}
