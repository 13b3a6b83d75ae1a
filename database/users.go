package database

import (
	"context"
	"errors"
	"fmt"

	"stocks-trader/models"

	"gorm.io/gorm"
)

// CreateUser inserts a new account funded with models.StartingCash.
func (s *Store) CreateUser(ctx context.Context, username, hash string) (*models.User, error) {
	user := models.NewUser(username, hash)
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user %q: %w", username, err)
	}
	return user, nil
}

// UserByUsername returns the account for username. Anything other than
// exactly one matching row is reported as ErrUserNotFound.
func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).Limit(2).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	if len(users) != 1 {
		return nil, ErrUserNotFound
	}
	return &users[0], nil
}

func (s *Store) User(ctx context.Context, id uint) (*models.User, error) {
	return findUser(s.db.WithContext(ctx), id)
}

func findUser(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &user, nil
}
