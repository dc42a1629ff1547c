package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/papertrade/internal/common"
	"github.com/bobmcallan/papertrade/internal/models"
)

// ErrUserNotFound is returned when a lookup matches no stored user.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameTaken is returned when creating a user with an existing
// username.
var ErrUsernameTaken = errors.New("username already taken")

type userStore struct {
	db     *badgerhold.Store
	logger *common.Logger
}

func (s *userStore) CreateUser(_ context.Context, user *models.User) error {
	var existing []models.User
	if err := s.db.Find(&existing, badgerhold.Where("Username").Eq(user.Username)); err != nil {
		return fmt.Errorf("failed to check username '%s': %w", user.Username, err)
	}
	if len(existing) > 0 {
		return ErrUsernameTaken
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.db.Insert(user.ID, user); err != nil {
		return fmt.Errorf("failed to create user '%s': %w", user.Username, err)
	}
	s.logger.Debug().Str("user_id", user.ID).Str("username", user.Username).Msg("User created")
	return nil
}

func (s *userStore) GetUser(_ context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.Get(id, &user); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", id, err)
	}
	return &user, nil
}

func (s *userStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	var users []models.User
	if err := s.db.Find(&users, badgerhold.Where("Username").Eq(username)); err != nil {
		return nil, fmt.Errorf("failed to find user '%s': %w", username, err)
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return &users[0], nil
}

func (s *userStore) UpdateUser(_ context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	if err := s.db.Update(user.ID, user); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update user '%s': %w", user.ID, err)
	}
	s.logger.Debug().Str("user_id", user.ID).Msg("User updated")
	return nil
}
