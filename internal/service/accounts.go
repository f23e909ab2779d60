package service

import (
	"context"
	"log/slog"

	"libris/internal/api"
	"libris/internal/domain"
)

// AccountService handles librarian-side user management
type AccountService struct {
	api    *api.Client
	logger *slog.Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(client *api.Client, logger *slog.Logger) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{api: client, logger: logger}
}

// List returns accounts, optionally narrowed to one role
func (s *AccountService) List(ctx context.Context, role domain.Role) ([]domain.User, error) {
	return s.api.ListUsers(ctx, role)
}

// Create adds an account
func (s *AccountService) Create(ctx context.Context, in api.UserInput) (*domain.User, error) {
	user, err := s.api.CreateUser(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("account created", "user", user.ID, "role", user.Role)
	return user, nil
}

// Update changes any subset of an account's fields
func (s *AccountService) Update(ctx context.Context, id string, in api.UserInput) (*domain.User, error) {
	return s.api.UpdateUser(ctx, id, in)
}

// SetRole changes only an account's role
func (s *AccountService) SetRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	user, err := s.api.UpdateUserRole(ctx, id, role)
	if err != nil {
		return nil, err
	}
	s.logger.Info("role changed", "user", id, "role", role)
	return user, nil
}

// Delete removes an account
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("account deleted", "user", id)
	return nil
}
