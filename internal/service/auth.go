package service

import (
	"context"
	"log/slog"

	"libris/internal/api"
	"libris/internal/domain"
	"libris/internal/session"
)

// AuthService handles login and logout against the session store
type AuthService struct {
	api     *api.Client
	session *session.Store
	logger  *slog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(client *api.Client, sess *session.Store, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{api: client, session: sess, logger: logger}
}

// Login exchanges credentials for a session and stores it. The returned
// identity drives the post-login route.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.session.SetAuthenticated(res.Token, res.User)
	s.logger.Info("logged in", "user", res.User.Email, "role", res.User.Role)
	return res.User, nil
}

// Logout clears the session; the store signals the shell to show login
func (s *AuthService) Logout() {
	s.session.Clear()
	s.logger.Info("logged out")
}
