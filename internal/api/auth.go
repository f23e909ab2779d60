package api

import (
	"context"
	"net/http"

	"libris/internal/domain"
)

// LoginResult is the server's answer to a successful credential check
type LoginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login exchanges credentials for a token and identity. Bad credentials
// come back as a classified non-2xx like every other failure.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var res LoginResult
	if err := c.send(ctx, http.MethodPost, "/auth/login", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
