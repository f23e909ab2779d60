package api

import (
	"context"
	"net/http"
	"net/url"

	"libris/internal/domain"
)

// ListUsers returns accounts, optionally narrowed to one role (librarian only)
func (c *Client) ListUsers(ctx context.Context, role domain.Role) ([]domain.User, error) {
	var query url.Values
	if role != "" {
		query = url.Values{"role": []string{string(role)}}
	}

	var users []domain.User
	if err := c.get(ctx, "/users", query, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UserInput is the writable subset of an account. Zero-valued fields are
// omitted so Update can send any subset.
type UserInput struct {
	Name     string      `json:"name,omitempty"`
	Email    string      `json:"email,omitempty"`
	Password string      `json:"password,omitempty"`
	Role     domain.Role `json:"role,omitempty"`
}

// CreateUser adds an account (librarian only)
func (c *Client) CreateUser(ctx context.Context, in UserInput) (*domain.User, error) {
	var user domain.User
	if err := c.send(ctx, http.MethodPost, "/users", in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser replaces the given fields of an account (librarian only)
func (c *Client) UpdateUser(ctx context.Context, id string, in UserInput) (*domain.User, error) {
	var user domain.User
	if err := c.send(ctx, http.MethodPut, "/users/"+id, in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserRole changes only an account's role (librarian only)
func (c *Client) UpdateUserRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	body := struct {
		Role domain.Role `json:"role"`
	}{Role: role}

	var user domain.User
	if err := c.send(ctx, http.MethodPatch, "/users/"+id+"/role", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account (librarian only)
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/users/"+id, nil, nil)
}
