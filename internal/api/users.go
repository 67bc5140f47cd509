package api

import (
	"context"

	"github.com/TriAzz/showcase/internal/model"
)

// AdminSetupRequest is the first-run administrator bootstrap payload.
type AdminSetupRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Description string `json:"description,omitempty"`
}

// ListUsers returns every registered user. Requires admin privileges on
// most deployments; the first-run check relies on it returning an empty
// list before any account exists.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.do(ctx, "GET", "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AdminExists reports whether any account has been created yet. A failure
// to list users is treated as "no accounts", matching first-run behavior
// against a fresh backend.
func (c *Client) AdminExists(ctx context.Context) bool {
	users, err := c.ListUsers(ctx)
	if err != nil {
		return false
	}
	return len(users) > 0
}

// SetupAdmin creates the initial administrator account.
func (c *Client) SetupAdmin(ctx context.Context, data AdminSetupRequest) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, "POST", "/users/setup", data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
