package api

import (
	"context"
	"encoding/json"

	errs "github.com/TriAzz/showcase/internal/errors"
	"github.com/TriAzz/showcase/internal/model"
)

// AuthResponse carries the identity and bearer token returned by the
// sign-in endpoints.
type AuthResponse struct {
	User  *model.User
	Token string
}

// decodeAuthPayload tolerates the two shapes the backend variants return:
// a `{token, user}` pair, or the user fields flattened next to the token.
func decodeAuthPayload(raw json.RawMessage) (*AuthResponse, error) {
	var wire struct {
		Token string      `json:"token"`
		User  *model.User `json:"user"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, errs.Wrap(errs.ErrInvalidResponse, "decoding auth response")
	}
	if wire.User == nil {
		var flat model.User
		if err := json.Unmarshal(raw, &flat); err == nil && (flat.Email != "" || flat.Key() != "") {
			wire.User = &flat
		}
	}
	if wire.User == nil {
		return nil, errs.Wrap(errs.ErrInvalidResponse, "auth response carried no user")
	}
	return &AuthResponse{User: wire.User, Token: wire.Token}, nil
}

// Register creates a new account and signs it in.
func (c *Client) Register(ctx context.Context, data model.RegisterRequest) (*AuthResponse, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "POST", "/auth/register", data, &raw); err != nil {
		return nil, err
	}
	return decodeAuthPayload(raw)
}

// Login exchanges credentials for a bearer token and the signed-in identity.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var raw json.RawMessage
	if err := c.do(ctx, "POST", "/auth/login", body, &raw); err != nil {
		return nil, err
	}
	return decodeAuthPayload(raw)
}

// Me fetches the identity behind the current bearer token.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, "GET", "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates the signed-in user's profile fields and returns the
// server's view of the identity.
func (c *Client) UpdateProfile(ctx context.Context, data model.ProfileUpdate) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, "PUT", "/auth/update", data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword changes the signed-in user's password.
func (c *Client) UpdatePassword(ctx context.Context, data model.PasswordUpdate) error {
	return c.do(ctx, "PUT", "/auth/update-password", data, nil)
}

// Logout tells the server to invalidate the session. Local teardown happens
// regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "GET", "/auth/logout", nil, nil)
}
