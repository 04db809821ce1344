package backend

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/chronoluxe/rental-frontend/gateway"
	"github.com/chronoluxe/rental-frontend/users"
)

// Register creates an account and returns the identity plus bearer token.
func (c *Client) Register(ctx context.Context, registration Registration) (AuthenticatedUser, error) {
	raw, err := c.gw.Do(ctx, http.MethodPost, "/users/register", registration, false)
	if err != nil {
		return AuthenticatedUser{}, errors.Wrap(err, "[backend Register]")
	}
	return gateway.Object[AuthenticatedUser](raw)
}

// Login exchanges credentials for the identity plus bearer token.
func (c *Client) Login(ctx context.Context, credentials Credentials) (AuthenticatedUser, error) {
	raw, err := c.gw.Do(ctx, http.MethodPost, "/users/login", credentials, false)
	if err != nil {
		return AuthenticatedUser{}, errors.Wrap(err, "[backend Login]")
	}
	return gateway.Object[AuthenticatedUser](raw)
}

// Profile fetches the current user's record.
func (c *Client) Profile(ctx context.Context) (users.User, error) {
	raw, err := c.gw.Do(ctx, http.MethodGet, "/users/profile", nil, true)
	if err != nil {
		return users.User{}, errors.Wrap(err, "[backend Profile]")
	}
	return gateway.Object[users.User](raw)
}

// UpdateProfile patches the editable profile fields.
func (c *Client) UpdateProfile(ctx context.Context, patch ProfilePatch) (users.User, error) {
	raw, err := c.gw.Do(ctx, http.MethodPatch, "/users/profile", patch, true)
	if err != nil {
		return users.User{}, errors.Wrap(err, "[backend UpdateProfile]")
	}
	return gateway.Object[users.User](raw)
}

// ListUsers returns every account (admin only).
func (c *Client) ListUsers(ctx context.Context) ([]users.User, error) {
	raw, err := c.gw.Do(ctx, http.MethodGet, "/users", nil, true)
	if err != nil {
		return nil, errors.Wrap(err, "[backend ListUsers]")
	}
	return gateway.Array[users.User](raw)
}

// SetUserRole patches a user's role (admin only).
func (c *Client) SetUserRole(ctx context.Context, userID string, role users.RoleType) error {
	body := map[string]users.RoleType{"role": role}
	if _, err := c.gw.Do(ctx, http.MethodPatch, "/users/"+userID+"/role", body, true); err != nil {
		return errors.Wrap(err, "[backend SetUserRole]")
	}
	return nil
}

// DeleteUser removes an account (admin only).
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	if _, err := c.gw.Do(ctx, http.MethodDelete, "/users/"+userID, nil, true); err != nil {
		return errors.Wrap(err, "[backend DeleteUser]")
	}
	return nil
}
