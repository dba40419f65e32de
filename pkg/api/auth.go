package api

import (
	"context"

	"companion/pkg/models"
)

// Login authenticates with email and password and returns the account.
func (c *Client) Login(ctx context.Context, email, password string) (models.User, error) {
	body := map[string]string{"email": email, "password": password}
	var out models.User
	if err := c.do(ctx, "auth", "POST", "/auth/login", nil, body, &out); err != nil {
		return models.User{}, err
	}
	return out, nil
}

// Register creates an account and returns it.
func (c *Client) Register(ctx context.Context, name, email, password string) (models.User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var out models.User
	if err := c.do(ctx, "auth", "POST", "/auth/register", nil, body, &out); err != nil {
		return models.User{}, err
	}
	return out, nil
}

// Health probes the backend's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, "crud", "GET", "/health", nil, nil, nil)
}
