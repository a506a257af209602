package apiclient

import (
	"context"
	"net/http"
)

type loginResponse struct {
	User User `json:"user"`
}

// Login exchanges credentials for the user record.
func (c *Client) Login(ctx context.Context, creds Credentials) (User, error) {
	var resp loginResponse
	if err := c.do(ctx, "auth.login", http.MethodPost, "/login", creds, &resp); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

// Register creates a new account. The response body beyond the envelope is
// ignored.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	return c.do(ctx, "auth.register", http.MethodPost, "/register", reg, nil)
}
