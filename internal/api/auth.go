package api

import (
	"context"
	"encoding/json"

	"github.com/hammamikhairi/lumiere/internal/domain"
)

type credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User *domain.User `json:"user"`
}

// Login exchanges credentials for the user record. A 2xx response
// without a user object returns a nil user and no error; deciding what
// that means is up to the caller.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	return c.authenticate(ctx, pathLogin, credentials{Email: email, Password: password})
}

// Register creates an account and returns the new user record.
func (c *Client) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	return c.authenticate(ctx, pathRegister, credentials{Name: name, Email: email, Password: password})
}

func (c *Client) authenticate(ctx context.Context, path string, creds credentials) (*domain.User, error) {
	body, err := c.postJSON(ctx, path, creds)
	if err != nil {
		return nil, err
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &Error{Kind: FailureMalformed, Message: msgBadBody, Err: err}
	}
	return resp.User, nil
}
