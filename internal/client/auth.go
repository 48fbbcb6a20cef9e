package client

import (
	"context"
	"errors"
	"net/http"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp creates an account and makes it the current session.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	return c.authenticate(ctx, "/api/auth/signup", email, password)
}

// SignIn starts a session for an existing account.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return c.authenticate(ctx, "/api/auth/signin", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*Session, error) {
	var s Session
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+path, credentials{Email: email, Password: password}, &s); err != nil {
		return nil, err
	}
	c.SetSession(&s)
	return c.Session(), nil
}

// SignOut revokes the session token on the server and clears the local
// session. A token the server already rejects still counts as signed out.
func (c *Client) SignOut(ctx context.Context) error {
	if c.token() == "" {
		return nil
	}
	err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/api/auth/signout", nil, nil)
	if err != nil && !errors.Is(err, ErrUnauthorized) {
		return err
	}
	c.SetSession(nil)
	return nil
}

// Me asks the server who the current token belongs to.
func (c *Client) Me(ctx context.Context) (*Session, error) {
	var s Session
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/api/auth/me", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
