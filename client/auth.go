package client

import (
	"context"
	"net/http"
)

type loginRequest struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// LoginResult is the body of a successful login. The session itself
// travels in the Set-Cookie header and lives in the client's cookie jar.
type LoginResult struct {
	OK   bool  `json:"ok"`
	User *User `json:"user,omitempty"`
}

// Login posts the credentials. The token is not kept after the call.
func (c *Client) Login(ctx context.Context, username, token string) (LoginResult, error) {
	var out LoginResult
	if blank(username) {
		return out, invalid("username", "Informe o usuário.")
	}
	if blank(token) {
		return out, invalid("token", "Informe o token.")
	}
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Username: username, Token: token}, &out)
	return out, err
}

// Logout invalidates the session on the server.
func (c *Client) Logout(ctx context.Context) (bool, error) {
	var out okResponse
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, &out)
	return out.OK, err
}

// Ping checks that the current session cookie is still accepted.
func (c *Client) Ping(ctx context.Context) (bool, error) {
	var out okResponse
	err := c.do(ctx, http.MethodGet, "/auth/ping", nil, &out)
	return out.OK, err
}

// Me returns the user behind the current session.
func (c *Client) Me(ctx context.Context) (User, error) {
	var out struct {
		User User `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out)
	return out.User, err
}
