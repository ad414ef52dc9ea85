package api

import (
	"context"
	"net/http"

	"github.com/inkspire/inkspire-client/internal/models"
)

// Register creates an account. It never signs the user in.
func (c *Client) Register(ctx context.Context, req models.SignupRequest) (string, error) {
	cl, err := jsonCall("register", http.MethodPost, "/api/auth/register", req)
	if err != nil {
		return "", err
	}
	cl.authenticated = false
	return c.doText(ctx, cl)
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	cl, err := jsonCall("login", http.MethodPost, "/api/auth/login", models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	cl.authenticated = false

	var resp models.AuthResponse
	if err := c.doJSON(ctx, cl, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Verify checks token against the API. The response body is ignored.
func (c *Client) Verify(ctx context.Context, token string) error {
	cl := call{
		operation: "verify",
		method:    http.MethodGet,
		path:      "/api/auth/verify",
		bearer:    token,
	}
	return c.doJSON(ctx, cl, nil)
}

func (c *Client) ResetPassword(ctx context.Context, email, newPassword string) (string, error) {
	cl, err := jsonCall("resetPassword", http.MethodPost, "/api/auth/reset-password",
		models.ResetPasswordRequest{Email: email, NewPassword: newPassword})
	if err != nil {
		return "", err
	}
	cl.authenticated = false
	return c.doText(ctx, cl)
}

func (c *Client) UpdateProfile(ctx context.Context, update models.ProfileUpdate) error {
	return c.sendJSON(ctx, "updateProfile", http.MethodPut, "/api/auth/profile", update, nil)
}
