package backend

import (
	"context"
	"net/http"

	"github.com/inventorypro/client-go/internal/core/domain"
	"github.com/inventorypro/client-go/internal/core/ports"
)

// AuthGateway talks to the backend's authentication endpoints through the
// pipeline.
type AuthGateway struct {
	client *Client
}

func NewAuthGateway(client *Client) *AuthGateway {
	return &AuthGateway{client: client}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User         *userDTO `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}

// Login authenticates with email and password. Invalid credentials are
// handled inline by the login form, so no automatic notification fires for
// them.
func (g *AuthGateway) Login(ctx context.Context, input ports.LoginInput) (*ports.LoginResult, error) {
	var res loginResponse
	err := g.client.Do(ctx, http.MethodPost, "/auth/login",
		loginRequest{Email: input.Email, Password: input.Password}, &res,
		HandleInline(domain.ErrInvalidCredentials))
	if err != nil {
		return nil, err
	}
	return &ports.LoginResult{
		Actor:        res.User.toDomain(),
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	}, nil
}

// Refresh exchanges the refresh token for a new access token.
func (g *AuthGateway) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var res refreshResponse
	err := g.client.Do(ctx, http.MethodPost, "/auth/refresh",
		refreshRequest{RefreshToken: refreshToken}, &res, Silent())
	if err != nil {
		return "", err
	}
	return res.AccessToken, nil
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Logout revokes the refresh token server-side. Best effort: failures are
// never surfaced to the user.
func (g *AuthGateway) Logout(ctx context.Context, refreshToken string) error {
	return g.client.Do(ctx, http.MethodPost, "/auth/logout",
		logoutRequest{RefreshToken: refreshToken}, nil, Silent())
}
