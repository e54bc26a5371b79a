package api

import (
	"context"
	"net/http"

	"github.com/avoronin/jotter/internal/client/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         models.User `json:"user"`
}

// Login authenticates and installs the returned credential pair in the
// store, persisting the refresh token.
func (g *Gateway) Login(ctx context.Context, email, password string) (*models.User, error) {
	var resp loginResponse
	if err := g.do(ctx, http.MethodPost, "/auth/login", nil, loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}

	g.store.SetPair(ctx, resp.AccessToken, resp.RefreshToken)
	return &resp.User, nil
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password"`
}

// Register creates an account. Validation problems come back as an *Error
// with FieldErrors populated.
func (g *Gateway) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	if err := g.do(ctx, http.MethodPost, "/auth/register", nil, registerRequest{Email: email, Name: name, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RenewSession calls the renewal endpoint directly, without touching the
// store. It matches session.RenewFunc; the coordinator owns what happens to
// the store on either outcome.
func (g *Gateway) RenewSession(ctx context.Context, refreshToken string) (string, string, error) {
	var resp refreshResponse
	if err := g.do(ctx, http.MethodPost, "/auth/refresh", nil, refreshRequest{RefreshToken: refreshToken}, &resp); err != nil {
		return "", "", err
	}
	return resp.AccessToken, resp.RefreshToken, nil
}

// Logout revokes the refresh token server-side on a best-effort basis and
// always clears the local credential pair.
func (g *Gateway) Logout(ctx context.Context) error {
	refresh := g.store.RefreshToken()
	if refresh != "" {
		if err := g.do(ctx, http.MethodPost, "/auth/logout", nil, refreshRequest{RefreshToken: refresh}, nil); err != nil {
			g.log.Warn(ctx, "logout call failed, clearing local session anyway", "error", err)
		}
	}
	g.store.Clear(ctx)
	return nil
}

// Me returns the authenticated account. A 401 goes through the refresh flow
// before ever reaching the caller.
func (g *Gateway) Me(ctx context.Context) (*models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	if err := g.doAuthorized(ctx, http.MethodGet, "/auth/me", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}
