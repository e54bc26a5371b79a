package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/avoronin/jotter/internal/client/api"
)

// Login prompts for credentials and opens a session. The refresh token is
// persisted by the credential store, so the session survives restarts.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	user, err := a.gateway.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	a.userName = user.Email
	if err := a.meta.Set(ctx, accountKey, user.Email); err != nil {
		a.log.Warn(ctx, "failed to cache account email", "error", err)
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", user.Email)
	return nil
}

// Register creates an account. Validation failures are reported per field.
func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := GetSimpleText(a.reader, "Enter display name (optional)", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	user, err := a.gateway.Register(ctx, email, name, password)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && len(apiErr.FieldErrors) > 0 {
			for field, msg := range apiErr.FieldErrors {
				fmt.Fprintf(a.out, "  %s: %s\n", field, msg)
			}
		}
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Fprintf(a.out, "Registered %s, you can login now\n", user.Email)
	return nil
}

// Logout revokes the session server-side (best effort) and always clears
// local credentials.
func (a *App) Logout(ctx context.Context) error {
	if err := a.gateway.Logout(ctx); err != nil {
		return err
	}

	a.userName = ""
	if err := a.meta.Delete(ctx, accountKey); err != nil {
		a.log.Warn(ctx, "failed to drop cached account email", "error", err)
	}

	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// WhoAmI fetches the current account from the server. An expired access
// token is renewed transparently on the way.
func (a *App) WhoAmI(ctx context.Context) error {
	user, err := a.gateway.Me(ctx)
	if err != nil {
		if errors.Is(err, api.ErrSessionExpired) {
			a.userName = ""
			return fmt.Errorf("session expired, please login again")
		}
		return err
	}

	fmt.Fprintf(a.out, "%s (%s)\n", user.Email, user.ID)
	return nil
}
