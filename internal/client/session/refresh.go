package session

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/avoronin/jotter/internal/logging"
)

// ErrNoSession is returned when a renewal is requested with no refresh token
// available.
var ErrNoSession = errors.New("no session")

// RenewFunc calls the renewal endpoint with the current refresh token and
// returns the replacement pair.
type RenewFunc func(ctx context.Context, refreshToken string) (access string, refresh string, err error)

// Coordinator guarantees at most one in-flight credential renewal. Callers
// that observe an authorization failure while a renewal is already running
// share its outcome instead of starting a second one.
type Coordinator struct {
	store *Store
	renew RenewFunc
	group singleflight.Group
	log   logging.Logger
}

func NewCoordinator(store *Store, renew RenewFunc, log logging.Logger) *Coordinator {
	return &Coordinator{store: store, renew: renew, log: log.With("component", "refresh")}
}

// Refresh renews the credential pair. On success both tokens are replaced in
// the store; on any failure both are cleared, so ErrNoSession/renewal errors
// always leave the store empty.
//
// The renewal call is detached from the triggering caller's cancellation:
// its outcome is shared by every concurrent caller, so one caller backing
// out must not fail the renewal (and clear credentials) for the rest.
func (c *Coordinator) Refresh(ctx context.Context) error {
	_, err, shared := c.group.Do(refreshTokenKey, func() (any, error) {
		refresh := c.store.RefreshToken()
		if refresh == "" {
			return nil, ErrNoSession
		}

		detached := context.WithoutCancel(ctx)

		access, next, err := c.renew(detached, refresh)
		if err != nil {
			c.log.Warn(ctx, "credential renewal failed", "error", err)
			c.store.Clear(detached)
			return nil, fmt.Errorf("renewal failed: %w", err)
		}

		c.store.SetPair(detached, access, next)
		return nil, nil
	})

	if err == nil && shared {
		c.log.Debug(ctx, "joined in-flight renewal")
	}
	return err
}
