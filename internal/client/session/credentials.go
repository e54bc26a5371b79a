// Package session owns the credential pair for the current login and the
// coordination of its renewal. The access token lives only in process
// memory; the refresh token is additionally persisted to the local metadata
// store so a session survives a restart. Tokens are opaque strings: nothing
// in the client ever looks inside them, freshness is only ever learned from
// an authorization failure reported by the server.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/avoronin/jotter/internal/client/repositories/metadata"
	"github.com/avoronin/jotter/internal/logging"
)

const refreshTokenKey = "refresh_token"

// Store holds the current credential pair. It is constructed once per app
// and shared by reference with the gateway and the refresh coordinator; it
// contains no coordination logic of its own.
type Store struct {
	mu      sync.RWMutex
	access  string
	refresh string

	repo metadata.Repository
	log  logging.Logger
}

func NewStore(repo metadata.Repository, log logging.Logger) *Store {
	return &Store{repo: repo, log: log.With("component", "session")}
}

// Load restores the persisted refresh token, if any. An empty slot simply
// means there is no session, which is a valid state.
func (s *Store) Load(ctx context.Context) error {
	value, err := s.repo.Get(ctx, refreshTokenKey)
	if err != nil {
		return fmt.Errorf("failed to load refresh token: %w", err)
	}

	s.mu.Lock()
	s.refresh = value
	s.mu.Unlock()
	return nil
}

func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// SetPair replaces both tokens and persists the refresh token. A persistence
// failure does not invalidate the in-memory session; it only costs the
// restart survival, so it is logged and swallowed.
func (s *Store) SetPair(ctx context.Context, access, refresh string) {
	s.mu.Lock()
	s.access = access
	s.refresh = refresh
	s.mu.Unlock()

	if err := s.repo.Set(ctx, refreshTokenKey, refresh); err != nil {
		s.log.Warn(ctx, "failed to persist refresh token", "error", err)
	}
}

// Clear wipes both tokens from memory and removes the persisted slot.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.access = ""
	s.refresh = ""
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, refreshTokenKey); err != nil {
		s.log.Warn(ctx, "failed to remove persisted refresh token", "error", err)
	}
}
