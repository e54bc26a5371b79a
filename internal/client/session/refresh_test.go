package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avoronin/jotter/internal/logging"
)

func TestCoordinator_RefreshReplacesPair(t *testing.T) {
	repo := newFakeRepo()
	store := NewStore(repo, logging.NewDiscard())
	ctx := context.Background()
	store.SetPair(ctx, "A1", "R1")

	renew := func(ctx context.Context, refreshToken string) (string, string, error) {
		require.Equal(t, "R1", refreshToken)
		return "A2", "R2", nil
	}

	c := NewCoordinator(store, renew, logging.NewDiscard())
	require.NoError(t, c.Refresh(ctx))

	require.Equal(t, "A2", store.AccessToken())
	require.Equal(t, "R2", store.RefreshToken())

	v, ok := repo.stored(refreshTokenKey)
	require.True(t, ok)
	require.Equal(t, "R2", v)
}

func TestCoordinator_SingleFlight(t *testing.T) {
	store := NewStore(newFakeRepo(), logging.NewDiscard())
	ctx := context.Background()
	store.SetPair(ctx, "A1", "R1")

	var calls atomic.Int32
	renew := func(ctx context.Context, refreshToken string) (string, string, error) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond) // hold the flight open for the others
		return "A2", "R2", nil
	}

	c := NewCoordinator(store, renew, logging.NewDiscard())

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = c.Refresh(ctx)
		}(i)
	}
	wg.Wait()

	require.Equal(t, int32(1), calls.Load())
	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, "A2", store.AccessToken())
}

func TestCoordinator_FailureClearsCredentials(t *testing.T) {
	repo := newFakeRepo()
	store := NewStore(repo, logging.NewDiscard())
	ctx := context.Background()
	store.SetPair(ctx, "A1", "R1")

	boom := errors.New("refresh rejected")
	renew := func(ctx context.Context, refreshToken string) (string, string, error) {
		return "", "", boom
	}

	c := NewCoordinator(store, renew, logging.NewDiscard())
	err := c.Refresh(ctx)
	require.ErrorIs(t, err, boom)

	require.Equal(t, "", store.AccessToken())
	require.Equal(t, "", store.RefreshToken())
	_, ok := repo.stored(refreshTokenKey)
	require.False(t, ok)
}

func TestCoordinator_NoSession(t *testing.T) {
	store := NewStore(newFakeRepo(), logging.NewDiscard())

	c := NewCoordinator(store, nil, logging.NewDiscard())
	require.ErrorIs(t, c.Refresh(context.Background()), ErrNoSession)
}

func TestCoordinator_CallerCancellationDoesNotFailRenewal(t *testing.T) {
	store := NewStore(newFakeRepo(), logging.NewDiscard())
	store.SetPair(context.Background(), "A1", "R1")

	renew := func(ctx context.Context, refreshToken string) (string, string, error) {
		// the renewal context must be detached from the triggering caller
		select {
		case <-ctx.Done():
			return "", "", ctx.Err()
		case <-time.After(30 * time.Millisecond):
			return "A2", "R2", nil
		}
	}

	c := NewCoordinator(store, renew, logging.NewDiscard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, c.Refresh(ctx))
	require.Equal(t, "A2", store.AccessToken())
}
