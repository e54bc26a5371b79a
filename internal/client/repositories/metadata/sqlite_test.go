package metadata

import (
	"context"
	"testing"

	"github.com/avoronin/jotter/internal/client/storage"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := storage.Open(context.Background(), t.TempDir()+"/meta_test.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db)
}

func TestSQLiteRepository_SetGet(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "refresh_token", "R1"))

	got, err := repo.Get(ctx, "refresh_token")
	require.NoError(t, err)
	require.Equal(t, "R1", got)

	// upsert replaces
	require.NoError(t, repo.Set(ctx, "refresh_token", "R2"))
	got, err = repo.Get(ctx, "refresh_token")
	require.NoError(t, err)
	require.Equal(t, "R2", got)
}

func TestSQLiteRepository_GetMissingIsEmpty(t *testing.T) {
	repo := newRepo(t)

	got, err := repo.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Equal(t, "", got)
}

func TestSQLiteRepository_DeleteAndClear(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "a", "1"))
	require.NoError(t, repo.Set(ctx, "b", "2"))

	require.NoError(t, repo.Delete(ctx, "a"))
	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "", got)

	require.NoError(t, repo.Clear(ctx))
	got, err = repo.Get(ctx, "b")
	require.NoError(t, err)
	require.Equal(t, "", got)
}
