package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := Open(context.Background(), "file:state_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewSQLiteRepository(db)
	require.NoError(t, repo.Clear(context.Background()))
	return repo
}

func TestSQLiteRepository_SetGet(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "token", []byte("tok-1")))

	got, err := repo.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, []byte("tok-1"), got)
}

func TestSQLiteRepository_SetOverwrites(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "token", []byte("old")))
	require.NoError(t, repo.Set(ctx, "token", []byte("new")))

	got, err := repo.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), got)
}

func TestSQLiteRepository_GetMissingReturnsNil(t *testing.T) {
	repo := openTestRepo(t)

	got, err := repo.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSQLiteRepository_DeleteAndClear(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "token", []byte("t")))
	require.NoError(t, repo.Set(ctx, "identity", []byte("{}")))

	require.NoError(t, repo.Delete(ctx, "token"))
	got, err := repo.Get(ctx, "token")
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, repo.Clear(ctx))
	got, err = repo.Get(ctx, "identity")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSQLiteRepository_SetManyWritesAllPairs(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "token", []byte("stale")))

	require.NoError(t, repo.SetMany(ctx, map[string][]byte{
		"token":    []byte("fresh"),
		"identity": []byte(`{"id":"u1"}`),
	}))

	got, err := repo.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, []byte("fresh"), got)

	got, err = repo.Get(ctx, "identity")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"id":"u1"}`), got)
}
