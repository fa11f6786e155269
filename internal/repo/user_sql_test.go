package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/catalog-api/internal/db"
	"github.com/rogerio-castellano/catalog-api/internal/repo"
)

func newSQLiteUserRepo(t *testing.T) *repo.SQLUserRepository {
	t.Helper()
	database, err := db.Open(context.Background(), db.DriverSQLite, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return repo.NewSQLUserRepository(database)
}

func TestSQLUserRepository_EnsureUser(t *testing.T) {
	r := newSQLiteUserRepo(t)
	ctx := context.Background()

	u, err := r.EnsureUser(ctx, "admin", "hash-1")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "admin", u.Username)
	assert.Equal(t, "hash-1", u.PasswordHash)
	assert.False(t, u.CreatedAt.IsZero())

	again, err := r.EnsureUser(ctx, "admin", "hash-2")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, "hash-1", again.PasswordHash, "existing user must not be overwritten")
}

func TestSQLUserRepository_GetByUsername_NotFound(t *testing.T) {
	r := newSQLiteUserRepo(t)

	_, err := r.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, repo.ErrUserNotFound)
}
