package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auth-service/internal/domain"
	"auth-service/internal/repository"
)

func newTestRepository(t *testing.T) repository.UserRepository {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewUserRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func TestCreateAndGetByEmail(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, &domain.User{
		Email:        "user@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	user, err := repo.GetByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "user@example.com", user.Email)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Nil(t, user.LastLoginAt)
	assert.Nil(t, user.ResetToken)
	assert.Nil(t, user.ResetTokenExpiresAt)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.User{Email: "dup@example.com", PasswordHash: "h1"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &domain.User{Email: "dup@example.com", PasswordHash: "h2"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	// first row untouched
	user, err := repo.GetByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, "h1", user.PasswordHash)
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateLastLogin(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, &domain.User{Email: "user@example.com", PasswordHash: "hash"})
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateLastLogin(ctx, id, now))

	user, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, user.LastLoginAt)
	assert.WithinDuration(t, now, *user.LastLoginAt, time.Second)
}

func TestResetTokenLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.User{Email: "user@example.com", PasswordHash: "hash"})
	require.NoError(t, err)

	expiry := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, repo.SetResetToken(ctx, "user@example.com", "token-1", expiry))

	user, err := repo.GetByResetToken(ctx, "token-1")
	require.NoError(t, err)
	require.NotNil(t, user.ResetToken)
	assert.Equal(t, "token-1", *user.ResetToken)
	require.NotNil(t, user.ResetTokenExpiresAt)
	assert.WithinDuration(t, expiry, *user.ResetTokenExpiresAt, time.Second)

	// a second request replaces the first token
	require.NoError(t, repo.SetResetToken(ctx, "user@example.com", "token-2", expiry))
	_, err = repo.GetByResetToken(ctx, "token-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.ClearResetToken(ctx, "user@example.com"))
	user, err = repo.GetByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Nil(t, user.ResetToken)
	assert.Nil(t, user.ResetTokenExpiresAt)
}

func TestSetResetToken_UnknownEmail(t *testing.T) {
	repo := newTestRepository(t)

	// zero rows affected, no error
	err := repo.SetResetToken(context.Background(), "nobody@example.com", "tok", time.Now().Add(time.Hour))
	assert.NoError(t, err)
}

func TestUpdatePasswordHash_ClearsResetToken(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, &domain.User{Email: "user@example.com", PasswordHash: "old"})
	require.NoError(t, err)
	require.NoError(t, repo.SetResetToken(ctx, "user@example.com", "token-1", time.Now().Add(time.Hour)))

	require.NoError(t, repo.UpdatePasswordHash(ctx, id, "new"))

	user, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "new", user.PasswordHash)
	assert.Nil(t, user.ResetToken)
	assert.Nil(t, user.ResetTokenExpiresAt)

	_, err = repo.GetByResetToken(ctx, "token-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
