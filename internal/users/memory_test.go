package users_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidyavipul/Mini-User-Management-System/internal/users"
)

func seed(t *testing.T, repo *users.MemoryRepository, email string) *users.User {
	t.Helper()
	user := &users.User{
		FullName:     "Ada Lovelace",
		Email:        email,
		PasswordHash: "hash",
		Role:         users.RoleUser,
		Status:       users.StatusActive,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestMemoryCreateRejectsDuplicateEmail(t *testing.T) {
	repo := users.NewMemoryRepository()
	first := seed(t, repo, "ada@example.com")
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	err := repo.Create(context.Background(), &users.User{Email: "ada@example.com"})
	assert.ErrorIs(t, err, users.ErrDuplicateEmail)

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestMemoryFindMissing(t *testing.T) {
	repo := users.NewMemoryRepository()
	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, users.ErrNotFound)
	_, err = repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, users.ErrNotFound)
}

func TestMemoryUpdateProfileEmail(t *testing.T) {
	ctx := context.Background()
	repo := users.NewMemoryRepository()
	ada := seed(t, repo, "ada@example.com")
	seed(t, repo, "grace@example.com")

	taken := "grace@example.com"
	_, err := repo.UpdateProfile(ctx, ada.ID, users.ProfileUpdate{Email: &taken})
	assert.ErrorIs(t, err, users.ErrDuplicateEmail)

	fresh := "countess@example.com"
	updated, err := repo.UpdateProfile(ctx, ada.ID, users.ProfileUpdate{Email: &fresh})
	require.NoError(t, err)
	assert.Equal(t, fresh, updated.Email)

	_, err = repo.FindByEmail(ctx, "ada@example.com")
	assert.ErrorIs(t, err, users.ErrNotFound)
	found, err := repo.FindByEmail(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, ada.ID, found.ID)

	exists, err := repo.EmailExists(ctx, fresh, ada.ID)
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = repo.EmailExists(ctx, fresh, uuid.New())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryPromoteAndStatus(t *testing.T) {
	ctx := context.Background()
	repo := users.NewMemoryRepository()
	ada := seed(t, repo, "ada@example.com")

	off, err := repo.SetStatus(ctx, ada.ID, users.StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, users.StatusInactive, off.Status)

	promoted, err := repo.Promote(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, users.RoleAdmin, promoted.Role)
	assert.Equal(t, users.StatusActive, promoted.Status)

	_, err = repo.Promote(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, users.ErrNotFound)
}

func TestMemoryRecordLoginAndPassword(t *testing.T) {
	ctx := context.Background()
	repo := users.NewMemoryRepository()
	ada := seed(t, repo, "ada@example.com")

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.RecordLogin(ctx, ada.ID, at))
	require.NoError(t, repo.UpdatePassword(ctx, ada.ID, "new-hash"))

	got, err := repo.FindByID(ctx, ada.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.True(t, got.LastLogin.Equal(at))
	assert.Equal(t, "new-hash", got.PasswordHash)

	assert.ErrorIs(t, repo.UpdatePassword(ctx, uuid.New(), "x"), users.ErrNotFound)
}

func TestMemoryListPages(t *testing.T) {
	ctx := context.Background()
	repo := users.NewMemoryRepository()
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		seed(t, repo, email)
	}

	page, err := repo.List(ctx, users.ListFilter{Offset: 0, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := repo.List(ctx, users.ListFilter{Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	none, err := repo.List(ctx, users.ListFilter{Offset: 10, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := repo.List(ctx, users.ListFilter{Offset: 1, Limit: math.MaxInt})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemoryListRejectsNegativeFilter(t *testing.T) {
	ctx := context.Background()
	repo := users.NewMemoryRepository()
	seed(t, repo, "a@example.com")

	for _, filter := range []users.ListFilter{
		{Offset: -20, Limit: 10},
		{Offset: 0, Limit: -1},
	} {
		_, err := repo.List(ctx, filter)
		assert.ErrorIs(t, err, users.ErrInvalidFilter)
	}
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := users.NewMemoryRepository()
	ada := seed(t, repo, "ada@example.com")

	require.NoError(t, repo.Delete(ctx, ada.ID))
	_, err := repo.FindByID(ctx, ada.ID)
	assert.ErrorIs(t, err, users.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, ada.ID), users.ErrNotFound)
}
