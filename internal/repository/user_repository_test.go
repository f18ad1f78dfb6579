package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apperrors "accounts/internal/errors"
	"accounts/internal/model"
)

// newTestDB opens an isolated sqlite database per test. A file under t.TempDir()
// keeps every pooled connection on the same database, which ":memory:" does not.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "users.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))
	return db
}

func newTestRepository(t *testing.T) UserRepository {
	t.Helper()
	return NewUserRepository(newTestDB(t), 30*time.Second)
}

func seedUser(t *testing.T, repo UserRepository, name, email, role string) *model.User {
	t.Helper()
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Role:         role,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	require.NotZero(t, user.ID)
	return user
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	repo := newTestRepository(t)
	seedUser(t, repo, "A", "a@x.com", "viewer")

	err := repo.Create(context.Background(), &model.User{
		Name:         "B",
		Email:        "a@x.com",
		PasswordHash: "$2a$10$hash",
		Role:         "viewer",
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
}

func TestUserRepository_FindByEmail(t *testing.T) {
	repo := newTestRepository(t)
	seeded := seedUser(t, repo, "A", "a@x.com", "viewer")

	found, err := repo.FindByEmail(context.Background(), "a@x.com")
	assert.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)
	// The full record, hash included, comes back for authentication.
	assert.Equal(t, "$2a$10$hash", found.PasswordHash)

	_, err = repo.FindByEmail(context.Background(), "missing@x.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserRepository_UpdatePreservesRoleWhenNil(t *testing.T) {
	repo := newTestRepository(t)
	seeded := seedUser(t, repo, "A", "a@x.com", "admin")

	updated, err := repo.Update(context.Background(), seeded.ID, "A2", "a2@x.com", nil)
	assert.NoError(t, err)
	assert.Equal(t, "A2", updated.Name)
	assert.Equal(t, "a2@x.com", updated.Email)
	assert.Equal(t, "admin", updated.Role)

	// The stored row, not just the returned value, keeps the role.
	stored, err := repo.FindByID(context.Background(), seeded.ID)
	assert.NoError(t, err)
	assert.Equal(t, "admin", stored.Role)
}

func TestUserRepository_UpdateWithRole(t *testing.T) {
	repo := newTestRepository(t)
	seeded := seedUser(t, repo, "A", "a@x.com", "viewer")

	role := "editor"
	updated, err := repo.Update(context.Background(), seeded.ID, "A", "a@x.com", &role)
	assert.NoError(t, err)
	assert.Equal(t, "editor", updated.Role)

	stored, err := repo.FindByID(context.Background(), seeded.ID)
	assert.NoError(t, err)
	assert.Equal(t, "editor", stored.Role)
}

func TestUserRepository_UpdateNotFound(t *testing.T) {
	repo := newTestRepository(t)
	seeded := seedUser(t, repo, "A", "a@x.com", "viewer")

	_, err := repo.Update(context.Background(), seeded.ID+100, "B", "b@x.com", nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// The failed update changed nothing.
	stored, err := repo.FindByID(context.Background(), seeded.ID)
	assert.NoError(t, err)
	assert.Equal(t, "A", stored.Name)
	assert.Equal(t, "a@x.com", stored.Email)
}

func TestUserRepository_UpdateDuplicateEmail(t *testing.T) {
	repo := newTestRepository(t)
	seedUser(t, repo, "A", "a@x.com", "viewer")
	second := seedUser(t, repo, "B", "b@x.com", "viewer")

	_, err := repo.Update(context.Background(), second.ID, "B", "a@x.com", nil)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
}

func TestUserRepository_Delete(t *testing.T) {
	repo := newTestRepository(t)
	seeded := seedUser(t, repo, "A", "a@x.com", "viewer")
	other := seedUser(t, repo, "B", "b@x.com", "viewer")

	assert.NoError(t, repo.Delete(context.Background(), seeded.ID))

	// The deleted record never surfaces again.
	_, err := repo.FindByEmail(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = repo.FindByID(context.Background(), seeded.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	users, err := repo.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, other.ID, users[0].ID)

	// A second delete hits the existence check.
	assert.ErrorIs(t, repo.Delete(context.Background(), seeded.ID), apperrors.ErrNotFound)
}

func TestUserRepository_DeleteNotFound(t *testing.T) {
	repo := newTestRepository(t)
	assert.ErrorIs(t, repo.Delete(context.Background(), 42), apperrors.ErrNotFound)
}

func TestUserRepository_QueryTimeout(t *testing.T) {
	// A deadline of one nanosecond has expired before the query runs.
	repo := NewUserRepository(newTestDB(t), time.Nanosecond)
	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrStoreTimeout)
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{name: "nil", err: nil, expected: nil},
		{name: "duplicated key", err: gorm.ErrDuplicatedKey, expected: apperrors.ErrDuplicateEmail},
		{name: "record not found", err: gorm.ErrRecordNotFound, expected: apperrors.ErrNotFound},
		{name: "deadline exceeded", err: context.DeadlineExceeded, expected: apperrors.ErrStoreTimeout},
		{name: "unknown passes through", err: gorm.ErrInvalidTransaction, expected: gorm.ErrInvalidTransaction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, translate(tt.err))
		})
	}
}
