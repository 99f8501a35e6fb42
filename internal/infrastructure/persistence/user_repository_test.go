package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revendo/backend/internal/domain/identity"
	"github.com/revendo/backend/internal/domain/shared"
)

var userColumns = []string{
	"id", "created_at", "updated_at", "email", "password_hash",
	"display_name", "status", "last_login_at", "failed_attempts", "locked_until",
}

func TestGormUserRepositoryFindByEmail(t *testing.T) {
	t.Run("matches email case-insensitively", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormUserRepository(db)

		userID := uuid.New()
		now := time.Now()
		rows := sqlmock.NewRows(userColumns).
			AddRow(userID, now, now, "alice@example.com", "$2a$12$hash",
				"Alice", identity.UserStatusActive, nil, 0, nil)

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("alice@example.com", 1).
			WillReturnRows(rows)

		user, err := repo.FindByEmail(context.Background(), "  Alice@Example.COM ")
		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for unknown email", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormUserRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("nobody@example.com", 1).
			WillReturnRows(sqlmock.NewRows(userColumns))

		user, err := repo.FindByEmail(context.Background(), "nobody@example.com")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormUserRepositoryDelete(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormUserRepository(db)

	userID := uuid.New()
	mock.ExpectExec(`DELETE FROM "users" WHERE id = \$1`).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), userID), shared.ErrNotFound)
}
