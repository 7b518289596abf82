package account

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamcook/account-api/internal/types"
)

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return NewPostgresRepository(mockPool, slog.Default()), mockPool
}

func TestCreateAccount(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)

		account := &types.Account{
			ID:           "a@b.com",
			Name:         "Ann",
			PasswordHash: "$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
			Role:         types.RoleUser,
		}
		mockPool.ExpectExec("INSERT INTO accounts").
			WithArgs(account.ID, account.Name, account.PasswordHash, account.Role).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.CreateAccount(context.Background(), account)
		assert.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("DuplicateID", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)

		account := &types.Account{ID: "a@b.com", Name: "Ann", PasswordHash: "hash", Role: types.RoleUser}
		mockPool.ExpectExec("INSERT INTO accounts").
			WithArgs(account.ID, account.Name, account.PasswordHash, account.Role).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_pkey"})

		err := repo.CreateAccount(context.Background(), account)
		assert.ErrorIs(t, err, types.ErrConflict)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestGetAccountByID(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)

		createdAt := time.Now()
		rows := pgxmock.NewRows([]string{"id", "name", "password_hash", "role", "created_at"}).
			AddRow("a@b.com", "Ann", "hash", types.RoleAdmin, createdAt)
		mockPool.ExpectQuery("SELECT id, name, password_hash, role, created_at FROM accounts").
			WithArgs("a@b.com").
			WillReturnRows(rows)

		account, err := repo.GetAccountByID(context.Background(), "a@b.com")
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", account.ID)
		assert.Equal(t, "Ann", account.Name)
		assert.Equal(t, "hash", account.PasswordHash)
		assert.Equal(t, types.RoleAdmin, account.Role)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)

		mockPool.ExpectQuery("SELECT id, name, password_hash, role, created_at FROM accounts").
			WithArgs("missing@b.com").
			WillReturnError(pgx.ErrNoRows)

		account, err := repo.GetAccountByID(context.Background(), "missing@b.com")
		assert.Nil(t, account)
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)

		mockPool.ExpectExec("DELETE FROM accounts").
			WithArgs("a@b.com").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := repo.DeleteAccount(context.Background(), "a@b.com")
		assert.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("AlreadyGone", func(t *testing.T) {
		repo, mockPool := newMockRepo(t)

		mockPool.ExpectExec("DELETE FROM accounts").
			WithArgs("a@b.com").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.DeleteAccount(context.Background(), "a@b.com")
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
