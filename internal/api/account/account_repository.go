package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/teamcook/account-api/internal/types"
)

var _ Repository = (*PostgresRepository)(nil)

// Repository is the account directory: a keyed store of account records.
// Its contract is uniqueness-on-create and read-your-write visibility;
// durability and same-id write serialization are delegated to the store.
type Repository interface {
	CreateAccount(ctx context.Context, account *types.Account) error
	GetAccountByID(ctx context.Context, id string) (*types.Account, error)
	DeleteAccount(ctx context.Context, id string) error
}

// PgxPool is the subset of pgxpool.Pool the repository uses. pgxmock
// satisfies it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	logger *slog.Logger
	db     PgxPool
}

func NewPostgresRepository(db PgxPool, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		db:     db,
	}
}

// CreateAccount atomically inserts the record. Concurrent creates for the
// same id serialize on the primary-key constraint; the losers observe
// types.ErrConflict.
func (r *PostgresRepository) CreateAccount(ctx context.Context, account *types.Account) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO accounts (id, name, password_hash, role) VALUES ($1, $2, $3, $4)`,
		account.ID, account.Name, account.PasswordHash, account.Role)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrUniqueViolation {
			return fmt.Errorf("account %q: %w", account.ID, types.ErrConflict)
		}
		return fmt.Errorf("create account: db insert failed: %w", err)
	}
	return nil
}

// GetAccountByID is a point lookup with no side effects.
func (r *PostgresRepository) GetAccountByID(ctx context.Context, id string) (*types.Account, error) {
	var account types.Account
	err := r.db.QueryRow(ctx,
		`SELECT id, name, password_hash, role, created_at FROM accounts WHERE id = $1`,
		id).Scan(&account.ID, &account.Name, &account.PasswordHash, &account.Role, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %q: %w", id, types.ErrNotFound)
		}
		return nil, fmt.Errorf("get account: query failed: %w", err)
	}
	return &account, nil
}

// DeleteAccount removes the record. The caller guarantees existence via a
// prior lookup, so zero affected rows is reported as not found.
func (r *PostgresRepository) DeleteAccount(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account: db delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %q: %w", id, types.ErrNotFound)
	}
	return nil
}

const pgerrUniqueViolation = "23505"
