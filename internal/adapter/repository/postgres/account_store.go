package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/walletd/internal/domain"
	"github.com/iho/walletd/internal/usecase"
)

const pgErrUniqueViolation = "23505"

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AccountStore implements usecase.AccountStore on PostgreSQL. Balances are
// stored as bigint minor units; the floor check in CompareAndAdjust runs
// inside the UPDATE so the row lock covers it.
type AccountStore struct {
	db querier
}

// NewAccountStore creates a new AccountStore.
func NewAccountStore(pool *pgxpool.Pool) *AccountStore {
	return newAccountStoreWithDB(pool)
}

func newAccountStoreWithDB(db querier) *AccountStore {
	return &AccountStore{db: db}
}

// Create inserts a newly provisioned account.
func (s *AccountStore) Create(ctx context.Context, account *domain.Account) error {
	query := `INSERT INTO accounts (id, name, balance, initial_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.Exec(ctx, query,
		account.ID,
		account.Name,
		account.Balance,
		account.InitialBalance,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.ErrAccountExists
		}

		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// Get retrieves an account by ID.
func (s *AccountStore) Get(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT id, name, balance, initial_balance, created_at, updated_at
		FROM accounts WHERE id = $1`

	account := &domain.Account{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&account.ID,
		&account.Name,
		&account.Balance,
		&account.InitialBalance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return account, nil
}

// GetForUpdate locks the given accounts with FOR UPDATE. The ORDER BY
// matches the caller's sorted lock order, so concurrent transfers acquire
// row locks in the same sequence.
func (s *AccountStore) GetForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, name, balance, initial_balance, created_at, updated_at
		FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE`

	rows, err := pgxTx.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0, len(ids))

	for rows.Next() {
		account := &domain.Account{}
		if err := rows.Scan(
			&account.ID,
			&account.Name,
			&account.Balance,
			&account.InitialBalance,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// CompareAndAdjust applies balance += delta if the result stays at or
// above minBalance, returning the new balance. The condition is evaluated
// by the UPDATE itself under the row lock taken by GetForUpdate.
func (s *AccountStore) CompareAndAdjust(ctx context.Context, tx usecase.Transaction, id string, delta, minBalance int64) (int64, error) {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return 0, err
	}

	query := `UPDATE accounts
		SET balance = balance + $2, updated_at = $3
		WHERE id = $1 AND balance + $2 >= $4
		RETURNING balance`

	var balance int64
	err = pgxTx.QueryRow(ctx, query, id, delta, time.Now().UTC(), minBalance).Scan(&balance)
	if err == nil {
		return balance, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to adjust balance: %w", err)
	}

	// No row matched: either the account is missing or the floor check
	// failed. The row is locked, so a second read is stable.
	var exists bool
	if err := pgxTx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return 0, fmt.Errorf("failed to adjust balance: %w", err)
	}

	if !exists {
		return 0, domain.ErrAccountNotFound
	}

	return 0, domain.ErrInsufficientFunds
}

// List returns accounts ordered by ID.
func (s *AccountStore) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	query := `SELECT id, name, balance, initial_balance, created_at, updated_at
		FROM accounts ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := s.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account

	for rows.Next() {
		account := &domain.Account{}
		if err := rows.Scan(
			&account.ID,
			&account.Name,
			&account.Balance,
			&account.InitialBalance,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// Totals sums current and provisioned balances across all accounts.
func (s *AccountStore) Totals(ctx context.Context) (int64, int64, error) {
	query := `SELECT COALESCE(SUM(balance), 0), COALESCE(SUM(initial_balance), 0) FROM accounts`

	var balance, initial int64
	if err := s.db.QueryRow(ctx, query).Scan(&balance, &initial); err != nil {
		return 0, 0, fmt.Errorf("failed to sum balances: %w", err)
	}

	return balance, initial, nil
}
