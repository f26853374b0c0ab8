package usecase

import (
	"context"
	"time"

	"github.com/iho/walletd/internal/domain"
)

// AccountStore defines data access for account balances. CompareAndAdjust
// is the only mutation path for balances after provisioning.
type AccountStore interface {
	Create(ctx context.Context, account *domain.Account) error
	Get(ctx context.Context, id string) (*domain.Account, error)
	// GetForUpdate locks the given accounts for the duration of tx. The ids
	// must be sorted ascending; locking in that fixed order prevents
	// deadlock between concurrent transfers. Missing ids are omitted from
	// the result.
	GetForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	// CompareAndAdjust atomically applies balance += delta if the resulting
	// balance would be at least minBalance, and returns the new balance.
	// Returns domain.ErrInsufficientFunds when the condition fails and
	// domain.ErrAccountNotFound when the account does not exist; state is
	// unchanged in both cases.
	CompareAndAdjust(ctx context.Context, tx Transaction, id string, delta, minBalance int64) (int64, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	// Totals returns the sum of current balances and the sum of provisioned
	// initial balances across all accounts.
	Totals(ctx context.Context) (balance, initial int64, err error)
}

// TransactionLog defines the append-only audit trail of completed transfers.
type TransactionLog interface {
	Append(ctx context.Context, tx Transaction, record *domain.TransactionRecord) error
	GetByID(ctx context.Context, id string) (*domain.TransactionRecord, error)
	// QueryByParticipant returns every record referencing the account as
	// sender or receiver, most recent first.
	QueryByParticipant(ctx context.Context, accountID string) ([]*domain.TransactionRecord, error)
}

// Transaction represents a storage unit of work. Rollback after Commit is a
// no-op, so callers may defer Rollback unconditionally.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles unit-of-work lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique, monotonically sortable IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops the in-flight placeholder for a key so a later request
	// may retry.
	Release(ctx context.Context, key string) error
}
