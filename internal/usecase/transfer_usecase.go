package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/iho/walletd/internal/domain"
)

// TransferUseCase is the single entry point for moving funds between two
// accounts. A transfer either applies the debit, the credit, and the log
// append as one unit of work, or leaves no visible effect at all.
type TransferUseCase struct {
	txManager TransactionManager
	accounts  AccountStore
	log       TransactionLog
	idGen     IDGenerator
	retrier   Retrier
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	accounts AccountStore,
	log TransactionLog,
	idGen IDGenerator,
	retrier Retrier,
) *TransferUseCase {
	if retrier == nil {
		retrier = NopRetrier{}
	}

	return &TransferUseCase{
		txManager: txManager,
		accounts:  accounts,
		log:       log,
		idGen:     idGen,
		retrier:   retrier,
	}
}

// TransferInput represents a validated transfer request. Amount is in minor
// currency units.
type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        int64
}

// TransferResult carries the appended record and the resulting balance of
// the debited account.
type TransferResult struct {
	Record      *domain.TransactionRecord
	FromBalance int64
}

// Transfer validates and atomically applies a balance transfer. Transient
// storage errors are retried; every failed attempt is fully rolled back
// before the next one starts.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	if input.FromAccountID == input.ToAccountID {
		return nil, domain.ErrSameAccount
	}

	var result *TransferResult

	err := uc.retrier.Retry(ctx, func() error {
		r, err := uc.execute(ctx, input)
		if err != nil {
			return err
		}

		result = r

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *TransferUseCase) execute(ctx context.Context, input TransferInput) (*TransferResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, storageFailure(err)
	}
	defer tx.Rollback(ctx)

	// Fixed global lock order: ascending account ID regardless of role.
	ids := []string{input.FromAccountID, input.ToAccountID}
	sort.Strings(ids)

	accounts, err := uc.accounts.GetForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, coordinatorError(err)
	}

	byID := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	from, ok := byID[input.FromAccountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	if _, ok := byID[input.ToAccountID]; !ok {
		return nil, domain.ErrAccountNotFound
	}

	if !from.CanDebit(input.Amount) {
		return nil, domain.ErrInsufficientFunds
	}

	fromBalance, err := uc.accounts.CompareAndAdjust(ctx, tx, input.FromAccountID, -input.Amount, 0)
	if err != nil {
		return nil, coordinatorError(err)
	}

	if _, err := uc.accounts.CompareAndAdjust(ctx, tx, input.ToAccountID, input.Amount, 0); err != nil {
		return nil, coordinatorError(err)
	}

	record := &domain.TransactionRecord{
		ID:            uc.idGen.Generate(),
		FromAccountID: input.FromAccountID,
		ToAccountID:   input.ToAccountID,
		Amount:        input.Amount,
		Status:        domain.StatusCompleted,
		CreatedAt:     time.Now().UTC(),
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	if err := uc.log.Append(ctx, tx, record); err != nil {
		return nil, coordinatorError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storageFailure(err)
	}

	return &TransferResult{Record: record, FromBalance: fromBalance}, nil
}

// coordinatorError passes domain error kinds through unchanged and reports
// everything else as a storage failure.
func coordinatorError(err error) error {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSameAccount):
		return err
	}

	return storageFailure(err)
}

func storageFailure(err error) error {
	if errors.Is(err, domain.ErrStorageFailure) {
		return err
	}

	return fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
}

// NopRetrier runs the operation exactly once. Used with backends that have
// no transient failure modes worth retrying.
type NopRetrier struct{}

// Retry implements Retrier.
func (NopRetrier) Retry(_ context.Context, operation func() error) error {
	return operation()
}
