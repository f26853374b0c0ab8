package usecase

import (
	"context"
	"time"

	"github.com/iho/walletd/internal/domain"
)

// AccountUseCase handles account provisioning and the read-only balance
// query service. Provisioning is the only path that sets a balance without
// a transfer; it happens exactly once per account.
type AccountUseCase struct {
	accounts AccountStore
	idGen    IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accounts AccountStore, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{accounts: accounts, idGen: idGen}
}

// CreateAccountInput represents input for provisioning an account.
// InitialBalance is in minor units and must not be negative.
type CreateAccountInput struct {
	Name           string
	InitialBalance int64
}

// CreateAccount provisions a new account with a non-negative opening
// balance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	if input.InitialBalance < 0 {
		return nil, domain.ErrNegativeBalance
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		Name:           input.Name,
		Balance:        input.InitialBalance,
		InitialBalance: input.InitialBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accounts.Get(ctx, id)
}

// GetBalance returns the current balance of an account. Pure delegation to
// the account store.
func (uc *AccountUseCase) GetBalance(ctx context.Context, id string) (int64, error) {
	account, err := uc.accounts.Get(ctx, id)
	if err != nil {
		return 0, err
	}

	return account.Balance, nil
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = defaultPageSize
	}

	if input.Limit > maxPageSize {
		input.Limit = maxPageSize
	}

	if input.Offset < 0 {
		input.Offset = 0
	}

	return uc.accounts.List(ctx, input.Limit, input.Offset)
}
