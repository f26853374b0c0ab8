package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/iho/walletd/internal/domain"
	"github.com/iho/walletd/internal/usecase"
	"github.com/iho/walletd/internal/usecase/mocks"
)

func TestAccountUseCase_CreateAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accounts := mocks.NewMockAccountStore()
	idGen := mocks.NewMockIDGenerator(ctrl)
	idGen.EXPECT().Generate().Return("acc-1")

	uc := usecase.NewAccountUseCase(accounts, idGen)

	account, err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{
		Name:           "alice",
		InitialBalance: 500,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if account.ID != "acc-1" {
		t.Errorf("expected generated ID acc-1, got %s", account.ID)
	}
	if account.Balance != 500 || account.InitialBalance != 500 {
		t.Errorf("expected opening balance 500/500, got %d/%d", account.Balance, account.InitialBalance)
	}

	stored, err := accounts.Get(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("account not persisted: %v", err)
	}
	if stored.Name != "alice" {
		t.Errorf("expected stored name alice, got %s", stored.Name)
	}
}

func TestAccountUseCase_CreateAccountRejectsBadInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accounts := mocks.NewMockAccountStore()
	idGen := mocks.NewMockIDGenerator(ctrl)

	uc := usecase.NewAccountUseCase(accounts, idGen)

	if _, err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{Name: "", InitialBalance: 0}); !errors.Is(err, domain.ErrInvalidAccountName) {
		t.Errorf("expected ErrInvalidAccountName, got %v", err)
	}

	if _, err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{Name: "bob", InitialBalance: -1}); !errors.Is(err, domain.ErrNegativeBalance) {
		t.Errorf("expected ErrNegativeBalance, got %v", err)
	}
}

func TestAccountUseCase_GetBalance(t *testing.T) {
	accounts := mocks.NewMockAccountStore()
	accounts.Seed(&domain.Account{ID: "acc-1", Balance: 300})

	uc := usecase.NewAccountUseCase(accounts, nil)

	balance, err := uc.GetBalance(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 300 {
		t.Errorf("expected balance 300, got %d", balance)
	}

	if _, err := uc.GetBalance(context.Background(), "ghost"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountUseCase_ListAccountsClampsPagination(t *testing.T) {
	accounts := mocks.NewMockAccountStore()

	var gotLimit, gotOffset int
	accounts.ListFunc = func(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
		gotLimit, gotOffset = limit, offset
		return nil, nil
	}

	uc := usecase.NewAccountUseCase(accounts, nil)

	if _, err := uc.ListAccounts(context.Background(), usecase.ListAccountsInput{Limit: -5, Offset: -1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 20 || gotOffset != 0 {
		t.Errorf("expected defaults 20/0, got %d/%d", gotLimit, gotOffset)
	}

	if _, err := uc.ListAccounts(context.Background(), usecase.ListAccountsInput{Limit: 5000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 100 {
		t.Errorf("expected limit clamped to 100, got %d", gotLimit)
	}
}
