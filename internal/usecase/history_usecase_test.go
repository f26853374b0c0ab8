package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iho/walletd/internal/domain"
	"github.com/iho/walletd/internal/usecase"
	"github.com/iho/walletd/internal/usecase/mocks"
)

func TestHistoryUseCase_GetHistory(t *testing.T) {
	accounts := mocks.NewMockAccountStore()
	accounts.Seed(&domain.Account{ID: "acc-x", Balance: 100})

	log := mocks.NewMockTransactionLog()
	for _, r := range []*domain.TransactionRecord{
		{ID: "txn-1", FromAccountID: "acc-x", ToAccountID: "acc-y", Amount: 10},
		{ID: "txn-2", FromAccountID: "acc-z", ToAccountID: "acc-y", Amount: 20},
		{ID: "txn-3", FromAccountID: "acc-y", ToAccountID: "acc-x", Amount: 30},
	} {
		if err := log.Append(context.Background(), nil, r); err != nil {
			t.Fatalf("seed append failed: %v", err)
		}
	}

	uc := usecase.NewHistoryUseCase(accounts, log)

	records, err := uc.GetHistory(context.Background(), "acc-x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records for acc-x, got %d", len(records))
	}

	// Most recent first.
	if records[0].ID != "txn-3" || records[1].ID != "txn-1" {
		t.Errorf("expected [txn-3 txn-1], got [%s %s]", records[0].ID, records[1].ID)
	}
}

func TestHistoryUseCase_GetHistoryUnknownAccount(t *testing.T) {
	uc := usecase.NewHistoryUseCase(mocks.NewMockAccountStore(), mocks.NewMockTransactionLog())

	if _, err := uc.GetHistory(context.Background(), "ghost"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestHistoryUseCase_GetTransaction(t *testing.T) {
	log := mocks.NewMockTransactionLog()
	if err := log.Append(context.Background(), nil, &domain.TransactionRecord{ID: "txn-1", FromAccountID: "a", ToAccountID: "b", Amount: 5}); err != nil {
		t.Fatalf("seed append failed: %v", err)
	}

	uc := usecase.NewHistoryUseCase(mocks.NewMockAccountStore(), log)

	record, err := uc.GetTransaction(context.Background(), "txn-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Amount != 5 {
		t.Errorf("expected amount 5, got %d", record.Amount)
	}

	if _, err := uc.GetTransaction(context.Background(), "nope"); !errors.Is(err, domain.ErrTransactionMissing) {
		t.Errorf("expected ErrTransactionMissing, got %v", err)
	}
}
