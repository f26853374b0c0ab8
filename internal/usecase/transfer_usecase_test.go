package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iho/walletd/internal/domain"
	"github.com/iho/walletd/internal/usecase"
	"github.com/iho/walletd/internal/usecase/mocks"
)

func newTransferFixture() (*usecase.TransferUseCase, *mocks.MockAccountStore, *mocks.MockTransactionLog, *mocks.MockTransactionManager) {
	accounts := mocks.NewMockAccountStore()
	log := mocks.NewMockTransactionLog()
	txMgr := mocks.NewMockTransactionManager()
	idGen := mocks.NewSequenceIDGenerator("txn")

	uc := usecase.NewTransferUseCase(txMgr, accounts, log, idGen, nil)

	return uc, accounts, log, txMgr
}

func TestTransferUseCase_Transfer(t *testing.T) {
	tests := []struct {
		name      string
		input     usecase.TransferInput
		seed      []*domain.Account
		wantErr   error
		wantFrom  int64
		wantTo    int64
		wantLog   int
		checkFrom string
		checkTo   string
	}{
		{
			name:      "successful transfer",
			input:     usecase.TransferInput{FromAccountID: "acc-x", ToAccountID: "acc-y", Amount: 200},
			seed:      []*domain.Account{{ID: "acc-x", Balance: 500}, {ID: "acc-y", Balance: 50}},
			wantFrom:  300,
			wantTo:    250,
			wantLog:   1,
			checkFrom: "acc-x",
			checkTo:   "acc-y",
		},
		{
			name:    "zero amount rejected",
			input:   usecase.TransferInput{FromAccountID: "acc-x", ToAccountID: "acc-y", Amount: 0},
			seed:    []*domain.Account{{ID: "acc-x", Balance: 500}, {ID: "acc-y", Balance: 50}},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "negative amount rejected",
			input:   usecase.TransferInput{FromAccountID: "acc-x", ToAccountID: "acc-y", Amount: -50},
			seed:    []*domain.Account{{ID: "acc-x", Balance: 500}, {ID: "acc-y", Balance: 50}},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "self transfer rejected",
			input:   usecase.TransferInput{FromAccountID: "acc-x", ToAccountID: "acc-x", Amount: 100},
			seed:    []*domain.Account{{ID: "acc-x", Balance: 500}},
			wantErr: domain.ErrSameAccount,
		},
		{
			name:    "missing source account",
			input:   usecase.TransferInput{FromAccountID: "ghost", ToAccountID: "acc-y", Amount: 100},
			seed:    []*domain.Account{{ID: "acc-y", Balance: 50}},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:    "missing destination account",
			input:   usecase.TransferInput{FromAccountID: "acc-x", ToAccountID: "ghost", Amount: 100},
			seed:    []*domain.Account{{ID: "acc-x", Balance: 500}},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:    "insufficient funds",
			input:   usecase.TransferInput{FromAccountID: "acc-x", ToAccountID: "acc-y", Amount: 200},
			seed:    []*domain.Account{{ID: "acc-x", Balance: 100}, {ID: "acc-y", Balance: 0}},
			wantErr: domain.ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, accounts, log, _ := newTransferFixture()
			before := make(map[string]int64, len(tt.seed))
			for _, a := range tt.seed {
				before[a.ID] = a.Balance
				accounts.Seed(a)
			}

			result, err := uc.Transfer(context.Background(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				if len(log.Records()) != 0 {
					t.Errorf("expected no log records on failure, got %d", len(log.Records()))
				}
				for id, want := range before {
					got, _ := accounts.Get(context.Background(), id)
					if got.Balance != want {
						t.Errorf("balance of %s changed on failed transfer: %d", id, got.Balance)
					}
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.FromBalance != tt.wantFrom {
				t.Errorf("expected from balance %d, got %d", tt.wantFrom, result.FromBalance)
			}

			from, _ := accounts.Get(context.Background(), tt.checkFrom)
			to, _ := accounts.Get(context.Background(), tt.checkTo)
			if from.Balance != tt.wantFrom {
				t.Errorf("expected source balance %d, got %d", tt.wantFrom, from.Balance)
			}
			if to.Balance != tt.wantTo {
				t.Errorf("expected destination balance %d, got %d", tt.wantTo, to.Balance)
			}

			records := log.Records()
			if len(records) != tt.wantLog {
				t.Fatalf("expected %d log records, got %d", tt.wantLog, len(records))
			}

			r := records[0]
			if r.ID != result.Record.ID {
				t.Errorf("result record ID %s does not match log %s", result.Record.ID, r.ID)
			}
			if r.FromAccountID != tt.checkFrom || r.ToAccountID != tt.checkTo || r.Amount != tt.input.Amount {
				t.Errorf("log record does not match transfer: %+v", r)
			}
			if r.Status != domain.StatusCompleted {
				t.Errorf("expected completed status, got %s", r.Status)
			}
		})
	}
}

func TestTransferUseCase_AppendFailureRollsBack(t *testing.T) {
	uc, accounts, log, txMgr := newTransferFixture()

	accounts.Seed(&domain.Account{ID: "acc-x", Balance: 500})
	accounts.Seed(&domain.Account{ID: "acc-y", Balance: 0})

	tx := &mocks.MockTransaction{}
	txMgr.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
		return tx, nil
	}

	appendErr := errors.New("disk full")
	log.AppendFunc = func(ctx context.Context, tx usecase.Transaction, record *domain.TransactionRecord) error {
		return appendErr
	}

	_, err := uc.Transfer(context.Background(), usecase.TransferInput{
		FromAccountID: "acc-x",
		ToAccountID:   "acc-y",
		Amount:        200,
	})

	if !errors.Is(err, domain.ErrStorageFailure) {
		t.Fatalf("expected storage failure, got %v", err)
	}

	if tx.Committed {
		t.Error("transaction must not commit when the log append fails")
	}
	if !tx.RolledBack {
		t.Error("transaction must roll back when the log append fails")
	}
}

func TestTransferUseCase_CommitFailure(t *testing.T) {
	uc, accounts, _, txMgr := newTransferFixture()

	accounts.Seed(&domain.Account{ID: "acc-x", Balance: 500})
	accounts.Seed(&domain.Account{ID: "acc-y", Balance: 0})

	txMgr.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
		return &mocks.MockTransaction{
			CommitFunc: func(ctx context.Context) error {
				return errors.New("connection reset")
			},
		}, nil
	}

	_, err := uc.Transfer(context.Background(), usecase.TransferInput{
		FromAccountID: "acc-x",
		ToAccountID:   "acc-y",
		Amount:        200,
	})

	if !errors.Is(err, domain.ErrStorageFailure) {
		t.Fatalf("expected storage failure, got %v", err)
	}
}

func TestTransferUseCase_BeginFailure(t *testing.T) {
	uc, accounts, _, txMgr := newTransferFixture()

	accounts.Seed(&domain.Account{ID: "acc-x", Balance: 500})
	accounts.Seed(&domain.Account{ID: "acc-y", Balance: 0})

	txMgr.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
		return nil, errors.New("pool exhausted")
	}

	_, err := uc.Transfer(context.Background(), usecase.TransferInput{
		FromAccountID: "acc-x",
		ToAccountID:   "acc-y",
		Amount:        200,
	})

	if !errors.Is(err, domain.ErrStorageFailure) {
		t.Fatalf("expected storage failure, got %v", err)
	}
}
