package dto

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/walletd/internal/domain"
)

func TestCreateTransferRequestToUseCaseInput(t *testing.T) {
	req := &CreateTransferRequest{
		FromAccountID: "acc-a",
		ToAccountID:   "acc-b",
		Amount:        decimal.NewFromInt(200),
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input.Amount != 200 {
		t.Errorf("expected amount 200, got %d", input.Amount)
	}
	if input.FromAccountID != "acc-a" || input.ToAccountID != "acc-b" {
		t.Errorf("unexpected input %+v", input)
	}
}

func TestCreateTransferRequestRejectsFractionalAmount(t *testing.T) {
	req := &CreateTransferRequest{
		FromAccountID: "acc-a",
		ToAccountID:   "acc-b",
		Amount:        decimal.RequireFromString("10.5"),
	}

	if _, err := req.ToUseCaseInput(); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestCreateTransferRequestRejectsNonPositiveAmount(t *testing.T) {
	for _, raw := range []string{"0", "-5"} {
		req := &CreateTransferRequest{
			FromAccountID: "acc-a",
			ToAccountID:   "acc-b",
			Amount:        decimal.RequireFromString(raw),
		}

		if _, err := req.ToUseCaseInput(); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("amount %s: expected ErrInvalidAmount, got %v", raw, err)
		}
	}
}

func TestCreateAccountRequestRejectsNegativeBalance(t *testing.T) {
	req := &CreateAccountRequest{
		Name:           "alice",
		InitialBalance: decimal.NewFromInt(-1),
	}

	if _, err := req.ToUseCaseInput(); !errors.Is(err, domain.ErrNegativeBalance) {
		t.Errorf("expected ErrNegativeBalance, got %v", err)
	}
}
