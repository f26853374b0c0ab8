package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")

	// Transfer errors
	ErrSameAccount        = errors.New("cannot transfer to same account")
	ErrInvalidAmount      = errors.New("amount must be a positive integer")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrTransactionMissing = errors.New("transaction not found")

	// ErrStorageFailure wraps infrastructure errors surfaced during commit.
	// Callers may retry; no partial effect is left behind.
	ErrStorageFailure = errors.New("storage unavailable")
)
