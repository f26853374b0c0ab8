package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrNegativeBalance    = errors.New("initial balance cannot be negative")
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MinAccountNameLength = 1

	// MaxTransferAmount caps a single transfer, in minor units.
	MaxTransferAmount int64 = 1_000_000_000_000
)

// ParseAmount converts an API-level amount into minor units. The value must
// be a strictly positive integer; fractional or non-positive values are
// rejected with ErrInvalidAmount.
func ParseAmount(amount decimal.Decimal) (int64, error) {
	if !amount.IsInteger() {
		return 0, fmt.Errorf("%w: fractional minor units", ErrInvalidAmount)
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return 0, ErrInvalidAmount
	}

	if amount.GreaterThan(decimal.NewFromInt(MaxTransferAmount)) {
		return 0, fmt.Errorf("%w: maximum amount is %d", ErrAmountTooLarge, MaxTransferAmount)
	}

	return amount.IntPart(), nil
}

// ParseInitialBalance converts a provisioning balance into minor units.
// Zero is allowed; fractional and negative values are not.
func ParseInitialBalance(balance decimal.Decimal) (int64, error) {
	if !balance.IsInteger() {
		return 0, fmt.Errorf("%w: fractional minor units", ErrInvalidAmount)
	}

	if balance.IsNegative() {
		return 0, ErrNegativeBalance
	}

	return balance.IntPart(), nil
}

// ValidateAccountName validates account name length.
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinAccountNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}
