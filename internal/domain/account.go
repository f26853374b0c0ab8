package domain

import "time"

// Account represents a user's single balance-holding account. Balances are
// stored as int64 minor currency units and are never negative between
// transactions.
type Account struct {
	ID             string
	Name           string
	Balance        int64
	InitialBalance int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CanDebit reports whether the account holds enough funds for a debit.
func (a *Account) CanDebit(amount int64) bool {
	return a.Balance >= amount
}
