package domain

import "time"

// TransactionStatus is the terminal state of a logged transfer. Only
// successfully applied transfers are logged, so the only value is Completed.
type TransactionStatus string

// StatusCompleted marks a transfer that was fully applied.
const StatusCompleted TransactionStatus = "completed"

// TransactionRecord is one immutable entry in the append-only transaction
// log. Records are created exactly once per successful transfer and never
// modified or deleted.
type TransactionRecord struct {
	ID            string
	FromAccountID string
	ToAccountID   string
	Amount        int64
	Status        TransactionStatus
	CreatedAt     time.Time
}

// Validate validates the transfer described by the record.
func (r *TransactionRecord) Validate() error {
	if r.Amount <= 0 {
		return ErrInvalidAmount
	}

	if r.FromAccountID == r.ToAccountID {
		return ErrSameAccount
	}

	return nil
}
