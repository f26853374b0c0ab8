package dto

import (
	"time"

	"github.com/iho/walletd/internal/domain"
	"github.com/iho/walletd/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Balance        int64     `json:"balance"`
	InitialBalance int64     `json:"initial_balance"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		Name:           a.Name,
		Balance:        a.Balance,
		InitialBalance: a.InitialBalance,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// BalanceResponse represents a balance query result.
type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
}

// TransferResponse represents a completed transfer. FromBalance is the
// source balance immediately after the debit.
type TransferResponse struct {
	TransactionID string    `json:"transaction_id"`
	FromAccountID string    `json:"from_account_id"`
	ToAccountID   string    `json:"to_account_id"`
	Amount        int64     `json:"amount"`
	Status        string    `json:"status"`
	FromBalance   int64     `json:"from_balance"`
	CreatedAt     time.Time `json:"created_at"`
}

// TransferFromResult converts a transfer result to response.
func TransferFromResult(result *usecase.TransferResult) *TransferResponse {
	return &TransferResponse{
		TransactionID: result.Record.ID,
		FromAccountID: result.Record.FromAccountID,
		ToAccountID:   result.Record.ToAccountID,
		Amount:        result.Record.Amount,
		Status:        string(result.Record.Status),
		FromBalance:   result.FromBalance,
		CreatedAt:     result.Record.CreatedAt,
	}
}

// TransactionResponse represents a transaction log record.
type TransactionResponse struct {
	ID            string    `json:"id"`
	FromAccountID string    `json:"from_account_id"`
	ToAccountID   string    `json:"to_account_id"`
	Amount        int64     `json:"amount"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// TransactionFromDomain converts a domain record to response.
func TransactionFromDomain(r *domain.TransactionRecord) *TransactionResponse {
	return &TransactionResponse{
		ID:            r.ID,
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        r.Amount,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
	}
}

// TransactionsFromDomain converts domain records to responses.
func TransactionsFromDomain(records []*domain.TransactionRecord) []*TransactionResponse {
	result := make([]*TransactionResponse, len(records))
	for i, r := range records {
		result[i] = TransactionFromDomain(r)
	}
	return result
}

// DriftResponse reports one account whose balance the log cannot explain.
type DriftResponse struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
	Replayed  int64  `json:"replayed"`
}

// ConservationResponse represents the result of a conservation check.
type ConservationResponse struct {
	Conserved        bool             `json:"conserved"`
	TotalBalance     int64            `json:"total_balance"`
	TotalProvisioned int64            `json:"total_provisioned"`
	Drift            []*DriftResponse `json:"drift,omitempty"`
}

// ConservationFromReport converts a conservation report to response.
func ConservationFromReport(report *usecase.ConservationReport) *ConservationResponse {
	resp := &ConservationResponse{
		Conserved:        report.Conserved,
		TotalBalance:     report.TotalBalance,
		TotalProvisioned: report.TotalProvisioned,
	}

	for _, d := range report.Drift {
		resp.Drift = append(resp.Drift, &DriftResponse{
			AccountID: d.AccountID,
			Balance:   d.Balance,
			Replayed:  d.Replayed,
		})
	}

	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
