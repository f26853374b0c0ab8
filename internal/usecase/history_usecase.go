package usecase

import (
	"context"

	"github.com/iho/walletd/internal/domain"
)

// HistoryUseCase exposes read access to the transaction log.
type HistoryUseCase struct {
	accounts AccountStore
	log      TransactionLog
}

// NewHistoryUseCase creates a new HistoryUseCase.
func NewHistoryUseCase(accounts AccountStore, log TransactionLog) *HistoryUseCase {
	return &HistoryUseCase{accounts: accounts, log: log}
}

// GetHistory returns every transfer the account participated in, most
// recent first. The result is materialized; volume is bounded by the
// account's own activity.
func (uc *HistoryUseCase) GetHistory(ctx context.Context, accountID string) ([]*domain.TransactionRecord, error) {
	if _, err := uc.accounts.Get(ctx, accountID); err != nil {
		return nil, err
	}

	return uc.log.QueryByParticipant(ctx, accountID)
}

// GetTransaction retrieves a single log record by ID.
func (uc *HistoryUseCase) GetTransaction(ctx context.Context, id string) (*domain.TransactionRecord, error) {
	return uc.log.GetByID(ctx, id)
}
