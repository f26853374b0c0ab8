package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/walletd/internal/domain"
	"github.com/iho/walletd/internal/usecase"
)

// TransactionLog implements usecase.TransactionLog on PostgreSQL. Records
// are append-only; there is no UPDATE or DELETE path.
type TransactionLog struct {
	db querier
}

// NewTransactionLog creates a new TransactionLog.
func NewTransactionLog(pool *pgxpool.Pool) *TransactionLog {
	return newTransactionLogWithDB(pool)
}

func newTransactionLogWithDB(db querier) *TransactionLog {
	return &TransactionLog{db: db}
}

// Append writes a completed transfer record within tx.
func (l *TransactionLog) Append(ctx context.Context, tx usecase.Transaction, record *domain.TransactionRecord) error {
	pgxTx, err := pgxTxFrom(tx)
	if err != nil {
		return err
	}

	query := `INSERT INTO transactions (id, from_account_id, to_account_id, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = pgxTx.Exec(ctx, query,
		record.ID,
		record.FromAccountID,
		record.ToAccountID,
		record.Amount,
		string(record.Status),
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction record by ID.
func (l *TransactionLog) GetByID(ctx context.Context, id string) (*domain.TransactionRecord, error) {
	query := `SELECT id, from_account_id, to_account_id, amount, status, created_at
		FROM transactions WHERE id = $1`

	record, err := scanRecord(l.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionMissing
		}

		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return record, nil
}

// QueryByParticipant returns records where the account is sender or
// receiver, most recent first. The id tiebreak keeps ordering stable for
// records created in the same instant.
func (l *TransactionLog) QueryByParticipant(ctx context.Context, accountID string) ([]*domain.TransactionRecord, error) {
	query := `SELECT id, from_account_id, to_account_id, amount, status, created_at
		FROM transactions
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := l.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var records []*domain.TransactionRecord

	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

func scanRecord(row pgx.Row) (*domain.TransactionRecord, error) {
	record := &domain.TransactionRecord{}

	var status string
	if err := row.Scan(
		&record.ID,
		&record.FromAccountID,
		&record.ToAccountID,
		&record.Amount,
		&status,
		&record.CreatedAt,
	); err != nil {
		return nil, err
	}

	record.Status = domain.TransactionStatus(status)

	return record, nil
}
