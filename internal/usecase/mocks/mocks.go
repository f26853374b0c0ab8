package mocks

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/iho/walletd/internal/domain"
	"github.com/iho/walletd/internal/usecase"
)

// MockAccountStore is a mock implementation of AccountStore.
type MockAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc           func(ctx context.Context, account *domain.Account) error
	GetFunc              func(ctx context.Context, id string) (*domain.Account, error)
	GetForUpdateFunc     func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	CompareAndAdjustFunc func(ctx context.Context, tx usecase.Transaction, id string, delta, minBalance int64) (int64, error)
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	TotalsFunc           func(ctx context.Context) (int64, int64, error)
}

func NewMockAccountStore() *MockAccountStore {
	return &MockAccountStore{
		accounts: make(map[string]*domain.Account),
	}
}

// Seed adds an account directly, bypassing Create hooks.
func (m *MockAccountStore) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

func (m *MockAccountStore) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountStore) Get(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountStore) GetForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

func (m *MockAccountStore) CompareAndAdjust(ctx context.Context, tx usecase.Transaction, id string, delta, minBalance int64) (int64, error) {
	if m.CompareAndAdjustFunc != nil {
		return m.CompareAndAdjustFunc(ctx, tx, id, delta, minBalance)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return 0, domain.ErrAccountNotFound
	}
	if acc.Balance+delta < minBalance {
		return 0, domain.ErrInsufficientFunds
	}
	acc.Balance += delta
	return acc.Balance, nil
}

func (m *MockAccountStore) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.accounts))
	for id := range m.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var accounts []*domain.Account
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(accounts) == limit {
			break
		}
		accounts = append(accounts, m.accounts[id])
	}
	return accounts, nil
}

func (m *MockAccountStore) Totals(ctx context.Context) (int64, int64, error) {
	if m.TotalsFunc != nil {
		return m.TotalsFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var balance, initial int64
	for _, acc := range m.accounts {
		balance += acc.Balance
		initial += acc.InitialBalance
	}
	return balance, initial, nil
}

// MockTransactionLog is a mock implementation of TransactionLog.
type MockTransactionLog struct {
	mu      sync.RWMutex
	records []*domain.TransactionRecord

	AppendFunc             func(ctx context.Context, tx usecase.Transaction, record *domain.TransactionRecord) error
	GetByIDFunc            func(ctx context.Context, id string) (*domain.TransactionRecord, error)
	QueryByParticipantFunc func(ctx context.Context, accountID string) ([]*domain.TransactionRecord, error)
}

func NewMockTransactionLog() *MockTransactionLog {
	return &MockTransactionLog{}
}

func (m *MockTransactionLog) Append(ctx context.Context, tx usecase.Transaction, record *domain.TransactionRecord) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, tx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *MockTransactionLog) GetByID(ctx context.Context, id string) (*domain.TransactionRecord, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrTransactionMissing
}

func (m *MockTransactionLog) QueryByParticipant(ctx context.Context, accountID string) ([]*domain.TransactionRecord, error) {
	if m.QueryByParticipantFunc != nil {
		return m.QueryByParticipantFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var records []*domain.TransactionRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if r.FromAccountID == accountID || r.ToAccountID == accountID {
			records = append(records, r)
		}
	}
	return records, nil
}

// Records returns a snapshot of everything appended so far.
func (m *MockTransactionLog) Records() []*domain.TransactionRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.TransactionRecord, len(m.records))
	copy(out, m.records)
	return out
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// SequenceIDGenerator generates deterministic IDs for tests.
type SequenceIDGenerator struct {
	mu      sync.Mutex
	prefix  string
	counter int
}

func NewSequenceIDGenerator(prefix string) *SequenceIDGenerator {
	return &SequenceIDGenerator{prefix: prefix}
}

func (g *SequenceIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return g.prefix + "-" + strconv.Itoa(g.counter)
}
