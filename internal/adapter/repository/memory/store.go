// Package memory provides an in-process implementation of the account
// store and transaction log. Transfers run under per-account mutexes
// acquired in the caller's (sorted) order, with a compensation journal
// standing in for a storage-level transaction: on rollback every applied
// balance change is reversed before the locks are released, so readers
// never observe a debited-but-uncredited account.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/iho/walletd/internal/domain"
	"github.com/iho/walletd/internal/usecase"
)

var errAccountNotLocked = errors.New("account not locked by transaction")

// Store is an in-memory account store and transaction log. It implements
// usecase.AccountStore, usecase.TransactionLog and
// usecase.TransactionManager.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*lockedAccount
	records  []*domain.TransactionRecord
	byID     map[string]*domain.TransactionRecord

	// appendHook, when set, runs before a record is staged. Lets tests
	// inject storage failures between the debit and the log append.
	appendHook func(*domain.TransactionRecord) error
}

type lockedAccount struct {
	mu      sync.Mutex
	account domain.Account
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*lockedAccount),
		byID:     make(map[string]*domain.TransactionRecord),
	}
}

// Begin starts a new unit of work.
func (s *Store) Begin(ctx context.Context) (usecase.Transaction, error) {
	return &Tx{store: s}, nil
}

// Create adds a newly provisioned account.
func (s *Store) Create(ctx context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.ID]; ok {
		return domain.ErrAccountExists
	}

	s.accounts[account.ID] = &lockedAccount{account: *account}

	return nil
}

// Get returns a snapshot of an account. The read is serialized against any
// in-flight transfer touching the account, so it only ever observes
// committed (or fully compensated) state.
func (s *Store) Get(ctx context.Context, id string) (*domain.Account, error) {
	la, ok := s.lookup(id)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	la.mu.Lock()
	defer la.mu.Unlock()

	snapshot := la.account

	return &snapshot, nil
}

// GetForUpdate locks the given accounts for the duration of tx. The ids
// must already be in lock order; locking happens strictly in the order
// given.
func (s *Store) GetForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	t, err := memTx(tx)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(ids))

	for _, id := range ids {
		la, ok := s.lookup(id)
		if !ok {
			continue
		}

		la.mu.Lock()
		t.locked = append(t.locked, la)

		snapshot := la.account
		accounts = append(accounts, &snapshot)
	}

	return accounts, nil
}

// CompareAndAdjust applies balance += delta if the result stays at or
// above minBalance. The account must be locked by tx.
func (s *Store) CompareAndAdjust(ctx context.Context, tx usecase.Transaction, id string, delta, minBalance int64) (int64, error) {
	t, err := memTx(tx)
	if err != nil {
		return 0, err
	}

	if _, ok := s.lookup(id); !ok {
		return 0, domain.ErrAccountNotFound
	}

	la := t.findLocked(id)
	if la == nil {
		return 0, errAccountNotLocked
	}

	if la.account.Balance+delta < minBalance {
		return 0, domain.ErrInsufficientFunds
	}

	prevBalance := la.account.Balance
	prevUpdated := la.account.UpdatedAt

	la.account.Balance += delta
	la.account.UpdatedAt = time.Now().UTC()

	t.undo = append(t.undo, func() {
		la.account.Balance = prevBalance
		la.account.UpdatedAt = prevUpdated
	})

	return la.account.Balance, nil
}

// List returns account snapshots ordered by ID.
func (s *Store) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.accounts))
	for id := range s.accounts {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Strings(ids)

	if offset >= len(ids) {
		return nil, nil
	}

	ids = ids[offset:]
	if len(ids) > limit {
		ids = ids[:limit]
	}

	accounts := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		account, err := s.Get(ctx, id)
		if err != nil {
			continue
		}

		accounts = append(accounts, account)
	}

	return accounts, nil
}

// Totals sums current and provisioned balances across all accounts.
func (s *Store) Totals(ctx context.Context) (int64, int64, error) {
	s.mu.RLock()
	las := make([]*lockedAccount, 0, len(s.accounts))
	for _, la := range s.accounts {
		las = append(las, la)
	}
	s.mu.RUnlock()

	var balance, initial int64

	for _, la := range las {
		la.mu.Lock()
		balance += la.account.Balance
		initial += la.account.InitialBalance
		la.mu.Unlock()
	}

	return balance, initial, nil
}

// Append stages a log record; it becomes visible at commit.
func (s *Store) Append(ctx context.Context, tx usecase.Transaction, record *domain.TransactionRecord) error {
	t, err := memTx(tx)
	if err != nil {
		return err
	}

	if s.appendHook != nil {
		if err := s.appendHook(record); err != nil {
			return err
		}
	}

	staged := *record
	t.pending = append(t.pending, &staged)

	return nil
}

// GetByID retrieves a committed log record.
func (s *Store) GetByID(ctx context.Context, id string) (*domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrTransactionMissing
	}

	snapshot := *record

	return &snapshot, nil
}

// QueryByParticipant returns committed records referencing the account,
// most recent first. Records sharing a participant commit in lock order,
// so reverse append order is reverse chronological order.
func (s *Store) QueryByParticipant(ctx context.Context, accountID string) ([]*domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*domain.TransactionRecord

	for i := len(s.records) - 1; i >= 0; i-- {
		r := s.records[i]
		if r.FromAccountID == accountID || r.ToAccountID == accountID {
			snapshot := *r
			records = append(records, &snapshot)
		}
	}

	return records, nil
}

func (s *Store) lookup(id string) (*lockedAccount, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	la, ok := s.accounts[id]

	return la, ok
}

func (s *Store) commitRecords(records []*domain.TransactionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		s.records = append(s.records, r)
		s.byID[r.ID] = r
	}
}

// Tx is a unit of work over the in-memory store. Balance changes apply
// immediately under the account locks and are journaled for compensation;
// log appends stay buffered until Commit.
type Tx struct {
	store   *Store
	locked  []*lockedAccount
	undo    []func()
	pending []*domain.TransactionRecord
	done    bool
}

// Commit publishes staged log records and releases all account locks.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return nil
	}

	t.store.commitRecords(t.pending)
	t.finish()

	return nil
}

// Rollback reverses every applied balance change, in reverse order, before
// releasing the locks. After Commit it is a no-op.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}

	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}

	t.finish()

	return nil
}

func (t *Tx) finish() {
	for i := len(t.locked) - 1; i >= 0; i-- {
		t.locked[i].mu.Unlock()
	}

	t.locked = nil
	t.undo = nil
	t.pending = nil
	t.done = true
}

func (t *Tx) findLocked(id string) *lockedAccount {
	for _, la := range t.locked {
		if la.account.ID == id {
			return la
		}
	}

	return nil
}

func memTx(tx usecase.Transaction) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok {
		return nil, errors.New("transaction does not belong to the memory store")
	}

	return t, nil
}
