package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pr-poehali-dev/bank-brill-design/src/internal/domain"
)

var ErrTxDone = errors.New("memory: transaction has already been committed or rolled back")

type accountEntry struct {
	// lock is a one-slot semaphore held by the unit of work that touches the
	// balance, so waiting on it can be abandoned when the context ends.
	lock    chan struct{}
	account domain.Account
}

// Store keeps accounts and transaction records in process memory. It
// implements the same repository interfaces as the postgres package.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*accountEntry
	byEmail  map[string]string
	records  []domain.TransactionRecord
	nextID   atomic.Int64
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*accountEntry),
		byEmail:  make(map[string]string),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	if account.ID == "" {
		return domain.Account{}, errors.New("memory: account id is required")
	}
	if account.Balance.IsNegative() {
		return domain.Account{}, errors.New("memory: balance cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(account.Email)
	if _, ok := s.byEmail[email]; ok {
		return domain.Account{}, domain.ErrEmailTaken
	}
	if _, ok := s.accounts[account.ID]; ok {
		return domain.Account{}, fmt.Errorf("memory: duplicate account id %q", account.ID)
	}

	now := s.now()
	account.Email = email
	account.CreatedAt = now
	account.UpdatedAt = now
	s.accounts[account.ID] = &accountEntry{lock: make(chan struct{}, 1), account: account}
	s.byEmail[email] = account.ID

	return account, nil
}

func (s *Store) GetByID(_ context.Context, id string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return entry.account, nil
}

func (s *Store) GetByEmail(_ context.Context, email string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return s.accounts[id].account, nil
}

func (s *Store) Begin(ctx context.Context) (domain.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{
		store:    s,
		held:     make(map[string]*accountEntry),
		balances: make(map[string]domain.Money),
	}, nil
}

func (s *Store) Debit(ctx context.Context, tx domain.Tx, accountID string, amount domain.Money) (domain.Money, error) {
	t, err := s.txFrom(tx)
	if err != nil {
		return domain.Money{}, err
	}

	current, err := t.lockBalance(ctx, accountID)
	if err != nil {
		return domain.Money{}, err
	}
	if current.LessThan(amount) {
		return domain.Money{}, domain.ErrInsufficientFunds
	}

	next := current.Sub(amount)
	t.balances[accountID] = next
	return next, nil
}

func (s *Store) Credit(ctx context.Context, tx domain.Tx, accountID string, amount domain.Money) (domain.Money, error) {
	t, err := s.txFrom(tx)
	if err != nil {
		return domain.Money{}, err
	}

	current, err := t.lockBalance(ctx, accountID)
	if err != nil {
		return domain.Money{}, err
	}

	next, err := current.Add(amount)
	if err != nil {
		return domain.Money{}, fmt.Errorf("credit %s: %w", accountID, domain.ErrBalanceLimit)
	}
	t.balances[accountID] = next
	return next, nil
}

func (s *Store) Append(ctx context.Context, tx domain.Tx, record domain.TransactionRecord) (domain.TransactionRecord, error) {
	t, err := s.txFrom(tx)
	if err != nil {
		return domain.TransactionRecord{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.TransactionRecord{}, err
	}

	s.mu.RLock()
	_, ok := s.accounts[record.AccountID]
	s.mu.RUnlock()
	if !ok {
		return domain.TransactionRecord{}, fmt.Errorf("memory: transaction references unknown account %q", record.AccountID)
	}

	record.ID = s.nextID.Add(1)
	record.CreatedAt = s.now()
	t.records = append(t.records, record)
	return record, nil
}

func (s *Store) ListByAccount(_ context.Context, accountID string) ([]domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.TransactionRecord, 0)
	for _, r := range s.records {
		if r.AccountID == accountID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) txFrom(tx domain.Tx) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t.store != s {
		return nil, fmt.Errorf("memory: foreign transaction %T", tx)
	}
	if t.done {
		return nil, ErrTxDone
	}
	return t, nil
}

// Tx stages balance changes and records until Commit. It must not be shared
// between goroutines.
type Tx struct {
	store    *Store
	held     map[string]*accountEntry
	balances map[string]domain.Money
	records  []domain.TransactionRecord
	done     bool
}

// lockBalance takes the account lock for the rest of the unit of work and
// returns the balance as seen by it.
func (t *Tx) lockBalance(ctx context.Context, accountID string) (domain.Money, error) {
	if staged, ok := t.balances[accountID]; ok {
		return staged, nil
	}

	entry, ok := t.held[accountID]
	if !ok {
		t.store.mu.RLock()
		entry, ok = t.store.accounts[accountID]
		t.store.mu.RUnlock()
		if !ok {
			return domain.Money{}, domain.ErrAccountNotFound
		}

		select {
		case entry.lock <- struct{}{}:
			t.held[accountID] = entry
		case <-ctx.Done():
			return domain.Money{}, ctx.Err()
		}
	}

	t.store.mu.RLock()
	balance := entry.account.Balance
	t.store.mu.RUnlock()
	return balance, nil
}

func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return ErrTxDone
	}
	if err := ctx.Err(); err != nil {
		t.release()
		return err
	}

	s := t.store
	now := s.now()
	s.mu.Lock()
	for id, balance := range t.balances {
		entry := s.accounts[id]
		entry.account.Balance = balance
		entry.account.UpdatedAt = now
	}
	s.records = append(s.records, t.records...)
	s.mu.Unlock()

	t.release()
	return nil
}

func (t *Tx) Rollback(context.Context) error {
	if t.done {
		return nil
	}
	t.release()
	return nil
}

func (t *Tx) release() {
	for id, entry := range t.held {
		<-entry.lock
		delete(t.held, id)
	}
	t.balances = nil
	t.records = nil
	t.done = true
}
