/**
 * @description
 * In-memory implementation of the `Repository` interface. It backs the test
 * suite and serves as the boot-time fallback when no DATABASE_URL is
 * configured, so the service can run locally without Postgres.
 *
 * @notes
 * - Accounts are copied on the way in and out, so callers never share memory
 *   with the store's internal records.
 */

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/transfa/ledger-service/internal/domain"
)

// MemoryRepository is a mutex-guarded, map-backed account store.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[int64]*domain.Account
	seq      int64 // creation order tiebreaker for FindAllByType
	order    map[int64]int64
}

// NewMemoryRepository creates an empty in-memory account store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		accounts: make(map[int64]*domain.Account),
		order:    make(map[int64]int64),
	}
}

func cloneAccount(a *domain.Account) *domain.Account {
	cp := *a
	if a.BonusScore != nil {
		cp.BonusScore = domain.Int64Ptr(*a.BonusScore)
	}
	return &cp
}

// FindByNumber returns a copy of the account with the given number.
func (r *MemoryRepository) FindByNumber(ctx context.Context, number int64) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[number]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return cloneAccount(account), nil
}

// CreateAccount stores a new account, assigning id and timestamps.
func (r *MemoryRepository) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.Number]; exists {
		return nil, ErrAccountExists
	}

	record := cloneAccount(account)
	record.ID = uuid.New()
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	r.accounts[account.Number] = record
	r.seq++
	r.order[account.Number] = r.seq
	return cloneAccount(record), nil
}

// UpdateAccount applies the non-nil patch fields to the matching record.
func (r *MemoryRepository) UpdateAccount(ctx context.Context, number int64, patch domain.AccountPatch) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[number]
	if !ok {
		return nil, ErrAccountNotFound
	}

	if patch.Balance != nil {
		account.Balance = *patch.Balance
	}
	if patch.BonusScore != nil {
		account.BonusScore = domain.Int64Ptr(*patch.BonusScore)
	}
	account.UpdatedAt = time.Now().UTC()

	return cloneAccount(account), nil
}

// FindAllByType returns copies of every account of the given type in creation order.
func (r *MemoryRepository) FindAllByType(ctx context.Context, accountType domain.AccountType) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var accounts []*domain.Account
	for _, account := range r.accounts {
		if account.Type == accountType {
			accounts = append(accounts, cloneAccount(account))
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		return r.order[accounts[i].Number] < r.order[accounts[j].Number]
	})
	return accounts, nil
}

var _ Repository = (*MemoryRepository)(nil)
