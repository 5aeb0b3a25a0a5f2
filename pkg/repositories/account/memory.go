package account

import (
	"context"
	"sync"
	"time"

	"github.com/kopeyka/casino/pkg/entities"
)

// MemoryRepository implements Repository using in-memory storage
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]*entities.Account
	history  map[string][]*entities.HistoryRecord
}

// NewMemoryRepository creates a new in-memory account repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		accounts: make(map[string]*entities.Account),
		history:  make(map[string][]*entities.HistoryRecord),
	}
}

// GetAccount retrieves an account by user ID
func (r *MemoryRepository) GetAccount(ctx context.Context, userID string) (*entities.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acct, exists := r.accounts[userID]
	if !exists {
		return nil, ErrAccountNotFound
	}

	// Return a copy to prevent concurrent modification
	acctCopy := *acct
	return &acctCopy, nil
}

// CreateAccount stores a new account
func (r *MemoryRepository) CreateAccount(ctx context.Context, account *entities.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acctCopy := *account
	r.accounts[account.UserID] = &acctCopy
	return nil
}

// SettleRound applies the delta and appends the record under one lock so
// no other settlement can interleave with the read-modify-write.
func (r *MemoryRepository) SettleRound(ctx context.Context, userID string, delta int64, record *entities.HistoryRecord) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acct, exists := r.accounts[userID]
	if !exists {
		return 0, ErrAccountNotFound
	}
	if acct.Balance+delta < 0 {
		return 0, ErrInsufficientBalance
	}

	acct.Balance += delta
	acct.LastUpdated = time.Now()

	recCopy := *record
	r.history[userID] = append(r.history[userID], &recCopy)

	return acct.Balance, nil
}

// GetHistory retrieves recent history records, most recent first
func (r *MemoryRepository) GetHistory(ctx context.Context, userID string, limit int) ([]*entities.HistoryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.history[userID]
	result := make([]*entities.HistoryRecord, 0, min(limit, len(records)))

	for i := len(records) - 1; i >= 0 && len(result) < limit; i-- {
		recCopy := *records[i]
		result = append(result, &recCopy)
	}
	return result, nil
}

// ResetAccount restores the starting balance and clears history
func (r *MemoryRepository) ResetAccount(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	acct, exists := r.accounts[userID]
	if !exists {
		return ErrAccountNotFound
	}

	acct.Balance = entities.StartingBalance
	acct.LastUpdated = time.Now()
	delete(r.history, userID)
	return nil
}

// Close is a no-op for the in-memory repository
func (r *MemoryRepository) Close() error {
	return nil
}
