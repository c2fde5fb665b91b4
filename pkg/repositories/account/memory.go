package account

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fadedpez/cryptoufos/pkg/entities"
	"github.com/google/uuid"
)

// MemoryRepository implements Repository using in-memory storage.
type MemoryRepository struct {
	accounts map[string]*entities.Account // keyed by wallet address
	mu       sync.RWMutex
}

// NewMemoryRepository creates a new in-memory account repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		accounts: make(map[string]*entities.Account),
	}
}

// GetByWallet retrieves an account by wallet address.
func (r *MemoryRepository) GetByWallet(ctx context.Context, wallet string) (*entities.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, exists := r.accounts[wallet]
	if !exists {
		return nil, ErrAccountNotFound
	}

	// Return a copy to prevent concurrent modification
	return account.Clone(), nil
}

// Save creates or updates an account.
func (r *MemoryRepository) Save(ctx context.Context, account *entities.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	account.LastUpdated = time.Now()

	r.accounts[account.Wallet] = account.Clone()
	return nil
}

// TransferUFOS moves UFOS between two accounts under a single lock so
// the balance check and both mutations are one atomic step.
func (r *MemoryRepository) TransferUFOS(ctx context.Context, fromWallet, toWallet string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sender, exists := r.accounts[fromWallet]
	if !exists {
		return ErrAccountNotFound
	}
	recipient, exists := r.accounts[toWallet]
	if !exists {
		return ErrAccountNotFound
	}

	if sender.UFOS < amount {
		return ErrInsufficientFunds
	}

	now := time.Now()
	sender.UFOS -= amount
	sender.LastUpdated = now
	recipient.UFOS += amount
	recipient.LastUpdated = now

	return nil
}

// TopByUFOS returns up to limit accounts ordered by UFOS descending.
func (r *MemoryRepository) TopByUFOS(ctx context.Context, limit int) ([]*entities.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		result = append(result, account.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].UFOS > result[j].UFOS
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Close is a no-op for the in-memory repository.
func (r *MemoryRepository) Close() error {
	return nil
}
