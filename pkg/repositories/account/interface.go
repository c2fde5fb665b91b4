package account

import (
	"context"
	"errors"

	"github.com/fadedpez/cryptoufos/pkg/entities"
)

var (
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientFunds is returned by TransferUFOS when the sender's
	// balance no longer covers the amount at commit time.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Repository defines the persistence gateway for player accounts.
type Repository interface {
	// GetByWallet retrieves an account by wallet address.
	GetByWallet(ctx context.Context, wallet string) (*entities.Account, error)

	// Save creates or updates an account.
	Save(ctx context.Context, account *entities.Account) error

	// TransferUFOS moves UFOS between two accounts atomically: either
	// both balances change or neither does.
	TransferUFOS(ctx context.Context, fromWallet, toWallet string, amount int64) error

	// TopByUFOS returns up to limit accounts ordered by UFOS descending.
	TopByUFOS(ctx context.Context, limit int) ([]*entities.Account, error)

	// Close releases any underlying resources.
	Close() error
}
