package account

import (
	"context"
	"testing"

	"github.com/fadedpez/cryptoufos/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositorySaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	acct := entities.NewAccount("walletA", 3)
	require.NoError(t, repo.Save(ctx, acct))
	assert.NotEmpty(t, acct.ID, "save assigns an ID")

	got, err := repo.GetByWallet(ctx, "walletA")
	require.NoError(t, err)
	assert.Equal(t, acct.ID, got.ID)
	assert.Equal(t, "walletA", got.Wallet)
	assert.Equal(t, int64(3), got.NFTs)

	// The stored account is isolated from callers on both sides.
	got.UFOS = 9999
	acct.Ice = 9999
	again, err := repo.GetByWallet(ctx, "walletA")
	require.NoError(t, err)
	assert.Equal(t, int64(entities.StartingUFOS), again.UFOS)
	assert.Equal(t, int64(entities.StartingIce), again.Ice)
}

func TestMemoryRepositoryGetMissing(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.GetByWallet(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestMemoryRepositorySaveKeepsExistingID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	acct := entities.NewAccount("walletA", 0)
	require.NoError(t, repo.Save(ctx, acct))
	id := acct.ID

	acct.UFOS = 500
	require.NoError(t, repo.Save(ctx, acct))

	got, err := repo.GetByWallet(ctx, "walletA")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, int64(500), got.UFOS)
}

func TestMemoryRepositoryTransferUFOS(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	sender := entities.NewAccount("walletA", 0)
	recipient := entities.NewAccount("walletB", 0)
	require.NoError(t, repo.Save(ctx, sender))
	require.NoError(t, repo.Save(ctx, recipient))

	require.NoError(t, repo.TransferUFOS(ctx, "walletA", "walletB", 60))

	got, err := repo.GetByWallet(ctx, "walletA")
	require.NoError(t, err)
	assert.Equal(t, int64(40), got.UFOS)

	got, err = repo.GetByWallet(ctx, "walletB")
	require.NoError(t, err)
	assert.Equal(t, int64(160), got.UFOS)
}

func TestMemoryRepositoryTransferUFOSFailures(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	require.NoError(t, repo.Save(ctx, entities.NewAccount("walletA", 0)))
	require.NoError(t, repo.Save(ctx, entities.NewAccount("walletB", 0)))

	assert.ErrorIs(t, repo.TransferUFOS(ctx, "walletA", "walletB", 101), ErrInsufficientFunds)
	assert.ErrorIs(t, repo.TransferUFOS(ctx, "ghost", "walletB", 10), ErrAccountNotFound)
	assert.ErrorIs(t, repo.TransferUFOS(ctx, "walletA", "ghost", 10), ErrAccountNotFound)

	// Failed transfers leave both balances untouched.
	got, err := repo.GetByWallet(ctx, "walletA")
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.UFOS)
}

func TestMemoryRepositoryTopByUFOS(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	balances := map[string]int64{
		"walletA": 300,
		"walletB": 100,
		"walletC": 500,
		"walletD": 200,
	}
	for wallet, ufos := range balances {
		acct := entities.NewAccount(wallet, 0)
		acct.UFOS = ufos
		require.NoError(t, repo.Save(ctx, acct))
	}

	top, err := repo.TopByUFOS(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "walletC", top[0].Wallet)
	assert.Equal(t, "walletA", top[1].Wallet)
	assert.Equal(t, "walletD", top[2].Wallet)

	// A limit above the population returns everyone.
	top, err = repo.TopByUFOS(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, top, 4)
}
