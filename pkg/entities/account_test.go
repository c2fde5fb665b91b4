package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccountDefaults(t *testing.T) {
	account := NewAccount("wallet123", 5)

	assert.Equal(t, "wallet123", account.Wallet)
	assert.Equal(t, StartingName, account.Name)
	assert.Equal(t, int64(5), account.NFTs)
	assert.Equal(t, int64(StartingUFOS), account.UFOS)
	assert.Equal(t, int64(StartingCells), account.EmptyPowerCell)
	assert.Equal(t, int64(StartingIce), account.Ice)
	assert.Equal(t, int64(0), account.FullPowerCell)

	assert.Equal(t, BuildingIdle, account.Scavenger.State)
	assert.Equal(t, 6*time.Hour, account.Scavenger.Timer.Duration)
	assert.Equal(t, 8*time.Hour, account.WaterFilter.Timer.Duration)
	assert.Equal(t, 10*time.Hour, account.Workshop.Timer.Duration)
}

func TestDebitInsufficientLeavesLedgerUnchanged(t *testing.T) {
	account := NewAccount("wallet123", 0)
	account.Ice = 500

	err := account.Debit(ResourceIce, 1000)
	require.ErrorIs(t, err, ErrInsufficientResources)
	assert.Equal(t, int64(500), account.Ice)
}

func TestDebitExactBalance(t *testing.T) {
	account := NewAccount("wallet123", 0)
	account.Water = 5

	require.NoError(t, account.Debit(ResourceWater, 5))
	assert.Equal(t, int64(0), account.Water)

	// Now empty, further debits fail
	assert.ErrorIs(t, account.Debit(ResourceWater, 1), ErrInsufficientResources)
}

func TestCreditAndDebitRejectNegativeAmounts(t *testing.T) {
	account := NewAccount("wallet123", 0)

	assert.ErrorIs(t, account.Credit(ResourceUFOS, -1), ErrNegativeAmount)
	assert.ErrorIs(t, account.Debit(ResourceUFOS, -1), ErrNegativeAmount)
	assert.Equal(t, int64(StartingUFOS), account.UFOS)
}

func TestUnknownResource(t *testing.T) {
	account := NewAccount("wallet123", 0)

	assert.ErrorIs(t, account.Credit(Resource("PLUTONIUM"), 1), ErrUnknownResource)
	assert.Equal(t, int64(0), account.Amount(Resource("PLUTONIUM")))
}

func TestCloneIsIndependent(t *testing.T) {
	account := NewAccount("wallet123", 10)
	account.PowerCellSlots = []ChargerSlot{NewChargerSlot(0), NewChargerSlot(1)}
	claimed := time.Now()
	account.DailyClaimedAt = &claimed

	clone := account.Clone()
	clone.UFOS = 9999
	clone.PowerCellSlots[0].State = SlotCharging
	*clone.DailyClaimedAt = claimed.Add(time.Hour)

	assert.Equal(t, int64(StartingUFOS), account.UFOS)
	assert.Equal(t, SlotIdle, account.PowerCellSlots[0].State)
	assert.Equal(t, claimed, *account.DailyClaimedAt)
}

func TestSlotLookup(t *testing.T) {
	account := NewAccount("wallet123", 0)
	account.PowerCellSlots = []ChargerSlot{NewChargerSlot(0), NewChargerSlot(3)}

	require.NotNil(t, account.Slot(3))
	assert.Equal(t, int64(3), account.Slot(3).ID)
	assert.Nil(t, account.Slot(7))
}
