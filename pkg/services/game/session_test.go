package game

import (
	"context"
	"testing"
	"time"

	"github.com/fadedpez/cryptoufos/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connectedSession(t *testing.T, nfts int64, rng Random, clk *fakeClock) *Session {
	t.Helper()
	svc, _ := newTestService(&fakeOracle{count: nfts}, rng, clk)
	sess, _, err := svc.Connect(context.Background(), "walletA")
	require.NoError(t, err)
	return sess
}

func TestChargerRoundTrip(t *testing.T) {
	ctx := context.Background()
	clk := testClock()
	sess := connectedSession(t, 0, &scriptedRandom{}, clk)

	startEmpty := sess.Snapshot().EmptyPowerCell
	startFull := sess.Snapshot().FullPowerCell

	require.NoError(t, sess.StartSlotCharging(ctx, 0))
	snap := sess.Snapshot()
	assert.Equal(t, startEmpty-1, snap.EmptyPowerCell)
	assert.Equal(t, entities.SlotCharging, snap.PowerCellSlots[0].State)

	// Not done yet
	clk.Advance(11 * time.Hour)
	assert.Equal(t, 0, sess.Poll(ctx, clk.Now()))
	assert.ErrorIs(t, sess.ClaimSlot(ctx, 0), ErrNothingToClaim)

	// Complete after 12 hours
	clk.Advance(time.Hour)
	assert.Equal(t, 1, sess.Poll(ctx, clk.Now()))

	snap = sess.Snapshot()
	assert.Equal(t, entities.SlotClaimable, snap.PowerCellSlots[0].State)
	assert.Equal(t, int64(1), snap.ClaimableFullPowerCell)

	require.NoError(t, sess.ClaimSlot(ctx, 0))
	snap = sess.Snapshot()
	assert.Equal(t, startFull+1, snap.FullPowerCell)
	assert.Equal(t, startEmpty-1, snap.EmptyPowerCell)
	assert.Equal(t, int64(0), snap.ClaimableFullPowerCell)

	// Slot is back to idle and immediately restartable
	assert.Equal(t, entities.SlotIdle, snap.PowerCellSlots[0].State)
}

func TestPollIsIdempotent(t *testing.T) {
	ctx := context.Background()
	clk := testClock()
	sess := connectedSession(t, 0, &scriptedRandom{}, clk)

	require.NoError(t, sess.StartSlotCharging(ctx, 0))
	clk.Advance(13 * time.Hour)

	assert.Equal(t, 1, sess.Poll(ctx, clk.Now()))
	before := sess.Snapshot()

	// Re-polling a claimable slot must not double-fire the completion
	assert.Equal(t, 0, sess.Poll(ctx, clk.Now()))
	assert.Equal(t, 0, sess.Poll(ctx, clk.Now().Add(time.Hour)))

	after := sess.Snapshot()
	assert.Equal(t, before.ClaimableFullPowerCell, after.ClaimableFullPowerCell)
	assert.Equal(t, before.FullPowerCell, after.FullPowerCell)
	assert.Equal(t, before.PowerCellSlots[0].State, after.PowerCellSlots[0].State)
}

func TestStartChargingPreconditions(t *testing.T) {
	ctx := context.Background()
	clk := testClock()
	sess := connectedSession(t, 0, &scriptedRandom{}, clk)

	require.NoError(t, sess.StartSlotCharging(ctx, 0))

	// Busy slot
	assert.ErrorIs(t, sess.StartSlotCharging(ctx, 0), ErrSlotBusy)

	// Claimable slot wants a claim first
	clk.Advance(12 * time.Hour)
	sess.Poll(ctx, clk.Now())
	assert.ErrorIs(t, sess.StartSlotCharging(ctx, 0), ErrClaimFirst)

	// No such slot
	assert.ErrorIs(t, sess.StartSlotCharging(ctx, 42), ErrSlotNotFound)

	// Out of empty cells after the first start
	require.NoError(t, sess.ClaimSlot(ctx, 0))
	assert.ErrorIs(t, sess.StartSlotCharging(ctx, 0), entities.ErrInsufficientResources)
}

func TestScavengerCycle(t *testing.T) {
	ctx := context.Background()
	clk := testClock()
	rng := &scriptedRandom{ints: []int64{250, 150}, chances: []bool{true}}
	sess := connectedSession(t, 0, rng, clk)

	sess.mu.Lock()
	sess.account.FullPowerCell = 1
	sess.mu.Unlock()

	require.NoError(t, sess.StartBuilding(ctx, entities.BuildingScavenger))
	assert.Equal(t, int64(0), sess.Snapshot().FullPowerCell)

	// Starting again while working fails
	assert.ErrorIs(t, sess.StartBuilding(ctx, entities.BuildingScavenger), ErrAlreadyInProgress)

	// Claiming before completion fails
	_, err := sess.ClaimBuilding(ctx, entities.BuildingScavenger)
	assert.ErrorIs(t, err, ErrNothingToClaim)

	clk.Advance(6 * time.Hour)
	assert.Equal(t, 1, sess.Poll(ctx, clk.Now()))
	assert.Equal(t, entities.BuildingResultsReady, sess.Snapshot().Scavenger.State)

	// Results ready blocks a restart until claimed
	assert.ErrorIs(t, sess.StartBuilding(ctx, entities.BuildingScavenger), ErrClaimFirst)

	reward, err := sess.ClaimBuilding(ctx, entities.BuildingScavenger)
	require.NoError(t, err)
	assert.Equal(t, int64(250), reward.Ice)
	assert.Equal(t, int64(150), reward.UFOS)
	assert.Equal(t, int64(1), reward.EmptyPowerCells)
	assert.Equal(t, int64(0), reward.BrokenPowerCells)

	snap := sess.Snapshot()
	assert.Equal(t, int64(100+250), snap.Ice)
	assert.Equal(t, int64(100+150), snap.UFOS)
	assert.Equal(t, int64(2), snap.EmptyPowerCell)
	assert.Equal(t, entities.BuildingIdle, snap.Scavenger.State)

	// Nothing left to claim
	_, err = sess.ClaimBuilding(ctx, entities.BuildingScavenger)
	assert.ErrorIs(t, err, ErrNothingToClaim)
}

func TestScavengerRewardBounds(t *testing.T) {
	ctx := context.Background()
	clk := testClock()
	sess := connectedSession(t, 0, NewRandom(), clk)

	for i := 0; i < 20; i++ {
		sess.mu.Lock()
		sess.account.FullPowerCell = 1
		sess.mu.Unlock()

		require.NoError(t, sess.StartBuilding(ctx, entities.BuildingScavenger))
		clk.Advance(6 * time.Hour)
		sess.Poll(ctx, clk.Now())

		reward, err := sess.ClaimBuilding(ctx, entities.BuildingScavenger)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, reward.Ice, int64(ScavengerIceMin))
		assert.LessOrEqual(t, reward.Ice, int64(ScavengerIceMax))
		assert.GreaterOrEqual(t, reward.UFOS, int64(ScavengerUFOSMin))
		assert.LessOrEqual(t, reward.UFOS, int64(ScavengerUFOSMax))

		// Exactly one of the two byproducts
		assert.Equal(t, int64(1), reward.EmptyPowerCells+reward.BrokenPowerCells)
	}
}

func TestWaterFilterCosts(t *testing.T) {
	ctx := context.Background()
	clk := testClock()
	rng := &scriptedRandom{ints: []int64{3, 2}, chances: []bool{false}}
	sess := connectedSession(t, 0, rng, clk)

	// Ice short of the 1000 cost
	sess.mu.Lock()
	sess.account.FullPowerCell = 1
	sess.account.Ice = 999
	sess.mu.Unlock()
	assert.ErrorIs(t, sess.StartBuilding(ctx, entities.BuildingWaterFilter), entities.ErrInsufficientResources)

	sess.mu.Lock()
	sess.account.Ice = 1000
	sess.mu.Unlock()
	require.NoError(t, sess.StartBuilding(ctx, entities.BuildingWaterFilter))

	snap := sess.Snapshot()
	assert.Equal(t, int64(0), snap.FullPowerCell)
	assert.Equal(t, int64(0), snap.Ice)

	clk.Advance(8 * time.Hour)
	sess.Poll(ctx, clk.Now())

	reward, err := sess.ClaimBuilding(ctx, entities.BuildingWaterFilter)
	require.NoError(t, err)
	assert.Equal(t, int64(3), reward.Water)
	assert.Equal(t, int64(2), reward.Halite)
	assert.Equal(t, int64(1), reward.BrokenPowerCells)
}

func TestWorkshopScenario(t *testing.T) {
	ctx := context.Background()
	clk := testClock()
	rng := &scriptedRandom{chances: []bool{true, false}}
	sess := connectedSession(t, 0, rng, clk)

	sess.mu.Lock()
	sess.account.FullPowerCell = 1
	sess.account.BrokenPowerCell = 10
	sess.account.Water = 5
	sess.account.Halite = 2
	sess.mu.Unlock()

	require.NoError(t, sess.StartBuilding(ctx, entities.BuildingWorkshop))

	// Exactly the listed costs were debited
	snap := sess.Snapshot()
	assert.Equal(t, int64(0), snap.FullPowerCell)
	assert.Equal(t, int64(0), snap.BrokenPowerCell)
	assert.Equal(t, int64(0), snap.Water)
	assert.Equal(t, int64(0), snap.Halite)

	// A second start before completion fails
	assert.ErrorIs(t, sess.StartBuilding(ctx, entities.BuildingWorkshop), ErrAlreadyInProgress)

	clk.Advance(10 * time.Hour)
	sess.Poll(ctx, clk.Now())

	reward, err := sess.ClaimBuilding(ctx, entities.BuildingWorkshop)
	require.NoError(t, err)
	assert.Equal(t, int64(2), reward.EmptyPowerCells)
	assert.Equal(t, int64(0), reward.BrokenPowerCells)
}

func TestWorkshopInsufficientInputs(t *testing.T) {
	ctx := context.Background()
	sess := connectedSession(t, 0, &scriptedRandom{}, testClock())

	sess.mu.Lock()
	sess.account.FullPowerCell = 1
	sess.account.BrokenPowerCell = 9 // one short
	sess.account.Water = 5
	sess.account.Halite = 2
	sess.mu.Unlock()

	assert.ErrorIs(t, sess.StartBuilding(ctx, entities.BuildingWorkshop), entities.ErrInsufficientResources)

	// A rejected start consumes nothing
	snap := sess.Snapshot()
	assert.Equal(t, int64(1), snap.FullPowerCell)
	assert.Equal(t, int64(9), snap.BrokenPowerCell)
}

func TestDailyReward45NFTs(t *testing.T) {
	ctx := context.Background()
	clk := testClock()
	sess := connectedSession(t, 45, &scriptedRandom{}, clk)

	reward, err := sess.ClaimDaily(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(265), reward)
	assert.Equal(t, int64(100+265), sess.Snapshot().UFOS)

	// Second claim within 24h reports the remaining wait in whole hours
	clk.Advance(90 * time.Minute)
	_, err = sess.ClaimDaily(ctx)
	var cooldown *DailyCooldownError
	require.ErrorAs(t, err, &cooldown)
	assert.Equal(t, int64(23), cooldown.HoursRemaining)

	// Eligible again after the cooldown
	clk.Advance(24 * time.Hour)
	reward, err = sess.ClaimDaily(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(265), reward)
}

func TestMarket(t *testing.T) {
	ctx := context.Background()
	sess := connectedSession(t, 0, &scriptedRandom{}, testClock())

	// Buy: 50 UFOS for one empty cell
	require.NoError(t, sess.BuyEmptyPowerCell(ctx))
	snap := sess.Snapshot()
	assert.Equal(t, int64(50), snap.UFOS)
	assert.Equal(t, int64(2), snap.EmptyPowerCell)

	// Second buy drains the balance, third fails
	require.NoError(t, sess.BuyEmptyPowerCell(ctx))
	assert.ErrorIs(t, sess.BuyEmptyPowerCell(ctx), entities.ErrInsufficientResources)

	// Sell: one full cell for 100 UFOS
	assert.ErrorIs(t, sess.SellFullPowerCell(ctx), entities.ErrInsufficientResources)

	sess.mu.Lock()
	sess.account.FullPowerCell = 1
	sess.mu.Unlock()
	require.NoError(t, sess.SellFullPowerCell(ctx))
	snap = sess.Snapshot()
	assert.Equal(t, int64(100), snap.UFOS)
	assert.Equal(t, int64(0), snap.FullPowerCell)
}

func TestSetName(t *testing.T) {
	ctx := context.Background()
	sess := connectedSession(t, 0, &scriptedRandom{}, testClock())

	assert.ErrorIs(t, sess.SetName(ctx, "   "), ErrInvalidName)

	require.NoError(t, sess.SetName(ctx, "  Zorg  "))
	assert.Equal(t, "Zorg", sess.Snapshot().Name)
}
