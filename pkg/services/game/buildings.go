package game

import (
	"context"
	"log"

	"github.com/fadedpez/cryptoufos/pkg/entities"
)

// Building start costs beyond the full power cell every run consumes.
const (
	WaterFilterIceCost     = 1000
	WorkshopBrokenCellCost = 10
	WorkshopWaterCost      = 5
	WorkshopHaliteCost     = 2
)

// Reward ranges, inclusive.
const (
	ScavengerIceMin  = 200
	ScavengerIceMax  = 399
	ScavengerUFOSMin = 100
	ScavengerUFOSMax = 189

	WaterFilterWaterMin  = 1
	WaterFilterWaterMax  = 5
	WaterFilterHaliteMin = 1
	WaterFilterHaliteMax = 2
)

// ClaimReward summarizes what one building claim granted.
type ClaimReward struct {
	Ice              int64 `json:"ice,omitempty"`
	UFOS             int64 `json:"ufos,omitempty"`
	Water            int64 `json:"water,omitempty"`
	Halite           int64 `json:"halite,omitempty"`
	EmptyPowerCells  int64 `json:"emptyPowerCells,omitempty"`
	BrokenPowerCells int64 `json:"brokenPowerCells,omitempty"`
}

// StartBuilding spends the building's start cost and begins its run.
// All debits happen after every precondition has passed, so a rejected
// start never consumes anything.
func (s *Session) StartBuilding(ctx context.Context, kind entities.BuildingKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	building := s.account.Building(kind)
	if building == nil {
		return ErrUnknownBuilding
	}
	if building.State == entities.BuildingWorking {
		return ErrAlreadyInProgress
	}
	if building.State == entities.BuildingResultsReady {
		return ErrClaimFirst
	}

	if err := s.checkStartCost(kind); err != nil {
		return err
	}
	s.debitStartCost(kind)

	building.Timer.Start(s.clk.Now())
	building.State = entities.BuildingWorking
	building.Progress = 0

	log.Printf("[GAME] Wallet %s started %s", s.account.Wallet, kind)
	s.save()
	return nil
}

// ClaimBuilding applies the building's randomized reward and returns it
// to idle. Rewards are rolled here, at claim time, not when the timer
// completed.
func (s *Session) ClaimBuilding(ctx context.Context, kind entities.BuildingKind) (*ClaimReward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	building := s.account.Building(kind)
	if building == nil {
		return nil, ErrUnknownBuilding
	}
	if building.State != entities.BuildingResultsReady {
		return nil, ErrNothingToClaim
	}

	reward := s.rollReward(kind)
	s.account.Credit(entities.ResourceIce, reward.Ice)
	s.account.Credit(entities.ResourceUFOS, reward.UFOS)
	s.account.Credit(entities.ResourceWater, reward.Water)
	s.account.Credit(entities.ResourceHalite, reward.Halite)
	s.account.Credit(entities.ResourceEmptyPowerCell, reward.EmptyPowerCells)
	s.account.Credit(entities.ResourceBrokenPowerCell, reward.BrokenPowerCells)

	building.State = entities.BuildingIdle
	building.Timer.Clear()
	building.Progress = 0

	log.Printf("[GAME] Wallet %s claimed %s results: %+v", s.account.Wallet, kind, *reward)
	s.save()
	return reward, nil
}

// checkStartCost verifies every resource the start will consume before
// anything is debited.
func (s *Session) checkStartCost(kind entities.BuildingKind) error {
	if s.account.Amount(entities.ResourceFullPowerCell) < 1 {
		return entities.ErrInsufficientResources
	}
	switch kind {
	case entities.BuildingWaterFilter:
		if s.account.Amount(entities.ResourceIce) < WaterFilterIceCost {
			return entities.ErrInsufficientResources
		}
	case entities.BuildingWorkshop:
		if s.account.Amount(entities.ResourceBrokenPowerCell) < WorkshopBrokenCellCost ||
			s.account.Amount(entities.ResourceWater) < WorkshopWaterCost ||
			s.account.Amount(entities.ResourceHalite) < WorkshopHaliteCost {
			return entities.ErrInsufficientResources
		}
	}
	return nil
}

func (s *Session) debitStartCost(kind entities.BuildingKind) {
	s.account.Debit(entities.ResourceFullPowerCell, 1)
	switch kind {
	case entities.BuildingWaterFilter:
		s.account.Debit(entities.ResourceIce, WaterFilterIceCost)
	case entities.BuildingWorkshop:
		s.account.Debit(entities.ResourceBrokenPowerCell, WorkshopBrokenCellCost)
		s.account.Debit(entities.ResourceWater, WorkshopWaterCost)
		s.account.Debit(entities.ResourceHalite, WorkshopHaliteCost)
	}
}

// rollReward draws the building's payout. Each building also grants one
// of two mutually exclusive cell byproducts.
func (s *Session) rollReward(kind entities.BuildingKind) *ClaimReward {
	reward := &ClaimReward{}
	switch kind {
	case entities.BuildingScavenger:
		reward.Ice = s.rng.IntBetween(ScavengerIceMin, ScavengerIceMax)
		reward.UFOS = s.rng.IntBetween(ScavengerUFOSMin, ScavengerUFOSMax)
		if s.rng.Chance(0.5) {
			reward.EmptyPowerCells = 1
		} else {
			reward.BrokenPowerCells = 1
		}
	case entities.BuildingWaterFilter:
		reward.Water = s.rng.IntBetween(WaterFilterWaterMin, WaterFilterWaterMax)
		reward.Halite = s.rng.IntBetween(WaterFilterHaliteMin, WaterFilterHaliteMax)
		if s.rng.Chance(0.5) {
			reward.EmptyPowerCells = 1
		} else {
			reward.BrokenPowerCells = 1
		}
	case entities.BuildingWorkshop:
		if s.rng.Chance(0.5) {
			reward.EmptyPowerCells = 2
		} else {
			reward.EmptyPowerCells = 1
		}
		if s.rng.Chance(0.3) {
			reward.BrokenPowerCells = 1
		}
	}
	return reward
}
