package entities

import (
	"strings"
	"time"
)

// Starting balances for a freshly created account.
const (
	StartingName  = "Guest"
	StartingUFOS  = 100
	StartingCells = 1
	StartingIce   = 100
)

// Account is the aggregate for one player: wallet identity, the
// resource ledger, the production buildings, and the charger slots.
type Account struct {
	ID     string // document id
	Wallet string // wallet address, immutable once bound
	Name   string
	NFTs   int64 // holding count from the oracle, input only

	// Resource ledger. No field ever goes negative; Debit is the only
	// decrementing path and it checks sufficiency first.
	UFOS            int64
	EmptyPowerCell  int64
	FullPowerCell   int64
	BrokenPowerCell int64
	Ice             int64
	Water           int64
	Halite          int64

	// Charged cells completed by the poller but not yet claimed.
	ClaimableFullPowerCell int64

	PowerCellSlots []ChargerSlot
	Scavenger      Building
	WaterFilter    Building
	Workshop       Building

	DailyClaimedAt *time.Time
	LastUpdated    time.Time
}

// NewAccount returns an account with starting balances bound to the
// given wallet. The caller assigns the document id.
func NewAccount(wallet string, nfts int64) *Account {
	return &Account{
		Wallet:         strings.TrimSpace(wallet),
		Name:           StartingName,
		NFTs:           nfts,
		UFOS:           StartingUFOS,
		EmptyPowerCell: StartingCells,
		Ice:            StartingIce,
		Scavenger:      NewBuilding(BuildingScavenger),
		WaterFilter:    NewBuilding(BuildingWaterFilter),
		Workshop:       NewBuilding(BuildingWorkshop),
	}
}

// Amount returns the current count of a resource, zero for an unknown
// one.
func (a *Account) Amount(res Resource) int64 {
	field, err := a.resourceField(res)
	if err != nil {
		return 0
	}
	return *field
}

// Credit adds amount to a resource.
func (a *Account) Credit(res Resource, amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	field, err := a.resourceField(res)
	if err != nil {
		return err
	}
	*field += amount
	return nil
}

// Debit removes amount from a resource. The sufficiency check and the
// mutation are one step so a caller holding the account lock can never
// drive a field negative.
func (a *Account) Debit(res Resource, amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	field, err := a.resourceField(res)
	if err != nil {
		return err
	}
	if *field < amount {
		return ErrInsufficientResources
	}
	*field -= amount
	return nil
}

// Building returns a pointer to the named single-slot building, nil for
// an unknown kind.
func (a *Account) Building(kind BuildingKind) *Building {
	switch kind {
	case BuildingScavenger:
		return &a.Scavenger
	case BuildingWaterFilter:
		return &a.WaterFilter
	case BuildingWorkshop:
		return &a.Workshop
	}
	return nil
}

// Slot returns a pointer to the charger slot with the given id, nil if
// the account does not own it.
func (a *Account) Slot(id int64) *ChargerSlot {
	for i := range a.PowerCellSlots {
		if a.PowerCellSlots[i].ID == id {
			return &a.PowerCellSlots[i]
		}
	}
	return nil
}

// Clone returns a deep copy safe to hand outside the session lock.
func (a *Account) Clone() *Account {
	clone := *a
	clone.PowerCellSlots = make([]ChargerSlot, len(a.PowerCellSlots))
	copy(clone.PowerCellSlots, a.PowerCellSlots)
	if a.DailyClaimedAt != nil {
		claimed := *a.DailyClaimedAt
		clone.DailyClaimedAt = &claimed
	}
	return &clone
}

func (a *Account) resourceField(res Resource) (*int64, error) {
	switch res {
	case ResourceUFOS:
		return &a.UFOS, nil
	case ResourceEmptyPowerCell:
		return &a.EmptyPowerCell, nil
	case ResourceFullPowerCell:
		return &a.FullPowerCell, nil
	case ResourceBrokenPowerCell:
		return &a.BrokenPowerCell, nil
	case ResourceIce:
		return &a.Ice, nil
	case ResourceWater:
		return &a.Water, nil
	case ResourceHalite:
		return &a.Halite, nil
	}
	return nil, ErrUnknownResource
}
