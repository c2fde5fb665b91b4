package entities

import "time"

// Slot states for the power cell charger.
type SlotState string

const (
	SlotIdle      SlotState = "IDLE"
	SlotCharging  SlotState = "CHARGING"
	SlotClaimable SlotState = "CLAIMABLE"
)

// ChargeDuration is how long one power cell takes to charge.
const ChargeDuration = 12 * time.Hour

// ChargerSlot is one independently timed charger instance. The number
// of slots a player owns depends on their NFT holdings; slot ids are
// stable once assigned.
type ChargerSlot struct {
	ID       int64
	State    SlotState
	Timer    Timer
	Progress float64 // last computed progress, persisted for the client
}

// NewChargerSlot returns an idle slot with the given id.
func NewChargerSlot(id int64) ChargerSlot {
	return ChargerSlot{
		ID:    id,
		State: SlotIdle,
		Timer: Timer{Duration: ChargeDuration},
	}
}

// BuildingKind identifies one of the single-instance production
// buildings.
type BuildingKind string

const (
	BuildingScavenger   BuildingKind = "SCAVENGER"
	BuildingWaterFilter BuildingKind = "WATER_FILTER"
	BuildingWorkshop    BuildingKind = "WORKSHOP"
)

// Building states shared by all single-slot buildings. The run reaches
// ResultsReady when its timer completes; claiming applies the reward
// and returns the building to Idle.
type BuildingState string

const (
	BuildingIdle         BuildingState = "IDLE"
	BuildingWorking      BuildingState = "WORKING"
	BuildingResultsReady BuildingState = "RESULTS_READY"
)

var buildingDurations = map[BuildingKind]time.Duration{
	BuildingScavenger:   6 * time.Hour,
	BuildingWaterFilter: 8 * time.Hour,
	BuildingWorkshop:    10 * time.Hour,
}

// DurationFor returns the run length for a building kind, zero for an
// unknown kind.
func DurationFor(kind BuildingKind) time.Duration {
	return buildingDurations[kind]
}

// Building is one single-slot production building.
type Building struct {
	Kind     BuildingKind
	State    BuildingState
	Timer    Timer
	Progress float64
}

// NewBuilding returns an idle building of the given kind.
func NewBuilding(kind BuildingKind) Building {
	return Building{
		Kind:  kind,
		State: BuildingIdle,
		Timer: Timer{Duration: DurationFor(kind)},
	}
}
