package account

import (
	"time"

	"github.com/fadedpez/cryptoufos/pkg/entities"
)

// slotRecord is the stored form of a charger slot. The charging and
// claimable flags mirror the client's document schema.
type slotRecord struct {
	ID          int64      `json:"id"`
	IsCharging  bool       `json:"isCharging"`
	IsClaimable bool       `json:"isClaimable"`
	TimeStamp   *time.Time `json:"timeStamp"`
	Progress    float64    `json:"progress"`
}

// buildingRecord is the stored form of a single-slot building.
type buildingRecord struct {
	State     string     `json:"state"`
	TimeStamp *time.Time `json:"timeStamp"`
	Progress  float64    `json:"progress"`
}

func slotToRecord(slot entities.ChargerSlot) slotRecord {
	return slotRecord{
		ID:          slot.ID,
		IsCharging:  slot.State == entities.SlotCharging,
		IsClaimable: slot.State == entities.SlotClaimable,
		TimeStamp:   slot.Timer.StartedAt,
		Progress:    slot.Progress,
	}
}

func slotFromRecord(rec slotRecord) entities.ChargerSlot {
	slot := entities.NewChargerSlot(rec.ID)
	slot.Progress = rec.Progress
	slot.Timer.StartedAt = rec.TimeStamp
	switch {
	case rec.IsClaimable:
		slot.State = entities.SlotClaimable
	case rec.IsCharging && rec.TimeStamp != nil:
		slot.State = entities.SlotCharging
	default:
		// A charging flag without a timestamp is a malformed record;
		// treat it as idle rather than stuck.
		slot.State = entities.SlotIdle
		slot.Timer.Clear()
	}
	return slot
}

func buildingToRecord(b entities.Building) buildingRecord {
	return buildingRecord{
		State:     string(b.State),
		TimeStamp: b.Timer.StartedAt,
		Progress:  b.Progress,
	}
}

func buildingFromRecord(kind entities.BuildingKind, rec buildingRecord) entities.Building {
	b := entities.NewBuilding(kind)
	b.Progress = rec.Progress
	b.Timer.StartedAt = rec.TimeStamp
	switch entities.BuildingState(rec.State) {
	case entities.BuildingWorking:
		if rec.TimeStamp != nil {
			b.State = entities.BuildingWorking
		}
	case entities.BuildingResultsReady:
		b.State = entities.BuildingResultsReady
	}
	return b
}
