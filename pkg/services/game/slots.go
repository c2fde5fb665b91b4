package game

import "github.com/fadedpez/cryptoufos/pkg/entities"

// SlotsFor returns how many concurrent charger slots an NFT holding
// count entitles a player to.
func SlotsFor(nftCount int64) int {
	switch {
	case nftCount >= 100:
		return 5
	case nftCount >= 50:
		return 4
	case nftCount >= 30:
		return 3
	case nftCount >= 10:
		return 2
	}
	return 1
}

// syncSlots grows an account's slot list to its current entitlement.
// New slots are appended idle with the next sequential ids. A shrink is
// a no-op: slots already owned are never deleted or reset, whatever
// state they are in. Returns true if slots were added.
func syncSlots(account *entities.Account) bool {
	entitled := SlotsFor(account.NFTs)
	if len(account.PowerCellSlots) >= entitled {
		return false
	}

	nextID := int64(0)
	for _, slot := range account.PowerCellSlots {
		if slot.ID >= nextID {
			nextID = slot.ID + 1
		}
	}

	for len(account.PowerCellSlots) < entitled {
		account.PowerCellSlots = append(account.PowerCellSlots, entities.NewChargerSlot(nextID))
		nextID++
	}
	return true
}
