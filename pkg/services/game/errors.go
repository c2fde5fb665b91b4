package game

import (
	"errors"
	"fmt"
)

var (
	ErrWalletNotConnected = errors.New("wallet not connected")
	ErrSlotNotFound       = errors.New("slot not found")
	ErrSlotBusy           = errors.New("slot is already charging")
	ErrClaimFirst         = errors.New("claim the charged power cell first")
	ErrNothingToClaim     = errors.New("nothing to claim")
	ErrAlreadyInProgress  = errors.New("building is already working")
	ErrUnknownBuilding    = errors.New("unknown building")
	ErrSelfTransfer       = errors.New("cannot transfer UFOS to yourself")
	ErrInvalidAmount      = errors.New("invalid transfer amount")
	ErrInvalidName        = errors.New("invalid name")
)

// DailyCooldownError reports how long until the daily reward can be
// claimed again, rounded up to whole hours.
type DailyCooldownError struct {
	HoursRemaining int64
}

func (e *DailyCooldownError) Error() string {
	return fmt.Sprintf("daily reward available in %d hours", e.HoursRemaining)
}
