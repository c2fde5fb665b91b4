package entities

import "errors"

// Resource identifies one countable quantity in a player's ledger.
type Resource string

const (
	ResourceUFOS            Resource = "UFOS"
	ResourceEmptyPowerCell  Resource = "EMPTY_POWER_CELL"
	ResourceFullPowerCell   Resource = "FULL_POWER_CELL"
	ResourceBrokenPowerCell Resource = "BROKEN_POWER_CELL"
	ResourceIce             Resource = "ICE"
	ResourceWater           Resource = "WATER"
	ResourceHalite          Resource = "HALITE"
)

var (
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrUnknownResource       = errors.New("unknown resource")
	ErrNegativeAmount        = errors.New("amount cannot be negative")
)
