package server

import (
	"errors"
	"strconv"
	"time"

	"github.com/fadedpez/cryptoufos/internal/logging"
	"github.com/fadedpez/cryptoufos/pkg/entities"
	accountRepo "github.com/fadedpez/cryptoufos/pkg/repositories/account"
	"github.com/fadedpez/cryptoufos/pkg/response"
	"github.com/fadedpez/cryptoufos/pkg/services/game"
	"github.com/fadedpez/cryptoufos/pkg/services/leaderboard"
	"github.com/gin-gonic/gin"
)

// Handler holds the service dependencies for all API endpoints.
type Handler struct {
	game  *game.Service
	board *leaderboard.Service
	log   *logging.Logger
}

// NewHandler creates a handler instance.
func NewHandler(gameService *game.Service, boardService *leaderboard.Service, logger *logging.Logger) *Handler {
	return &Handler{
		game:  gameService,
		board: boardService,
		log:   logger,
	}
}

type connectRequest struct {
	Wallet string `json:"wallet" binding:"required"`
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

type transferRequest struct {
	ToWallet string `json:"toWallet" binding:"required"`
	Amount   int64  `json:"amount" binding:"required"`
}

// accountView is the API shape of an account snapshot.
type accountView struct {
	Wallet                 string         `json:"wallet"`
	Name                   string         `json:"name"`
	NFTs                   int64          `json:"nfts"`
	Tier                   int64          `json:"tier"`
	UFOS                   int64          `json:"ufos"`
	EmptyPowerCell         int64          `json:"emptyPowerCell"`
	FullPowerCell          int64          `json:"fullPowerCell"`
	BrokenPowerCell        int64          `json:"brokenPowerCell"`
	Ice                    int64          `json:"ice"`
	Water                  int64          `json:"water"`
	Halite                 int64          `json:"halite"`
	ClaimableFullPowerCell int64          `json:"claimableFullPowerCell"`
	PowerCellSlots         []slotView     `json:"powerCellSlots"`
	Buildings              []buildingView `json:"buildings"`
	DailyClaimedAt         *time.Time     `json:"dailyClaimedAt,omitempty"`
}

type slotView struct {
	ID       int64   `json:"id"`
	State    string  `json:"state"`
	Progress float64 `json:"progress"`
}

type buildingView struct {
	Kind     string  `json:"kind"`
	State    string  `json:"state"`
	Progress float64 `json:"progress"`
}

// Connect binds a wallet to a game session, creating the account on
// first connection.
// POST /api/connect
func (h *Handler) Connect(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "wallet is required")
		return
	}

	sess, created, err := h.game.Connect(c.Request.Context(), req.Wallet)
	if err != nil {
		h.log.Error("Connect failed for %s: %v", req.Wallet, err)
		h.gameError(c, err)
		return
	}

	response.Success(c, gin.H{
		"created": created,
		"account": viewOf(sess.Snapshot()),
	})
}

// Disconnect drops the wallet's session.
// POST /api/disconnect
func (h *Handler) Disconnect(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "wallet is required")
		return
	}

	h.game.Disconnect(req.Wallet)
	response.Success(c, nil)
}

// GetAccount returns the connected wallet's current state.
// GET /api/account/:wallet
func (h *Handler) GetAccount(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	response.Success(c, viewOf(sess.Snapshot()))
}

// SetName updates the display name.
// POST /api/account/:wallet/name
func (h *Handler) SetName(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "name is required")
		return
	}

	if err := sess.SetName(c.Request.Context(), req.Name); err != nil {
		h.gameError(c, err)
		return
	}
	response.Success(c, viewOf(sess.Snapshot()))
}

// ChargeSlot starts charging a power cell in the given slot.
// POST /api/account/:wallet/slots/:id/charge
func (h *Handler) ChargeSlot(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	slotID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid slot id")
		return
	}

	if err := sess.StartSlotCharging(c.Request.Context(), slotID); err != nil {
		h.gameError(c, err)
		return
	}
	response.Success(c, viewOf(sess.Snapshot()))
}

// ClaimSlot collects a fully charged power cell from the given slot.
// POST /api/account/:wallet/slots/:id/claim
func (h *Handler) ClaimSlot(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	slotID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid slot id")
		return
	}

	if err := sess.ClaimSlot(c.Request.Context(), slotID); err != nil {
		h.gameError(c, err)
		return
	}
	response.Success(c, viewOf(sess.Snapshot()))
}

// StartBuilding begins a production run.
// POST /api/account/:wallet/buildings/:kind/start
func (h *Handler) StartBuilding(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	kind, ok := buildingKind(c)
	if !ok {
		return
	}

	if err := sess.StartBuilding(c.Request.Context(), kind); err != nil {
		h.gameError(c, err)
		return
	}
	response.Success(c, viewOf(sess.Snapshot()))
}

// ClaimBuilding applies a completed run's reward.
// POST /api/account/:wallet/buildings/:kind/claim
func (h *Handler) ClaimBuilding(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	kind, ok := buildingKind(c)
	if !ok {
		return
	}

	reward, err := sess.ClaimBuilding(c.Request.Context(), kind)
	if err != nil {
		h.gameError(c, err)
		return
	}
	response.Success(c, gin.H{
		"reward":  reward,
		"account": viewOf(sess.Snapshot()),
	})
}

// ClaimDaily credits the daily reward.
// POST /api/account/:wallet/daily
func (h *Handler) ClaimDaily(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	reward, err := sess.ClaimDaily(c.Request.Context())
	if err != nil {
		h.gameError(c, err)
		return
	}
	response.Success(c, gin.H{
		"reward":  reward,
		"account": viewOf(sess.Snapshot()),
	})
}

// BuyEmptyCell buys one empty power cell at the market price.
// POST /api/account/:wallet/market/buy-cell
func (h *Handler) BuyEmptyCell(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	if err := sess.BuyEmptyPowerCell(c.Request.Context()); err != nil {
		h.gameError(c, err)
		return
	}
	response.Success(c, viewOf(sess.Snapshot()))
}

// SellFullCell sells one full power cell at the market price.
// POST /api/account/:wallet/market/sell-cell
func (h *Handler) SellFullCell(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	if err := sess.SellFullPowerCell(c.Request.Context()); err != nil {
		h.gameError(c, err)
		return
	}
	response.Success(c, viewOf(sess.Snapshot()))
}

// Transfer sends UFOS to another account.
// POST /api/account/:wallet/transfer
func (h *Handler) Transfer(c *gin.Context) {
	wallet := c.Param("wallet")

	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "toWallet and amount are required")
		return
	}

	if err := h.game.Transfer(c.Request.Context(), wallet, req.ToWallet, req.Amount); err != nil {
		h.gameError(c, err)
		return
	}

	sess, err := h.game.Session(wallet)
	if err != nil {
		h.gameError(c, err)
		return
	}
	response.Success(c, viewOf(sess.Snapshot()))
}

// Leaderboard returns the top accounts by UFOS.
// GET /api/leaderboard?limit=100
func (h *Handler) Leaderboard(c *gin.Context) {
	limit := leaderboard.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.ParamError(c, "invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := h.board.Top(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("Leaderboard query failed: %v", err)
		response.ServerError(c, "failed to load leaderboard")
		return
	}
	response.Success(c, entries)
}

// session resolves the wallet path parameter to a live session, writing
// the error response itself when there is none.
func (h *Handler) session(c *gin.Context) (*game.Session, bool) {
	sess, err := h.game.Session(c.Param("wallet"))
	if err != nil {
		h.gameError(c, err)
		return nil, false
	}
	return sess, true
}

// gameError maps service errors to business response codes.
func (h *Handler) gameError(c *gin.Context, err error) {
	var cooldown *game.DailyCooldownError
	switch {
	case errors.Is(err, game.ErrWalletNotConnected):
		response.Error(c, response.CodeWalletNotConnected, err.Error())
	case errors.Is(err, entities.ErrInsufficientResources),
		errors.Is(err, accountRepo.ErrInsufficientFunds):
		response.Error(c, response.CodeInsufficientResources, err.Error())
	case errors.Is(err, game.ErrSlotBusy):
		response.Error(c, response.CodeSlotBusy, err.Error())
	case errors.Is(err, game.ErrAlreadyInProgress):
		response.Error(c, response.CodeAlreadyInProgress, err.Error())
	case errors.Is(err, game.ErrClaimFirst):
		response.Error(c, response.CodeClaimFirst, err.Error())
	case errors.Is(err, game.ErrNothingToClaim):
		response.Error(c, response.CodeNothingToClaim, err.Error())
	case errors.As(err, &cooldown):
		response.Error(c, response.CodeDailyCooldown, err.Error())
	case errors.Is(err, game.ErrSelfTransfer),
		errors.Is(err, game.ErrInvalidAmount):
		response.Error(c, response.CodeInvalidTransfer, err.Error())
	case errors.Is(err, accountRepo.ErrAccountNotFound):
		response.Error(c, response.CodeAccountNotFound, err.Error())
	case errors.Is(err, game.ErrSlotNotFound),
		errors.Is(err, game.ErrUnknownBuilding),
		errors.Is(err, game.ErrInvalidName):
		response.ParamError(c, err.Error())
	default:
		response.ServerError(c, err.Error())
	}
}

func buildingKind(c *gin.Context) (entities.BuildingKind, bool) {
	switch c.Param("kind") {
	case "scavenger":
		return entities.BuildingScavenger, true
	case "water-filter":
		return entities.BuildingWaterFilter, true
	case "workshop":
		return entities.BuildingWorkshop, true
	}
	response.ParamError(c, "unknown building kind")
	return "", false
}

func viewOf(account *entities.Account) accountView {
	view := accountView{
		Wallet:                 account.Wallet,
		Name:                   account.Name,
		NFTs:                   account.NFTs,
		Tier:                   game.TierFor(account.NFTs),
		UFOS:                   account.UFOS,
		EmptyPowerCell:         account.EmptyPowerCell,
		FullPowerCell:          account.FullPowerCell,
		BrokenPowerCell:        account.BrokenPowerCell,
		Ice:                    account.Ice,
		Water:                  account.Water,
		Halite:                 account.Halite,
		ClaimableFullPowerCell: account.ClaimableFullPowerCell,
		DailyClaimedAt:         account.DailyClaimedAt,
		PowerCellSlots:         make([]slotView, 0, len(account.PowerCellSlots)),
		Buildings:              make([]buildingView, 0, 3),
	}
	for _, slot := range account.PowerCellSlots {
		view.PowerCellSlots = append(view.PowerCellSlots, slotView{
			ID:       slot.ID,
			State:    string(slot.State),
			Progress: slot.Progress,
		})
	}
	for _, building := range []entities.Building{account.Scavenger, account.WaterFilter, account.Workshop} {
		view.Buildings = append(view.Buildings, buildingView{
			Kind:     string(building.Kind),
			State:    string(building.State),
			Progress: building.Progress,
		})
	}
	return view
}
