package game

import (
	"context"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/fadedpez/cryptoufos/pkg/clock"
	"github.com/fadedpez/cryptoufos/pkg/entities"
	"github.com/fadedpez/cryptoufos/pkg/repositories/account"
)

// Market prices in UFOS.
const (
	EmptyCellPrice    = 50
	FullCellSalePrice = 100
)

// DailyCooldown is the wait between daily reward claims.
const DailyCooldown = 24 * time.Hour

// Session owns one connected player's in-memory account. Every
// mutation, whether user-triggered or poller-triggered, runs under the
// session mutex, so a claim and an auto-completion can never interleave
// on the same aggregate.
//
// Persistence runs on a per-session background writer: mutations queue
// a snapshot and move on, so a slow store never stalls gameplay or the
// poller.
type Session struct {
	mu      sync.Mutex
	account *entities.Account
	repo    account.Repository
	rng     Random
	clk     clock.Clock

	closed  bool
	saveCh  chan *entities.Account
	flushed chan struct{}
}

func newSession(acct *entities.Account, repo account.Repository, rng Random, clk clock.Clock) *Session {
	s := &Session{
		account: acct,
		repo:    repo,
		rng:     rng,
		clk:     clk,
		saveCh:  make(chan *entities.Account, 1),
		flushed: make(chan struct{}),
	}
	go s.flushSaves()
	return s
}

// Wallet returns the bound wallet address.
func (s *Session) Wallet() string {
	return s.account.Wallet
}

// Snapshot returns a deep copy of the account safe to read outside the
// lock.
func (s *Session) Snapshot() *entities.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account.Clone()
}

// StartSlotCharging spends one empty power cell and starts the slot's
// 12 hour charge.
func (s *Session) StartSlotCharging(ctx context.Context, slotID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := s.account.Slot(slotID)
	if slot == nil {
		return ErrSlotNotFound
	}
	if slot.State == entities.SlotCharging {
		return ErrSlotBusy
	}
	if slot.State == entities.SlotClaimable {
		return ErrClaimFirst
	}
	if err := s.account.Debit(entities.ResourceEmptyPowerCell, 1); err != nil {
		return err
	}

	slot.Timer.Start(s.clk.Now())
	slot.State = entities.SlotCharging
	slot.Progress = 0

	log.Printf("[GAME] Wallet %s started charging slot %d", s.account.Wallet, slotID)
	s.save()
	return nil
}

// ClaimSlot collects a fully charged power cell and returns the slot to
// idle, immediately eligible to restart.
func (s *Session) ClaimSlot(ctx context.Context, slotID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := s.account.Slot(slotID)
	if slot == nil {
		return ErrSlotNotFound
	}
	if slot.State != entities.SlotClaimable {
		return ErrNothingToClaim
	}

	if err := s.account.Credit(entities.ResourceFullPowerCell, 1); err != nil {
		return err
	}
	if s.account.ClaimableFullPowerCell > 0 {
		s.account.ClaimableFullPowerCell--
	}
	slot.State = entities.SlotIdle
	slot.Timer.Clear()
	slot.Progress = 0

	log.Printf("[GAME] Wallet %s claimed a full power cell from slot %d", s.account.Wallet, slotID)
	s.save()
	return nil
}

// ClaimDaily credits the NFT-scaled daily reward. It fails with a
// DailyCooldownError carrying the remaining wait, rounded up to whole
// hours, when claimed again within 24 hours.
func (s *Session) ClaimDaily(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now()
	if s.account.DailyClaimedAt != nil {
		elapsed := now.Sub(*s.account.DailyClaimedAt)
		if elapsed < DailyCooldown {
			remaining := int64(math.Ceil((DailyCooldown - elapsed).Hours()))
			return 0, &DailyCooldownError{HoursRemaining: remaining}
		}
	}

	reward := DailyReward(s.account.NFTs)
	if err := s.account.Credit(entities.ResourceUFOS, reward); err != nil {
		return 0, err
	}
	claimed := now
	s.account.DailyClaimedAt = &claimed

	log.Printf("[GAME] Wallet %s claimed daily reward of %d UFOS (%d NFTs, tier %d)",
		s.account.Wallet, reward, s.account.NFTs, TierFor(s.account.NFTs))
	s.save()
	return reward, nil
}

// BuyEmptyPowerCell trades UFOS for one empty power cell at the fixed
// market price.
func (s *Session) BuyEmptyPowerCell(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.account.Debit(entities.ResourceUFOS, EmptyCellPrice); err != nil {
		return err
	}
	if err := s.account.Credit(entities.ResourceEmptyPowerCell, 1); err != nil {
		return err
	}

	log.Printf("[GAME] Wallet %s bought an empty power cell for %d UFOS", s.account.Wallet, EmptyCellPrice)
	s.save()
	return nil
}

// SellFullPowerCell trades one full power cell for UFOS at the fixed
// market price.
func (s *Session) SellFullPowerCell(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.account.Debit(entities.ResourceFullPowerCell, 1); err != nil {
		return err
	}
	if err := s.account.Credit(entities.ResourceUFOS, FullCellSalePrice); err != nil {
		return err
	}

	log.Printf("[GAME] Wallet %s sold a full power cell for %d UFOS", s.account.Wallet, FullCellSalePrice)
	s.save()
	return nil
}

// SetName updates the player's display name.
func (s *Session) SetName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.account.Name = name
	s.save()
	return nil
}

// Poll recomputes every timer's progress at the given instant and
// applies any completion exactly once. Re-polling an account whose
// timers are already complete changes nothing, so the poller may call
// this as often as it likes. Returns the number of completions applied.
func (s *Session) Poll(ctx context.Context, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	completed := 0

	for i := range s.account.PowerCellSlots {
		slot := &s.account.PowerCellSlots[i]
		if slot.State != entities.SlotCharging {
			continue
		}
		slot.Progress = slot.Timer.Progress(now)
		if slot.Timer.Complete(now) {
			slot.State = entities.SlotClaimable
			slot.Timer.Clear()
			slot.Progress = 100
			s.account.ClaimableFullPowerCell++
			completed++
			log.Printf("[GAME] Wallet %s slot %d finished charging", s.account.Wallet, slot.ID)
		}
	}

	for _, kind := range []entities.BuildingKind{
		entities.BuildingScavenger,
		entities.BuildingWaterFilter,
		entities.BuildingWorkshop,
	} {
		building := s.account.Building(kind)
		if building.State != entities.BuildingWorking {
			continue
		}
		building.Progress = building.Timer.Progress(now)
		if building.Timer.Complete(now) {
			building.State = entities.BuildingResultsReady
			building.Timer.Clear()
			building.Progress = 100
			completed++
			log.Printf("[GAME] Wallet %s %s finished working", s.account.Wallet, kind)
		}
	}

	if completed > 0 {
		s.save()
	}
	return completed
}

// refreshNFTs updates the oracle-supplied holding count and grows the
// slot list if the new count entitles more. Called with a fresh count
// on connect; the session lock keeps it ordered with gameplay actions.
func (s *Session) refreshNFTs(ctx context.Context, count int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := count != s.account.NFTs
	s.account.NFTs = count
	if syncSlots(s.account) || changed {
		s.save()
	}
}

// save queues a snapshot for the background writer. Callers hold the
// session mutex. Only the newest snapshot matters, so a snapshot still
// waiting to be written is replaced rather than queued behind.
func (s *Session) save() {
	if s.closed {
		return
	}
	snapshot := s.account.Clone()
	for {
		select {
		case s.saveCh <- snapshot:
			return
		default:
			select {
			case <-s.saveCh:
			default:
			}
		}
	}
}

// flushSaves writes queued snapshots until close drains the channel.
// Persistence failures never block or revert gameplay state; they only
// cost durability.
func (s *Session) flushSaves() {
	for snapshot := range s.saveCh {
		if err := s.repo.Save(context.Background(), snapshot); err != nil {
			log.Printf("[GAME] Failed to save account %s: %v (changes are only saved locally)",
				snapshot.Wallet, err)
		}
	}
	close(s.flushed)
}

// close stops the background writer after it has written any pending
// snapshot, so a disconnect leaves the store up to date.
func (s *Session) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	close(s.saveCh)
	<-s.flushed
}
