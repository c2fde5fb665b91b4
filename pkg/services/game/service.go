package game

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/fadedpez/cryptoufos/pkg/clock"
	"github.com/fadedpez/cryptoufos/pkg/entities"
	accountRepo "github.com/fadedpez/cryptoufos/pkg/repositories/account"
	"github.com/google/uuid"
)

// NFTOracle supplies the number of collection NFTs a wallet holds. It
// is best-effort: a failure falls back to the stored count.
type NFTOracle interface {
	CountForOwner(ctx context.Context, owner string) (int64, error)
}

// Service manages game sessions, one per connected wallet.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	repo   accountRepo.Repository
	oracle NFTOracle
	rng    Random
	clk    clock.Clock
}

// NewService creates a new game service.
func NewService(repo accountRepo.Repository, oracle NFTOracle, rng Random, clk clock.Clock) *Service {
	return &Service{
		sessions: make(map[string]*Session),
		repo:     repo,
		oracle:   oracle,
		rng:      rng,
		clk:      clk,
	}
}

// Connect binds a wallet to a session, creating the account with
// starting balances on first connection. The NFT holding count is
// refreshed from the oracle; on oracle failure the stored count stands.
// Returns the session and whether the account was just created.
func (s *Service) Connect(ctx context.Context, wallet string) (*Session, bool, error) {
	if wallet == "" {
		return nil, false, ErrWalletNotConnected
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, exists := s.sessions[wallet]; exists {
		return sess, false, nil
	}

	nftCount, haveCount := s.fetchNFTCount(ctx, wallet)

	acct, err := s.repo.GetByWallet(ctx, wallet)
	created := false
	switch {
	case err == nil:
		if !haveCount {
			nftCount = acct.NFTs
		}
	case errors.Is(err, accountRepo.ErrAccountNotFound):
		acct = entities.NewAccount(wallet, nftCount)
		acct.ID = uuid.New().String()
		created = true
	default:
		return nil, false, err
	}

	sess := newSession(acct, s.repo, s.rng, s.clk)
	if created {
		// Written inline so the account exists in the store before any
		// queued write could race a transfer to it.
		if err := s.repo.Save(ctx, acct); err != nil {
			log.Printf("[GAME] Failed to save new account %s: %v (changes are only saved locally)", wallet, err)
		}
	}
	sess.refreshNFTs(ctx, nftCount)

	s.sessions[wallet] = sess
	log.Printf("[GAME] Wallet %s connected (created=%v, nfts=%d, slots=%d)",
		wallet, created, nftCount, len(acct.PowerCellSlots))
	return sess, created, nil
}

// Session returns the live session for a wallet, or ErrWalletNotConnected.
func (s *Service) Session(wallet string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.sessions[wallet]
	if !exists {
		return nil, ErrWalletNotConnected
	}
	return sess, nil
}

// Disconnect drops the wallet's session, flushing any pending write
// first. The account stays persisted.
func (s *Service) Disconnect(wallet string) {
	s.mu.Lock()
	sess, exists := s.sessions[wallet]
	delete(s.sessions, wallet)
	s.mu.Unlock()

	if exists {
		sess.close()
	}
}

// Close drops every session, flushing pending writes. Used on
// shutdown.
func (s *Service) Close() {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
}

// Sessions returns the live sessions for the poller to tick.
func (s *Service) Sessions() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		result = append(result, sess)
	}
	return result
}

// Transfer moves UFOS from a connected wallet to another account. The
// two balance changes commit as one repository operation: either both
// happen or neither does. On success the live in-memory copies on both
// ends are brought in line with the store.
func (s *Service) Transfer(ctx context.Context, fromWallet, toWallet string, amount int64) error {
	sender, err := s.Session(fromWallet)
	if err != nil {
		return err
	}
	if toWallet == fromWallet {
		return ErrSelfTransfer
	}

	if amount <= 0 {
		return ErrInvalidAmount
	}

	// The sender lock is held across the balance check, the store
	// commit, and the in-memory debit, so no spend can slip in between
	// and drive the live ledger negative. The store re-checks its own
	// balance at commit in case it is behind the live ledger.
	sender.mu.Lock()
	if amount > sender.account.UFOS {
		sender.mu.Unlock()
		return entities.ErrInsufficientResources
	}
	if err := s.repo.TransferUFOS(ctx, fromWallet, toWallet, amount); err != nil {
		sender.mu.Unlock()
		return err
	}
	if err := sender.account.Debit(entities.ResourceUFOS, amount); err != nil {
		sender.mu.Unlock()
		return err
	}
	sender.mu.Unlock()

	s.mu.RLock()
	recipient, connected := s.sessions[toWallet]
	s.mu.RUnlock()
	if connected {
		recipient.mu.Lock()
		recipient.account.Credit(entities.ResourceUFOS, amount)
		recipient.mu.Unlock()
	}

	log.Printf("[GAME] Transferred %d UFOS from %s to %s", amount, fromWallet, toWallet)
	return nil
}

// fetchNFTCount queries the oracle, failing open.
func (s *Service) fetchNFTCount(ctx context.Context, wallet string) (int64, bool) {
	if s.oracle == nil {
		return 0, false
	}
	count, err := s.oracle.CountForOwner(ctx, wallet)
	if err != nil {
		log.Printf("[GAME] NFT oracle lookup failed for %s, keeping stored count: %v", wallet, err)
		return 0, false
	}
	return count, true
}
