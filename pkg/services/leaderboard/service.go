package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	accountRepo "github.com/fadedpez/cryptoufos/pkg/repositories/account"
	"github.com/go-redis/redis/v8"
)

// DefaultLimit matches the original leaderboard page size.
const DefaultLimit = 100

const cacheTTL = 30 * time.Second

// Entry is one leaderboard row.
type Entry struct {
	Rank   int    `json:"rank"`
	Wallet string `json:"wallet"`
	Name   string `json:"name"`
	NFTs   int64  `json:"nfts"`
	UFOS   int64  `json:"ufos"`
}

// Service serves the top-N ranking by UFOS. A redis client is optional;
// when present it caches rankings for a short TTL and fails open on any
// cache error.
type Service struct {
	repo  accountRepo.Repository
	cache *redis.Client
}

// NewService creates a leaderboard service. cache may be nil.
func NewService(repo accountRepo.Repository, cache *redis.Client) *Service {
	return &Service{repo: repo, cache: cache}
}

// Top returns up to limit entries ordered by UFOS descending.
func (s *Service) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}

	cacheKey := fmt.Sprintf("leaderboard:top:%d", limit)
	if entries, ok := s.fromCache(ctx, cacheKey); ok {
		return entries, nil
	}

	accounts, err := s.repo.TopByUFOS(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("error loading leaderboard: %w", err)
	}

	entries := make([]Entry, 0, len(accounts))
	for i, account := range accounts {
		entries = append(entries, Entry{
			Rank:   i + 1,
			Wallet: account.Wallet,
			Name:   account.Name,
			NFTs:   account.NFTs,
			UFOS:   account.UFOS,
		})
	}

	s.toCache(ctx, cacheKey, entries)
	return entries, nil
}

func (s *Service) fromCache(ctx context.Context, key string) ([]Entry, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[LEADERBOARD] Cache read failed: %v", err)
		}
		return nil, false
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("[LEADERBOARD] Cache entry corrupt, ignoring: %v", err)
		return nil, false
	}
	return entries, true
}

func (s *Service) toCache(ctx context.Context, key string, entries []Entry) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, cacheTTL).Err(); err != nil {
		log.Printf("[LEADERBOARD] Cache write failed: %v", err)
	}
}
