package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fadedpez/cryptoufos/internal/config"
	"github.com/fadedpez/cryptoufos/internal/logging"
	"github.com/fadedpez/cryptoufos/internal/server"
	"github.com/fadedpez/cryptoufos/pkg/clock"
	accountRepo "github.com/fadedpez/cryptoufos/pkg/repositories/account"
	"github.com/fadedpez/cryptoufos/pkg/services/game"
	"github.com/fadedpez/cryptoufos/pkg/services/leaderboard"
	"github.com/fadedpez/cryptoufos/pkg/services/oracle"
	"github.com/go-redis/redis/v8"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	repo := buildRepository(cfg)
	defer repo.Close()

	var nftOracle game.NFTOracle
	if cfg.OracleURL != "" && cfg.CollectionAddress != "" {
		nftOracle = oracle.NewHeliusClient(oracle.Config{
			URL:               cfg.OracleURL,
			CollectionAddress: cfg.CollectionAddress,
		})
		log.Println("NFT oracle enabled")
	} else {
		log.Println("ORACLE_URL/COLLECTION_ADDRESS not set, NFT counts will use stored values")
	}

	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := cache.Ping(context.Background()).Err(); err != nil {
			log.Printf("Redis unreachable, leaderboard cache disabled: %v", err)
			cache = nil
		} else {
			log.Println("Leaderboard cache enabled")
		}
	}

	clk := clock.Real{}
	gameService := game.NewService(repo, nftOracle, game.NewRandom(), clk)
	defer gameService.Close()
	boardService := leaderboard.NewService(repo, cache)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poller := game.NewPoller(gameService, clk, game.DefaultPollInterval)
	poller.Start(ctx)
	defer poller.Stop()

	handler := server.NewHandler(gameService, boardService, logging.Default)
	router := server.NewRouter(handler, cfg.IsDevelopment())

	go func() {
		log.Printf("Server listening on %s", cfg.ServerAddr)
		if err := router.Run(cfg.ServerAddr); err != nil {
			log.Fatalf("Error running server: %v", err)
		}
	}()

	// Wait for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down")
}

// buildRepository picks the storage backend from configuration, falling
// back to the in-memory repository when a backend fails to initialize.
func buildRepository(cfg *config.Config) accountRepo.Repository {
	switch cfg.StorageType {
	case "sqlite":
		repo, err := accountRepo.NewSQLiteRepository(cfg.DataDir + "/cryptoufos.db")
		if err != nil {
			log.Printf("Failed to initialize SQLite repository: %v", err)
			log.Println("Falling back to in-memory repository")
			return accountRepo.NewMemoryRepository()
		}
		log.Println("Using SQLite repository")
		return repo

	case "elasticsearch":
		base, err := accountRepo.NewSQLiteRepository(cfg.DataDir + "/cryptoufos.db")
		if err != nil {
			log.Printf("Failed to initialize SQLite repository: %v", err)
			log.Println("Falling back to in-memory repository")
			return accountRepo.NewMemoryRepository()
		}
		esConfig := accountRepo.DefaultElasticsearchConfig()
		esConfig.URL = cfg.ElasticsearchURL
		esConfig.Username = cfg.ElasticsearchUsername
		esConfig.Password = cfg.ElasticsearchPassword
		repo, err := accountRepo.NewElasticsearchRepository(base, esConfig)
		if err != nil {
			log.Printf("Failed to initialize Elasticsearch mirror: %v", err)
			log.Println("Using SQLite repository without leaderboard mirror")
			return base
		}
		log.Println("Using SQLite repository with Elasticsearch leaderboard mirror")
		return repo

	default:
		log.Println("Using in-memory repository (data will be lost on restart)")
		return accountRepo.NewMemoryRepository()
	}
}
