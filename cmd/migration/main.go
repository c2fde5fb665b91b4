package main

import (
	"context"
	"flag"
	"log"
	"os"

	accountRepo "github.com/fadedpez/cryptoufos/pkg/repositories/account"
)

// Reindexes every account from the SQLite store into the Elasticsearch
// leaderboard index. Run after pointing the server at a fresh cluster
// or when the index has drifted from the authoritative store.
func main() {
	dbPath := flag.String("db", "data/cryptoufos.db", "Path to SQLite database")
	esURL := flag.String("es", "http://localhost:9200", "Elasticsearch URL")
	esUser := flag.String("es-user", "", "Elasticsearch username")
	esPass := flag.String("es-pass", "", "Elasticsearch password")
	batch := flag.Int("batch", 1000, "Maximum accounts to reindex")
	flag.Parse()

	base, err := accountRepo.NewSQLiteRepository(*dbPath)
	if err != nil {
		log.Fatalf("Error opening SQLite database: %v", err)
	}
	defer base.Close()

	esConfig := accountRepo.DefaultElasticsearchConfig()
	esConfig.URL = *esURL
	esConfig.Username = *esUser
	esConfig.Password = *esPass

	repo, err := accountRepo.NewElasticsearchRepository(base, esConfig)
	if err != nil {
		log.Fatalf("Error connecting to Elasticsearch: %v", err)
	}

	ctx := context.Background()
	accounts, err := base.TopByUFOS(ctx, *batch)
	if err != nil {
		log.Fatalf("Error loading accounts: %v", err)
	}

	reindexed := 0
	for _, account := range accounts {
		// Save through the mirror repository so each document lands in
		// both stores with the same shape the server writes.
		if err := repo.Save(ctx, account); err != nil {
			log.Printf("Error reindexing account %s: %v", account.Wallet, err)
			continue
		}
		reindexed++
	}

	log.Printf("Reindexed %d of %d accounts", reindexed, len(accounts))
	if reindexed < len(accounts) {
		os.Exit(1)
	}
}
