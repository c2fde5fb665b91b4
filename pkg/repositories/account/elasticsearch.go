package account

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/fadedpez/cryptoufos/pkg/entities"
)

// ElasticsearchConfig holds configuration options for the Elasticsearch
// repository.
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
}

// DefaultElasticsearchConfig returns a default configuration for Elasticsearch
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:         "http://localhost:9200",
		IndexPrefix: "cryptoufos",
	}
}

// ElasticsearchRepository mirrors account writes into an Elasticsearch
// index and serves the leaderboard query from it. The wrapped base
// repository stays authoritative for reads and transfers; a failed
// mirror write is logged and never surfaced to gameplay.
type ElasticsearchRepository struct {
	baseRepo Repository
	client   *elasticsearch.Client
	index    string
}

// accountDocument is the indexed form of an account, using the field
// names the original client document schema established.
type accountDocument struct {
	Wallet                 string     `json:"Wallet"`
	Name                   string     `json:"Name"`
	NFTs                   int64      `json:"NFTs"`
	UFOS                   int64      `json:"UFOS"`
	EmptyPowerCell         int64      `json:"EmptyPowerCell"`
	FullPowerCell          int64      `json:"FullPowerCell"`
	BrokenPowerCell        int64      `json:"BrokenPowerCell"`
	Ice                    int64      `json:"Ice"`
	Water                  int64      `json:"Water"`
	Halite                 int64      `json:"Halite"`
	ClaimableFullPowerCell int64      `json:"ClaimableFullPowerCell"`
	UpdatedAt              *time.Time `json:"UpdatedAt,omitempty"`
}

// NewElasticsearchRepository creates a new Elasticsearch repository
// wrapping the given base repository.
func NewElasticsearchRepository(baseRepo Repository, config *ElasticsearchConfig) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
	}
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating elasticsearch client: %w", err)
	}

	repo := &ElasticsearchRepository{
		baseRepo: baseRepo,
		client:   client,
		index:    config.IndexPrefix + "_accounts",
	}

	if err := repo.initIndex(context.Background()); err != nil {
		return nil, fmt.Errorf("error initializing account index: %w", err)
	}

	return repo, nil
}

// initIndex creates the account index if it doesn't exist
func (r *ElasticsearchRepository) initIndex(ctx context.Context) error {
	res, err := r.client.Indices.Exists([]string{r.index})
	if err != nil {
		return fmt.Errorf("error checking if account index exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != 404 {
		return nil
	}

	mapping := `{
		"mappings": {
			"properties": {
				"Wallet": { "type": "keyword" },
				"Name": { "type": "keyword" },
				"NFTs": { "type": "long" },
				"UFOS": { "type": "long" },
				"EmptyPowerCell": { "type": "long" },
				"FullPowerCell": { "type": "long" },
				"BrokenPowerCell": { "type": "long" },
				"Ice": { "type": "long" },
				"Water": { "type": "long" },
				"Halite": { "type": "long" },
				"ClaimableFullPowerCell": { "type": "long" },
				"UpdatedAt": { "type": "date" }
			}
		}
	}`

	req := esapi.IndicesCreateRequest{
		Index: r.index,
		Body:  bytes.NewReader([]byte(mapping)),
	}

	createRes, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error creating account index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("error creating account index: %s", createRes.String())
	}
	return nil
}

// GetByWallet retrieves an account from the base repository
func (r *ElasticsearchRepository) GetByWallet(ctx context.Context, wallet string) (*entities.Account, error) {
	return r.baseRepo.GetByWallet(ctx, wallet)
}

// Save writes to the base repository, then mirrors the document into
// Elasticsearch for leaderboard queries.
func (r *ElasticsearchRepository) Save(ctx context.Context, account *entities.Account) error {
	if err := r.baseRepo.Save(ctx, account); err != nil {
		return err
	}
	r.indexAccount(ctx, account)
	return nil
}

// TransferUFOS delegates the atomic transfer to the base repository and
// re-mirrors both affected documents.
func (r *ElasticsearchRepository) TransferUFOS(ctx context.Context, fromWallet, toWallet string, amount int64) error {
	if err := r.baseRepo.TransferUFOS(ctx, fromWallet, toWallet, amount); err != nil {
		return err
	}

	for _, wallet := range []string{fromWallet, toWallet} {
		account, err := r.baseRepo.GetByWallet(ctx, wallet)
		if err != nil {
			log.Printf("[ES] Error reloading account %s after transfer: %v", wallet, err)
			continue
		}
		r.indexAccount(ctx, account)
	}
	return nil
}

// TopByUFOS serves the leaderboard from the Elasticsearch index, sorted
// by UFOS descending. On any search failure it falls back to the base
// repository.
func (r *ElasticsearchRepository) TopByUFOS(ctx context.Context, limit int) ([]*entities.Account, error) {
	query := map[string]interface{}{
		"size": limit,
		"sort": []map[string]interface{}{
			{"UFOS": map[string]interface{}{"order": "desc"}},
		},
		"query": map[string]interface{}{
			"match_all": map[string]interface{}{},
		},
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		log.Printf("[ES] Leaderboard search failed, falling back to base repository: %v", err)
		return r.baseRepo.TopByUFOS(ctx, limit)
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("[ES] Leaderboard search returned error, falling back to base repository: %s", res.String())
		return r.baseRepo.TopByUFOS(ctx, limit)
	}

	var result struct {
		Hits struct {
			Hits []struct {
				ID     string          `json:"_id"`
				Source accountDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding leaderboard response: %w", err)
	}

	accounts := make([]*entities.Account, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		doc := hit.Source
		account := &entities.Account{
			ID:                     hit.ID,
			Wallet:                 doc.Wallet,
			Name:                   doc.Name,
			NFTs:                   doc.NFTs,
			UFOS:                   doc.UFOS,
			EmptyPowerCell:         doc.EmptyPowerCell,
			FullPowerCell:          doc.FullPowerCell,
			BrokenPowerCell:        doc.BrokenPowerCell,
			Ice:                    doc.Ice,
			Water:                  doc.Water,
			Halite:                 doc.Halite,
			ClaimableFullPowerCell: doc.ClaimableFullPowerCell,
		}
		if doc.UpdatedAt != nil {
			account.LastUpdated = *doc.UpdatedAt
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// Close closes the base repository
func (r *ElasticsearchRepository) Close() error {
	return r.baseRepo.Close()
}

// indexAccount mirrors one account into the index; failures are logged
// only, the base repository already holds the durable copy.
func (r *ElasticsearchRepository) indexAccount(ctx context.Context, account *entities.Account) {
	updated := account.LastUpdated
	doc := accountDocument{
		Wallet:                 account.Wallet,
		Name:                   account.Name,
		NFTs:                   account.NFTs,
		UFOS:                   account.UFOS,
		EmptyPowerCell:         account.EmptyPowerCell,
		FullPowerCell:          account.FullPowerCell,
		BrokenPowerCell:        account.BrokenPowerCell,
		Ice:                    account.Ice,
		Water:                  account.Water,
		Halite:                 account.Halite,
		ClaimableFullPowerCell: account.ClaimableFullPowerCell,
		UpdatedAt:              &updated,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		log.Printf("[ES] Error encoding account %s: %v", account.Wallet, err)
		return
	}

	req := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: account.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, r.client)
	if err != nil {
		log.Printf("[ES] Error indexing account %s: %v", account.Wallet, err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("[ES] Error indexing account %s: %s", account.Wallet, res.String())
	}
}
