// Package oracle queries an external indexer for NFT holding counts.
// Counts are best-effort and trusted as given; callers fall back to
// their last stored value when a lookup fails.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const pageLimit = 1000

// Config holds the indexer endpoint and the collection to count.
type Config struct {
	URL               string
	CollectionAddress string
}

// HeliusClient counts collection NFTs owned by a wallet through the
// DAS getAssetsByGroup method.
type HeliusClient struct {
	config Config
	http   *http.Client
}

// NewHeliusClient creates a client with a bounded request timeout.
func NewHeliusClient(config Config) *HeliusClient {
	return &HeliusClient{
		config: config,
		http:   &http.Client{Timeout: 15 * time.Second},
	}
}

type dasRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      string    `json:"id"`
	Method  string    `json:"method"`
	Params  dasParams `json:"params"`
}

type dasParams struct {
	GroupKey   string `json:"groupKey"`
	GroupValue string `json:"groupValue"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}

type dasResponse struct {
	Result struct {
		Total int `json:"total"`
		Items []struct {
			Ownership struct {
				Owner string `json:"owner"`
			} `json:"ownership"`
		} `json:"items"`
	} `json:"result"`
}

// CountForOwner pages through the collection and counts the assets the
// given wallet owns. Pagination stops at the first short page.
func (c *HeliusClient) CountForOwner(ctx context.Context, owner string) (int64, error) {
	var count int64

	for page := 1; ; page++ {
		result, err := c.fetchPage(ctx, page)
		if err != nil {
			return 0, err
		}

		for _, item := range result.Result.Items {
			if item.Ownership.Owner == owner {
				count++
			}
		}

		if result.Result.Total != pageLimit {
			break
		}
	}

	return count, nil
}

func (c *HeliusClient) fetchPage(ctx context.Context, page int) (*dasResponse, error) {
	body, err := json.Marshal(dasRequest{
		JSONRPC: "2.0",
		ID:      "cryptoufos",
		Method:  "getAssetsByGroup",
		Params: dasParams{
			GroupKey:   "collection",
			GroupValue: c.config.CollectionAddress,
			Page:       page,
			Limit:      pageLimit,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error querying indexer: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("indexer returned status %d", res.StatusCode)
	}

	var result dasResponse
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error decoding indexer response: %w", err)
	}
	return &result, nil
}
