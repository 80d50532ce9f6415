// Package search wraps the Meilisearch index holding lease documents.
package search

import (
	"context"
	"time"

	meilisearch "github.com/meilisearch/meilisearch-go"
	"github.com/sirupsen/logrus"

	"github.com/car-leasing/core-api/internal/config"
	"github.com/car-leasing/core-api/internal/metrics"
	apperrors "github.com/car-leasing/core-api/pkg/errors"
)

const (
	leaseIndex = "leases"

	// Fixed result cap for lease searches.
	searchLimit = 20
)

// Client is a thin adapter over the Meilisearch SDK. One instance is
// shared process-wide.
type Client struct {
	index  *meilisearch.Index
	logger *logrus.Logger
}

// New creates a search client for the configured Meilisearch instance.
func New(cfg *config.MeilisearchConfig, logger *logrus.Logger) *Client {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   cfg.URL,
		APIKey: cfg.APIKey,
	})

	logger.WithField("url", cfg.URL).Info("Meilisearch client initialized")

	return &Client{
		index:  client.Index(leaseIndex),
		logger: logger,
	}
}

// SearchLeases runs a full-text query against the lease index and returns
// the hits verbatim. The SDK manages its own HTTP transport, so ctx is
// accepted for interface symmetry only.
func (c *Client) SearchLeases(ctx context.Context, query string) ([]interface{}, error) {
	start := time.Now()

	res, err := c.index.Search(query, &meilisearch.SearchRequest{
		Limit: searchLimit,
	})
	if err != nil {
		metrics.RecordUpstreamCall("meilisearch", "error", time.Since(start))
		return nil, apperrors.NewAppError(apperrors.CodeUpstreamError, "search failed", err)
	}

	metrics.RecordUpstreamCall("meilisearch", "success", time.Since(start))
	return res.Hits, nil
}
