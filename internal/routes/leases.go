package routes

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/car-leasing/core-api/internal/clients"
	apperrors "github.com/car-leasing/core-api/pkg/errors"
)

// LeaseSearcher runs full-text queries against the lease index.
type LeaseSearcher interface {
	SearchLeases(ctx context.Context, query string) ([]interface{}, error)
}

// LeaseFetcher retrieves a single lease from the downstream lease-service.
type LeaseFetcher interface {
	FetchLease(ctx context.Context, id string) (*clients.LeaseResult, error)
}

// LeaseHandler handles lease search and proxy-fetch endpoints
type LeaseHandler struct {
	searcher LeaseSearcher
	fetcher  LeaseFetcher
	logger   *logrus.Logger
}

// NewLeaseHandler creates a new lease handler
func NewLeaseHandler(searcher LeaseSearcher, fetcher LeaseFetcher, logger *logrus.Logger) *LeaseHandler {
	return &LeaseHandler{
		searcher: searcher,
		fetcher:  fetcher,
		logger:   logger,
	}
}

// Search forwards the q query parameter to the search index and returns
// the hit list verbatim. Upstream failures surface as a fixed generic
// message; the raw error only reaches the logs.
func (h *LeaseHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")

	hits, err := h.searcher.SearchLeases(c.Context(), query)
	if err != nil {
		h.logger.WithError(err).WithField("query", query).Error("Lease search failed")
		return c.Status(apperrors.StatusOf(err)).JSON(fiber.Map{
			"error": "search failed",
		})
	}

	if hits == nil {
		hits = []interface{}{}
	}

	return c.JSON(hits)
}

// GetByID proxies the fetch to the lease-service. A non-success downstream
// response is mirrored verbatim, status and body both; only network-level
// failures become the generic 500.
func (h *LeaseHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")

	result, err := h.fetcher.FetchLease(c.Context(), id)
	if err != nil {
		h.logger.WithError(err).WithField("lease_id", id).Error("Lease fetch failed")
		return c.Status(apperrors.StatusOf(err)).JSON(fiber.Map{
			"error": "fetch lease failed",
		})
	}

	if !result.Success() {
		if result.ContentType != "" {
			c.Set(fiber.HeaderContentType, result.ContentType)
		}
		return c.Status(result.StatusCode).Send(result.Body)
	}

	var body interface{}
	if err := json.Unmarshal(result.Body, &body); err != nil {
		h.logger.WithError(err).WithField("lease_id", id).Error("Lease-service returned malformed JSON")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "fetch lease failed",
		})
	}

	return c.JSON(body)
}
