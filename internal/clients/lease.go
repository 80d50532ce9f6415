// Package clients holds HTTP clients for downstream platform services.
package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/car-leasing/core-api/internal/config"
	"github.com/car-leasing/core-api/internal/metrics"
	apperrors "github.com/car-leasing/core-api/pkg/errors"
)

// LeaseResult carries a downstream response back to the endpoint so the
// status and body can be mirrored verbatim.
type LeaseResult struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

// Success reports whether the downstream answered with a 2xx status.
func (r *LeaseResult) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// LeaseClient handles communication with the downstream lease-service.
type LeaseClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewLeaseClient creates a new lease-service client with a pooled transport.
func NewLeaseClient(cfg *config.LeaseServiceConfig, logger *logrus.Logger) *LeaseClient {
	httpClient := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxConnsPerHost:     10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &LeaseClient{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// FetchLease issues GET {base}/leases/{id}. Every HTTP response, success
// or not, comes back as a LeaseResult; an error means the request itself
// failed at the network level.
func (c *LeaseClient) FetchLease(ctx context.Context, id string) (*LeaseResult, error) {
	start := time.Now()

	endpoint := fmt.Sprintf("%s/leases/%s", c.baseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.CodeUpstreamError, "fetch lease failed", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamCall("lease-service", "error", time.Since(start))
		return nil, apperrors.NewAppError(apperrors.CodeUpstreamError, "fetch lease failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordUpstreamCall("lease-service", "error", time.Since(start))
		return nil, apperrors.NewAppError(apperrors.CodeUpstreamError, "fetch lease failed", err)
	}

	metrics.RecordUpstreamCall("lease-service", strconv.Itoa(resp.StatusCode), time.Since(start))

	c.logger.WithFields(logrus.Fields{
		"lease_id":    id,
		"status_code": resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Fetched lease from lease-service")

	return &LeaseResult{
		StatusCode:  resp.StatusCode,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
