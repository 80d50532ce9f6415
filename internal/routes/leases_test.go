package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/car-leasing/core-api/internal/clients"
)

type stubSearcher struct {
	hits      []interface{}
	err       error
	lastQuery string
}

func (s *stubSearcher) SearchLeases(ctx context.Context, query string) ([]interface{}, error) {
	s.lastQuery = query
	return s.hits, s.err
}

type stubFetcher struct {
	result *clients.LeaseResult
	err    error
	lastID string
}

func (s *stubFetcher) FetchLease(ctx context.Context, id string) (*clients.LeaseResult, error) {
	s.lastID = id
	return s.result, s.err
}

func TestLeaseSearch_ReturnsHitsVerbatim(t *testing.T) {
	searcher := &stubSearcher{
		hits: []interface{}{
			map[string]interface{}{"id": "1", "model": "bmw 320i"},
			map[string]interface{}{"id": "2", "model": "bmw x5"},
		},
	}
	app := newTestApp(t, &Dependencies{Search: searcher})

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/leases?q=bmw", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "bmw", searcher.lastQuery)

	var hits []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &hits))
	require.Len(t, hits, 2)
	assert.Equal(t, "bmw 320i", hits[0]["model"])
	assert.Equal(t, "bmw x5", hits[1]["model"])
}

func TestLeaseSearch_DefaultsToEmptyQuery(t *testing.T) {
	searcher := &stubSearcher{hits: []interface{}{}}
	app := newTestApp(t, &Dependencies{Search: searcher})

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/leases", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "", searcher.lastQuery)
	assert.JSONEq(t, `[]`, body)
}

func TestLeaseSearch_UpstreamFailure(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("meilisearch: connection refused")}
	app := newTestApp(t, &Dependencies{Search: searcher})

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/leases?q=bmw", nil))

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	// Fixed generic message; the raw upstream error stays in the logs.
	assert.JSONEq(t, `{"error":"search failed"}`, body)
}

func TestLeaseGet_Success(t *testing.T) {
	fetcher := &stubFetcher{
		result: &clients.LeaseResult{
			StatusCode:  http.StatusOK,
			Body:        []byte(`{"id":"42","model":"bmw 320i","monthly_rate":499}`),
			ContentType: "application/json",
		},
	}
	app := newTestApp(t, &Dependencies{Leases: fetcher})

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/leases/42", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "42", fetcher.lastID)
	assert.JSONEq(t, `{"id":"42","model":"bmw 320i","monthly_rate":499}`, body)
}

func TestLeaseGet_MirrorsDownstreamError(t *testing.T) {
	downstreamBody := `{"error":"lease not found"}`
	fetcher := &stubFetcher{
		result: &clients.LeaseResult{
			StatusCode:  http.StatusNotFound,
			Body:        []byte(downstreamBody),
			ContentType: "application/json",
		},
	}
	app := newTestApp(t, &Dependencies{Leases: fetcher})

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/leases/42", nil))

	// Pass-through, not translated to the generic 500.
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, downstreamBody, body)
}

func TestLeaseGet_NetworkFailure(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("dial tcp: connection refused")}
	app := newTestApp(t, &Dependencies{Leases: fetcher})

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/leases/42", nil))

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"fetch lease failed"}`, body)
}

func TestLeaseGet_MalformedDownstreamJSON(t *testing.T) {
	fetcher := &stubFetcher{
		result: &clients.LeaseResult{
			StatusCode: http.StatusOK,
			Body:       []byte(`not json`),
		},
	}
	app := newTestApp(t, &Dependencies{Leases: fetcher})

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/leases/42", nil))

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"fetch lease failed"}`, body)
}
