package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ovalstats/cricket-data-api/internal/config"
	"github.com/ovalstats/cricket-data-api/internal/domain/resource"
	"github.com/ovalstats/cricket-data-api/internal/ierr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(serverURL string) *Client {
	return NewClient(&config.UpstreamConfig{
		BaseURL: serverURL,
		Token:   "test-token",
		Timeout: 5 * time.Second,
	}, zap.NewNop())
}

func TestFetchCollection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/teams", r.URL.Path)
		assert.Equal(t, "test-token", r.URL.Query().Get("api_token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [{"id": 1, "name": "Eagles"}, {"id": 2, "name": "Hawks"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	payloads, err := client.FetchCollection(context.Background(), resource.Teams)
	require.NoError(t, err)
	require.Len(t, payloads, 2)
	assert.JSONEq(t, `{"id": 1, "name": "Eagles"}`, string(payloads[0]))
}

func TestFetchCollectionEmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	payloads, err := newTestClient(server.URL).FetchCollection(context.Background(), resource.Venues)
	require.NoError(t, err)
	assert.Empty(t, payloads)
}

func TestFetchCollectionUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchCollection(context.Background(), resource.Teams)
	require.Error(t, err)
	assert.ErrorIs(t, err, ierr.ErrUpstreamFetch)
	assert.Contains(t, err.Error(), "HTTP error! status: 502")
}

func TestFetchCollectionMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchCollection(context.Background(), resource.Teams)
	assert.ErrorIs(t, err, ierr.ErrUpstreamFetch)
}

func TestFetchCollectionContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).FetchCollection(ctx, resource.Teams)
	assert.ErrorIs(t, err, ierr.ErrUpstreamFetch)
}
