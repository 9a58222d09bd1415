package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ovalstats/cricket-data-api/internal/domain/resource"
	"github.com/ovalstats/cricket-data-api/internal/service"
	"github.com/ovalstats/cricket-data-api/internal/storage/memstorage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubFetcher struct {
	collections map[resource.Type][]json.RawMessage
	failures    map[resource.Type]error
}

func (f *stubFetcher) FetchCollection(ctx context.Context, t resource.Type) ([]json.RawMessage, error) {
	if err, ok := f.failures[t]; ok {
		return nil, err
	}
	return f.collections[t], nil
}

func newSyncTestRouter(t *testing.T, fetcher *stubFetcher) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	healthRepo := memstorage.NewSyncHealthRepository()
	require.NoError(t, healthRepo.SeedAll(context.Background(), resource.Syncable()))

	svc := service.NewSyncService(
		fetcher,
		memstorage.NewResourceRepository(),
		memstorage.NewVersionRepository(),
		healthRepo,
		zap.NewNop(),
	)
	h := NewSyncHandler(svc, healthRepo, zap.NewNop())

	router := gin.New()
	router.POST("/sync", h.Trigger)
	router.GET("/sync/status", h.Status)
	return router
}

func TestSyncTriggerAll(t *testing.T) {
	fetcher := &stubFetcher{
		collections: map[resource.Type][]json.RawMessage{},
		failures:    map[resource.Type]error{},
	}
	for _, typ := range resource.Syncable() {
		fetcher.collections[typ] = []json.RawMessage{json.RawMessage(`{"id": 1}`)}
	}
	router := newSyncTestRouter(t, fetcher)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sync", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool             `json:"success"`
		Results []service.Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Results, len(resource.Syncable()))
	for i, typ := range resource.Syncable() {
		assert.Equal(t, string(typ), body.Results[i].Resource)
		assert.Equal(t, "success", body.Results[i].Status)
		assert.Equal(t, 1, body.Results[i].Count)
	}
}

func TestSyncTriggerSingleResource(t *testing.T) {
	fetcher := &stubFetcher{
		collections: map[resource.Type][]json.RawMessage{
			resource.Venues: {json.RawMessage(`{"id": 5, "name": "Lord's"}`)},
		},
		failures: map[resource.Type]error{},
	}
	router := newSyncTestRouter(t, fetcher)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sync?resource=venues", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool             `json:"success"`
		Results []service.Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "venues", body.Results[0].Resource)
	assert.Equal(t, 1, body.Results[0].Count)
}

func TestSyncTriggerInvalidResource(t *testing.T) {
	router := newSyncTestRouter(t, &stubFetcher{
		collections: map[resource.Type][]json.RawMessage{},
		failures:    map[resource.Type]error{},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sync?resource=scores", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error          string   `json:"error"`
		ValidResources []string `json:"valid_resources"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid resource", body.Error)
	// scores never syncs, so the hint lists only syncable types.
	assert.Len(t, body.ValidResources, len(resource.Syncable()))
	assert.NotContains(t, body.ValidResources, "scores")
}

func TestSyncTriggerReportsPartialFailure(t *testing.T) {
	fetcher := &stubFetcher{
		collections: map[resource.Type][]json.RawMessage{},
		failures: map[resource.Type]error{
			resource.Players: errors.New("upstream down"),
		},
	}
	for _, typ := range resource.Syncable() {
		if typ == resource.Players {
			continue
		}
		fetcher.collections[typ] = []json.RawMessage{json.RawMessage(`{"id": 1}`)}
	}
	router := newSyncTestRouter(t, fetcher)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sync", nil))

	// The run itself succeeds even when individual types fail.
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool             `json:"success"`
		Results []service.Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)

	failures := 0
	for _, res := range body.Results {
		if res.Error != "" {
			failures++
			assert.Equal(t, "players", res.Resource)
			assert.Equal(t, "error", res.Status)
		}
	}
	assert.Equal(t, 1, failures)
}

func TestSyncStatusListsAllTypes(t *testing.T) {
	router := newSyncTestRouter(t, &stubFetcher{
		collections: map[resource.Type][]json.RawMessage{},
		failures:    map[resource.Type]error{},
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sync/status", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body, len(resource.Syncable()))
	for _, row := range body {
		assert.Equal(t, "pending", row["status"])
	}
}
