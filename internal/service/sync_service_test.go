package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ovalstats/cricket-data-api/internal/domain/resource"
	"github.com/ovalstats/cricket-data-api/internal/domain/synchealth"
	"github.com/ovalstats/cricket-data-api/internal/storage/memstorage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	collections map[resource.Type][]json.RawMessage
	failures    map[resource.Type]error
}

func (f *fakeFetcher) FetchCollection(ctx context.Context, t resource.Type) ([]json.RawMessage, error) {
	if err, ok := f.failures[t]; ok {
		return nil, err
	}
	return f.collections[t], nil
}

type syncFixture struct {
	service  *SyncService
	fetcher  *fakeFetcher
	resource *memstorage.ResourceRepository
	versions *memstorage.VersionRepository
	health   *memstorage.SyncHealthRepository
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	fetcher := &fakeFetcher{
		collections: make(map[resource.Type][]json.RawMessage),
		failures:    make(map[resource.Type]error),
	}
	resourceRepo := memstorage.NewResourceRepository()
	versionRepo := memstorage.NewVersionRepository()
	healthRepo := memstorage.NewSyncHealthRepository()
	require.NoError(t, healthRepo.SeedAll(context.Background(), resource.Syncable()))

	return &syncFixture{
		service:  NewSyncService(fetcher, resourceRepo, versionRepo, healthRepo, zap.NewNop()),
		fetcher:  fetcher,
		resource: resourceRepo,
		versions: versionRepo,
		health:   healthRepo,
	}
}

func teamPayload(id int64, name string) json.RawMessage {
	payload, _ := json.Marshal(map[string]any{
		"id":            id,
		"name":          name,
		"country_id":    42,
		"national_team": false,
	})
	return payload
}

func TestSyncResourceFirstRun(t *testing.T) {
	f := newSyncFixture(t)
	f.fetcher.collections[resource.Teams] = []json.RawMessage{
		teamPayload(1, "Eagles"),
		teamPayload(2, "Hawks"),
	}

	result := f.service.SyncResource(context.Background(), resource.Teams)
	assert.Equal(t, "teams", result.Resource)
	assert.Equal(t, string(synchealth.StatusSuccess), result.Status)
	assert.Equal(t, 2, result.Count)
	assert.Empty(t, result.Error)

	rec := f.resource.Get(resource.Teams, 1)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.Version)

	// First inserts never produce history rows.
	snaps, err := f.versions.ListByRecord(context.Background(), resource.Teams, 1)
	require.NoError(t, err)
	assert.Empty(t, snaps)

	health, err := f.health.Get(context.Background(), resource.Teams)
	require.NoError(t, err)
	assert.Equal(t, synchealth.StatusSuccess, health.Status)
	assert.Equal(t, 2, health.RecordsCount)
	assert.NotNil(t, health.LastSuccessAt)
	assert.Nil(t, health.LastError)
}

func TestSyncResourceOverwriteBumpsVersion(t *testing.T) {
	f := newSyncFixture(t)
	f.fetcher.collections[resource.Teams] = []json.RawMessage{teamPayload(1, "Eagles")}

	f.service.SyncResource(context.Background(), resource.Teams)
	// Identical content still counts as an overwrite.
	f.service.SyncResource(context.Background(), resource.Teams)

	rec := f.resource.Get(resource.Teams, 1)
	require.NotNil(t, rec)
	assert.Equal(t, 2, rec.Version)

	snaps, err := f.versions.ListByRecord(context.Background(), resource.Teams, 1)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, 2, snaps[0].Version)
	assert.JSONEq(t, string(teamPayload(1, "Eagles")), string(snaps[0].Payload))
}

func TestSyncResourceHistoryAccumulates(t *testing.T) {
	f := newSyncFixture(t)

	for i := 0; i < 3; i++ {
		f.fetcher.collections[resource.Teams] = []json.RawMessage{teamPayload(1, "Eagles")}
		f.service.SyncResource(context.Background(), resource.Teams)
	}

	rec := f.resource.Get(resource.Teams, 1)
	require.NotNil(t, rec)
	assert.Equal(t, 3, rec.Version)

	snaps, err := f.versions.ListByRecord(context.Background(), resource.Teams, 1)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, 2, snaps[0].Version)
	assert.Equal(t, 3, snaps[1].Version)
}

func TestSyncResourceFetchFailure(t *testing.T) {
	f := newSyncFixture(t)
	f.fetcher.failures[resource.Teams] = errors.New("HTTP error! status: 502")

	result := f.service.SyncResource(context.Background(), resource.Teams)
	assert.Equal(t, string(synchealth.StatusError), result.Status)
	assert.Contains(t, result.Error, "502")

	health, err := f.health.Get(context.Background(), resource.Teams)
	require.NoError(t, err)
	assert.Equal(t, synchealth.StatusError, health.Status)
	require.NotNil(t, health.LastError)
	assert.Contains(t, *health.LastError, "502")
}

func TestSyncFailurePreservesLastSuccess(t *testing.T) {
	f := newSyncFixture(t)
	f.fetcher.collections[resource.Teams] = []json.RawMessage{
		teamPayload(1, "Eagles"),
		teamPayload(2, "Hawks"),
	}
	f.service.SyncResource(context.Background(), resource.Teams)

	before, err := f.health.Get(context.Background(), resource.Teams)
	require.NoError(t, err)
	require.NotNil(t, before.LastSuccessAt)

	f.fetcher.failures[resource.Teams] = errors.New("upstream down")
	f.service.SyncResource(context.Background(), resource.Teams)

	after, err := f.health.Get(context.Background(), resource.Teams)
	require.NoError(t, err)
	assert.Equal(t, synchealth.StatusError, after.Status)
	require.NotNil(t, after.LastSuccessAt)
	assert.Equal(t, *before.LastSuccessAt, *after.LastSuccessAt)
	assert.Equal(t, before.RecordsCount, after.RecordsCount)
}

func TestSyncResourceBadRecordAbortsType(t *testing.T) {
	f := newSyncFixture(t)
	f.fetcher.collections[resource.Teams] = []json.RawMessage{
		teamPayload(1, "Eagles"),
		json.RawMessage(`{"name": "no id here"}`),
		teamPayload(3, "Falcons"),
	}

	result := f.service.SyncResource(context.Background(), resource.Teams)
	assert.Equal(t, string(synchealth.StatusError), result.Status)

	// Records merged before the bad one stay; the rest of the batch is not
	// reached.
	assert.NotNil(t, f.resource.Get(resource.Teams, 1))
	assert.Nil(t, f.resource.Get(resource.Teams, 3))
}

func TestSyncAllIsolatesFailures(t *testing.T) {
	f := newSyncFixture(t)
	for _, typ := range resource.Syncable() {
		f.fetcher.collections[typ] = []json.RawMessage{teamPayload(1, "only")}
	}
	f.fetcher.failures[resource.Players] = errors.New("players endpoint down")

	results := f.service.SyncAll(context.Background())
	require.Len(t, results, len(resource.Syncable()))

	// Fixed order, one result per type.
	for i, typ := range resource.Syncable() {
		assert.Equal(t, string(typ), results[i].Resource)
		if typ == resource.Players {
			assert.Equal(t, string(synchealth.StatusError), results[i].Status)
		} else {
			assert.Equal(t, string(synchealth.StatusSuccess), results[i].Status)
		}
	}
}
