package memstorage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ovalstats/cricket-data-api/internal/domain/apikey"
)

// APIKeyRepository is the in-memory credential store used in tests.
type APIKeyRepository struct {
	mu   sync.RWMutex
	keys map[uuid.UUID]*apikey.APIKey
}

func NewAPIKeyRepository() *APIKeyRepository {
	return &APIKeyRepository{
		keys: make(map[uuid.UUID]*apikey.APIKey),
	}
}

var _ apikey.Repository = (*APIKeyRepository)(nil)

func (r *APIKeyRepository) FindByHash(ctx context.Context, keyHash string) (*apikey.APIKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, key := range r.keys {
		if key.KeyHash == keyHash {
			keyCopy := *key
			return &keyCopy, nil
		}
	}
	return nil, apikey.ErrAPIKeyNotFound
}

func (r *APIKeyRepository) Create(ctx context.Context, key *apikey.APIKey) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	keyCopy := *key
	if keyCopy.ID == uuid.Nil {
		keyCopy.ID = uuid.New()
	}
	if keyCopy.CreatedAt.IsZero() {
		keyCopy.CreatedAt = time.Now().UTC()
	}
	r.keys[keyCopy.ID] = &keyCopy
	return keyCopy.ID, nil
}

func (r *APIKeyRepository) List(ctx context.Context) ([]*apikey.APIKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]*apikey.APIKey, 0, len(r.keys))
	for _, key := range r.keys {
		keyCopy := *key
		keys = append(keys, &keyCopy)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].CreatedAt.After(keys[j].CreatedAt)
	})
	return keys, nil
}

func (r *APIKeyRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.keys[id]
	if !ok {
		return apikey.ErrAPIKeyNotFound
	}
	key.IsActive = active
	return nil
}

func (r *APIKeyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.keys[id]; !ok {
		return apikey.ErrAPIKeyNotFound
	}
	delete(r.keys, id)
	return nil
}

func (r *APIKeyRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID, lastUsed time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.keys[id]
	if !ok {
		return apikey.ErrAPIKeyNotFound
	}
	t := lastUsed
	key.LastUsedAt = &t
	return nil
}
