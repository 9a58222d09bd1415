package apikey

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrAPIKeyNotFound = errors.New("api key not found")

type Repository interface {
	// FindByHash looks a key up by its digest alone. Activity and expiry are
	// deliberately not part of the query; the caller checks them after the
	// row is loaded so a dead key costs the same as a live one.
	FindByHash(ctx context.Context, keyHash string) (*APIKey, error)
	Create(ctx context.Context, key *APIKey) (uuid.UUID, error)
	List(ctx context.Context) ([]*APIKey, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateLastUsed(ctx context.Context, id uuid.UUID, lastUsed time.Time) error
}
