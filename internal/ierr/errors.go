package ierr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource conflict")
	ErrInternalServer = errors.New("internal server error")

	ErrInvalidResource = errors.New("invalid resource")
	ErrMissingAPIKey   = errors.New("api key required")
	ErrInvalidAPIKey   = errors.New("invalid api key")
	ErrAPIKeyInactive  = errors.New("api key is inactive")
	ErrAPIKeyExpired   = errors.New("api key has expired")
	ErrRateLimited     = errors.New("rate limit exceeded")

	ErrUpstreamFetch = errors.New("upstream fetch failed")
	ErrStorage       = errors.New("storage failure")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// RateLimitError carries the configured per-minute limit so the gateway
// handler can report it alongside the 429.
type RateLimitError struct {
	Limit int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded: %d requests per minute allowed", e.Limit)
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}
