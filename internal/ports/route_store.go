package ports

import (
	"context"
	"errors"

	"courier-route-service/internal/domain"
)

// ErrNoSavedRoute is returned by Load when no snapshot exists.
var ErrNoSavedRoute = errors.New("no saved route")

// Port: persists the active route as a single opaque snapshot.
// Save overwrites any previous snapshot; Load returns ErrNoSavedRoute
// when nothing was saved. A corrupt snapshot is cleared by Load before
// the error is returned so it does not fail on every attempt.
type RouteStore interface {
	Save(ctx context.Context, route domain.Route) error
	Load(ctx context.Context) (domain.Route, error)
	Clear(ctx context.Context) error
}
