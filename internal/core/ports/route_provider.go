package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// RouteProvider resolves a road-network polyline between two coordinates.
// Implementations talk to an external routing service; a failed or empty
// lookup is reported as an error and callers fall back to straight-line
// movement, so route resolution is never allowed to stall a simulation.
type RouteProvider interface {
	// GetRoute returns the route polyline from origin to destination.
	GetRoute(ctx context.Context, origin, destination kernel.GeoPoint) ([]kernel.GeoPoint, error)
}
