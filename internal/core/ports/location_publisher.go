package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// LocationPublisher pushes delivery agent positions to the live tracking
// store. Only the latest position per agent is retained (last write wins),
// so publishes are fire-and-forget from the simulation's point of view.
type LocationPublisher interface {
	// Publish records the agent's current position.
	Publish(ctx context.Context, agentID kernel.UUID, position kernel.GeoPoint) error
}
