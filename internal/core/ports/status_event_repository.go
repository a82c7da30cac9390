package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// StatusEventRepository defines the persistence contract for the append-only
// order status timeline.
type StatusEventRepository interface {
	// Add appends a status event. Events are never updated or deleted.
	Add(ctx context.Context, event *order.StatusEvent) error

	// GetByOrderID retrieves all events for an order ordered by occurrence time.
	GetByOrderID(ctx context.Context, orderID kernel.UUID) ([]*order.StatusEvent, error)
}
