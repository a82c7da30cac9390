package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// StatusLog records order-level phase transitions for external observers.
// Implementations typically persist the event and additionally announce it
// on a message stream; the stream announcement is best effort and must not
// fail the transition.
type StatusLog interface {
	// Append records that the order entered the given phase.
	Append(ctx context.Context, orderID kernel.UUID, status order.Status, note string) error
}
