package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates and
// their vendor sub-orders.
type OrderRepository interface {
	// Add persists a new order aggregate and its sub-orders.
	Add(ctx context.Context, aggregate *order.Order, subOrders []*order.SubOrder) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetSubOrders retrieves all sub-orders of an order.
	GetSubOrders(ctx context.Context, orderID kernel.UUID) ([]*order.SubOrder, error)

	// UpdateSubOrder persists changes to a single sub-order.
	UpdateSubOrder(ctx context.Context, subOrder *order.SubOrder) error

	// GetAllInActiveStatus retrieves orders that are neither delivered nor
	// cancelled. Used on startup to find simulations orphaned by a restart.
	GetAllInActiveStatus(ctx context.Context) ([]*order.Order, error)
}
