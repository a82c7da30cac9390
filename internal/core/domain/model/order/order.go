package order

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through the NewOrder or RestoreOrder factory methods.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

// Order is the aggregate root for a customer-facing purchase that may span
// multiple vendors. The order carries the customer-visible fulfillment status,
// which is advanced by the lifecycle controller; the per-vendor work is tracked
// by SubOrder entities that reference the order by id.
//
// Invariants:
//   - valid unique identifier and delivery location
//   - status moves monotonically along the fixed phase sequence (see Status)
//   - the order reaches OrderDelivered only when every sub-order has been delivered
//
// Orders can only be created through NewOrder (fresh, PendingAtStore) or
// RestoreOrder (rehydrated from persistence).
type Order struct {
	id kernel.UUID

	// deliveryLocation is the customer drop-off point shared by all sub-orders
	deliveryLocation kernel.GeoPoint

	// subOrderCount is the number of vendor sub-orders this order fans out to
	subOrderCount int

	status Status

	guard guard.ConstructorGuard
}

// NewOrder creates a fresh Order in the PendingAtStore phase.
// All parameters are validated; subOrderCount must be positive.
func NewOrder(id kernel.UUID, deliveryLocation kernel.GeoPoint, subOrderCount int) (*Order, error) {
	return RestoreOrder(id, deliveryLocation, subOrderCount, PendingAtStore)
}

// RestoreOrder reconstructs an Order from persistence with an explicit status.
func RestoreOrder(
	id kernel.UUID,
	deliveryLocation kernel.GeoPoint,
	subOrderCount int,
	status Status,
) (*Order, error) {
	o := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setDeliveryLocation(deliveryLocation),
		o.setSubOrderCount(subOrderCount),
		o.setStatus(status),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// DeliveryLocation returns the customer drop-off point.
func (o *Order) DeliveryLocation() kernel.GeoPoint {
	return o.deliveryLocation
}

// SubOrderCount returns the number of vendor sub-orders.
func (o *Order) SubOrderCount() int {
	return o.subOrderCount
}

// Status returns the current customer-facing status.
func (o *Order) Status() Status {
	return o.status
}

// AdvanceTo moves the order to the given phase, enforcing monotone progression.
// Re-writing the current phase is a no-op success, so phase writes are idempotent.
func (o *Order) AdvanceTo(next Status) error {
	newStatus, err := o.status.AdvanceTo(next)
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Cancel diverts the order to the OrderCancelled terminal phase.
// Fails if the order is already terminal.
func (o *Order) Cancel() error {
	return o.AdvanceTo(OrderCancelled)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setDeliveryLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	o.deliveryLocation = location
	return nil
}

func (o *Order) setSubOrderCount(count int) error {
	if count <= 0 {
		return ErrNoSubOrders
	}
	o.subOrderCount = count
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}
