package order

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// Domain errors for sub-order operations.
var (
	// ErrSubOrderIsNotConstructed is returned when using an improperly initialized SubOrder.
	ErrSubOrderIsNotConstructed = errors.New("SubOrder must be created via NewSubOrder or RestoreSubOrder constructor")
	// ErrNoSubOrders is returned when an order has no vendor sub-orders to simulate.
	ErrNoSubOrders = errs.NewValueIsRequiredError("order must have at least one sub-order")
)

// SubOrder is the portion of an Order fulfilled by a single vendor.
// Each sub-order is delivered independently by one simulated agent and carries
// its own status, which obeys the same monotone phase sequence as the order.
// Milestone timestamps record when the agent was assigned, when the items were
// picked up, and when the drop-off completed.
type SubOrder struct {
	id      kernel.UUID
	orderID kernel.UUID

	vendorID kernel.UUID

	// vendorLocation is the pickup point. It may be absent when the vendor's
	// address could not be geocoded; such sub-orders are skipped by the
	// movement simulation but still tracked.
	vendorLocation kernel.GeoPoint

	status Status

	// agentID is the delivery agent carrying this sub-order (nil before assignment)
	agentID *kernel.UUID

	assignedAt  *time.Time
	pickedUpAt  *time.Time
	deliveredAt *time.Time

	guard guard.ConstructorGuard
}

// NewSubOrder creates a fresh SubOrder in the PendingAtStore phase.
func NewSubOrder(
	id kernel.UUID,
	orderID kernel.UUID,
	vendorID kernel.UUID,
	vendorLocation kernel.GeoPoint,
) (*SubOrder, error) {
	return RestoreSubOrder(id, orderID, vendorID, vendorLocation, PendingAtStore, nil, nil, nil, nil)
}

// RestoreSubOrder reconstructs a SubOrder from persistence. Unlike NewSubOrder
// it tolerates a zero-value vendor location (unresolved vendor coordinates):
// the sub-order is valid but reports HasVendorLocation() == false.
func RestoreSubOrder(
	id kernel.UUID,
	orderID kernel.UUID,
	vendorID kernel.UUID,
	vendorLocation kernel.GeoPoint,
	status Status,
	agentID *kernel.UUID,
	assignedAt *time.Time,
	pickedUpAt *time.Time,
	deliveredAt *time.Time,
) (*SubOrder, error) {
	s := &SubOrder{
		vendorLocation: vendorLocation,
		assignedAt:     assignedAt,
		pickedUpAt:     pickedUpAt,
		deliveredAt:    deliveredAt,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.setID(id),
		s.setOrderID(orderID),
		s.setVendorID(vendorID),
		s.setStatus(status),
		s.setAgentID(agentID),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate ensures the SubOrder was created through a constructor.
func (s *SubOrder) Validate() error {
	if s == nil {
		return ErrSubOrderIsNotConstructed
	}
	return s.guard.Validate(ErrSubOrderIsNotConstructed)
}

// ID returns the sub-order's unique identifier.
func (s *SubOrder) ID() kernel.UUID {
	return s.id
}

// OrderID returns the identifier of the owning order.
func (s *SubOrder) OrderID() kernel.UUID {
	return s.orderID
}

// VendorID returns the identifier of the vendor fulfilling this sub-order.
func (s *SubOrder) VendorID() kernel.UUID {
	return s.vendorID
}

// VendorLocation returns the pickup point. Check HasVendorLocation first:
// the returned point is the zero value when no coordinates are resolved.
func (s *SubOrder) VendorLocation() kernel.GeoPoint {
	return s.vendorLocation
}

// HasVendorLocation reports whether the vendor's pickup coordinates are known.
func (s *SubOrder) HasVendorLocation() bool {
	return s.vendorLocation.Validate() == nil
}

// Status returns the sub-order's current phase.
func (s *SubOrder) Status() Status {
	return s.status
}

// Agent returns the assigned delivery agent's id, or nil before assignment.
func (s *SubOrder) Agent() *kernel.UUID {
	return s.agentID
}

// AssignedAt returns when the delivery agent was assigned, or nil.
func (s *SubOrder) AssignedAt() *time.Time {
	return s.assignedAt
}

// PickedUpAt returns when the items were collected from the vendor, or nil.
func (s *SubOrder) PickedUpAt() *time.Time {
	return s.pickedUpAt
}

// DeliveredAt returns when the drop-off completed, or nil.
func (s *SubOrder) DeliveredAt() *time.Time {
	return s.deliveredAt
}

// AdvanceTo moves the sub-order to the given phase, enforcing monotone progression.
func (s *SubOrder) AdvanceTo(next Status) error {
	newStatus, err := s.status.AdvanceTo(next)
	if err != nil {
		return err
	}

	s.status = newStatus
	return nil
}

// AssignAgent records the delivery agent and moves the sub-order to
// DeliveryPartnerAssigned with the given assignment timestamp.
func (s *SubOrder) AssignAgent(agentID kernel.UUID, at time.Time) error {
	if err := agentID.Validate(); err != nil {
		return err
	}

	if err := s.AdvanceTo(DeliveryPartnerAssigned); err != nil {
		return err
	}

	s.agentID = &agentID
	s.assignedAt = &at
	return nil
}

// MarkPickedUp moves the sub-order to OrderPickedUp with a pickup timestamp.
func (s *SubOrder) MarkPickedUp(at time.Time) error {
	if err := s.AdvanceTo(OrderPickedUp); err != nil {
		return err
	}

	s.pickedUpAt = &at
	return nil
}

// MarkInTransit moves the sub-order to InTransit.
func (s *SubOrder) MarkInTransit() error {
	return s.AdvanceTo(InTransit)
}

// MarkDelivered moves the sub-order to the OrderDelivered terminal phase
// with a delivery timestamp.
func (s *SubOrder) MarkDelivered(at time.Time) error {
	if err := s.AdvanceTo(OrderDelivered); err != nil {
		return err
	}

	s.deliveredAt = &at
	return nil
}

// Cancel diverts the sub-order to the OrderCancelled terminal phase.
func (s *SubOrder) Cancel() error {
	return s.AdvanceTo(OrderCancelled)
}

func (s *SubOrder) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *SubOrder) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.orderID = id
	return nil
}

func (s *SubOrder) setVendorID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.vendorID = id
	return nil
}

func (s *SubOrder) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	s.status = status
	return nil
}

func (s *SubOrder) setAgentID(id *kernel.UUID) error {
	if id == nil {
		return nil
	}
	if err := id.Validate(); err != nil {
		return err
	}
	s.agentID = id
	return nil
}
