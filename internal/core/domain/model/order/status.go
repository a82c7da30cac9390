package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents a phase in the order fulfillment timeline.
// It implements a state machine over the fixed, ordered sequence
//
//	pending_at_store -> store_accepted -> preparing_order -> ready_for_pickup ->
//	delivery_partner_assigned -> order_picked_up -> in_transit -> order_delivered
//
// with order_cancelled reachable from any non-terminal phase. Progression is
// monotonically non-decreasing: a status may be re-written with itself or any
// later phase, never an earlier one.
//
// The string form of each status is part of the wire contract consumed by
// external observers and must not be changed.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// PendingAtStore is the initial phase: the order is placed but no store
	// has acknowledged it yet.
	PendingAtStore

	// StoreAccepted indicates every vendor store has accepted the order.
	StoreAccepted

	// PreparingOrder indicates the stores are preparing the order items.
	PreparingOrder

	// ReadyForPickup indicates the prepared items are awaiting pickup.
	ReadyForPickup

	// DeliveryPartnerAssigned indicates a delivery agent has been assigned.
	DeliveryPartnerAssigned

	// OrderPickedUp indicates an agent has collected the items from a vendor.
	OrderPickedUp

	// InTransit indicates at least one agent is en route to the customer.
	InTransit

	// OrderDelivered indicates every part of the order reached the customer.
	// Terminal.
	OrderDelivered

	// OrderCancelled indicates the order was aborted. Terminal.
	OrderCancelled
)

// getStatusStrings returns the wire names for every Status value, including Unknown.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:                 "unknown",
		PendingAtStore:          "pending_at_store",
		StoreAccepted:           "store_accepted",
		PreparingOrder:          "preparing_order",
		ReadyForPickup:          "ready_for_pickup",
		DeliveryPartnerAssigned: "delivery_partner_assigned",
		OrderPickedUp:           "order_picked_up",
		InTransit:               "in_transit",
		OrderDelivered:          "order_delivered",
		OrderCancelled:          "order_cancelled",
	}
}

// getValidStatusStrings returns the wire names of valid statuses only.
func getValidStatusStrings() map[Status]string {
	m := getStatusStrings()
	delete(m, Unknown)
	return m
}

// StatusFromString resolves a wire name back to its Status value.
// Returns an error for unknown names.
func StatusFromString(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status", fmt.Errorf("%q is not a valid status name", s))
}

// Validate checks that the Status is one of the defined phases.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, or "unknown" for invalid values.
// This method implements the fmt.Stringer interface.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transitions are allowed from this status.
func (s Status) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// ValidateAdvanceTo checks whether moving to next is allowed without performing
// the transition.
//
// Rules:
//   - both statuses must be valid
//   - no transition leaves a terminal status
//   - OrderCancelled is reachable from any non-terminal status
//   - otherwise next must not precede the current status (monotone, duplicates allowed)
func (s Status) ValidateAdvanceTo(next Status) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}

	if s.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is terminal and cannot transition to %s", s, next),
		)
	}

	if next == OrderCancelled {
		return nil
	}

	if next < s {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("cannot regress from %s to %s", s, next),
		)
	}

	return nil
}

// AdvanceTo transitions to next, enforcing the rules of ValidateAdvanceTo.
// Returns the new status on success.
func (s Status) AdvanceTo(next Status) (Status, error) {
	if err := s.ValidateAdvanceTo(next); err != nil {
		return Unknown, err
	}

	return next, nil
}
