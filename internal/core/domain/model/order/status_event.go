package order

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

// ErrStatusEventIsNotConstructed is returned when a StatusEvent was not created
// through one of the factory functions.
var ErrStatusEventIsNotConstructed = errors.New(
	"StatusEvent must be created via NewStatusEvent or RestoreStatusEvent constructor")

// StatusEvent is a timestamped milestone in an order's fulfillment timeline.
// Events are append-only: one event is written per order-level phase transition
// and never mutated afterwards. External observers poll or subscribe to the
// event feed, so the status wire names are part of the public contract.
type StatusEvent struct {
	id         kernel.UUID
	orderID    kernel.UUID
	status     Status
	note       string
	occurredAt time.Time

	guard guard.ConstructorGuard
}

// NewStatusEvent creates an event for the given order and phase, stamped now.
// The note is optional free text shown to observers ("" for none).
func NewStatusEvent(orderID kernel.UUID, status Status, note string) (*StatusEvent, error) {
	return RestoreStatusEvent(kernel.NewUUID(), orderID, status, note, time.Now().UTC())
}

// RestoreStatusEvent reconstructs an event from persistence.
func RestoreStatusEvent(
	id kernel.UUID,
	orderID kernel.UUID,
	status Status,
	note string,
	occurredAt time.Time,
) (*StatusEvent, error) {
	e := &StatusEvent{
		note:       note,
		occurredAt: occurredAt,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		e.setID(id),
		e.setOrderID(orderID),
		e.setStatus(status),
	); err != nil {
		return nil, err
	}

	return e, nil
}

// Validate ensures the StatusEvent was created through a constructor.
func (e *StatusEvent) Validate() error {
	if e == nil {
		return ErrStatusEventIsNotConstructed
	}
	return e.guard.Validate(ErrStatusEventIsNotConstructed)
}

// ID returns the event's unique identifier.
func (e *StatusEvent) ID() kernel.UUID {
	return e.id
}

// OrderID returns the identifier of the order this event belongs to.
func (e *StatusEvent) OrderID() kernel.UUID {
	return e.orderID
}

// Status returns the phase this event records.
func (e *StatusEvent) Status() Status {
	return e.status
}

// Note returns the optional free-text annotation ("" when absent).
func (e *StatusEvent) Note() string {
	return e.note
}

// OccurredAt returns when the transition happened.
func (e *StatusEvent) OccurredAt() time.Time {
	return e.occurredAt
}

func (e *StatusEvent) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *StatusEvent) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.orderID = id
	return nil
}

func (e *StatusEvent) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	e.status = status
	return nil
}
