// Package queries contains read-only operations over the persisted state.
// Query handlers bypass the domain aggregates and read storage directly,
// following the CQRS split used across the application layer.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderStatusEventsQueryIsNotConstructed = errors.New(
	"GetOrderStatusEventsQuery must be created via NewGetOrderStatusEventsQuery constructor",
)

// GetOrderStatusEventsQuery retrieves the status timeline of one order.
// This is the poll surface external observers use to follow an order's
// progress through the fulfillment phases.
type GetOrderStatusEventsQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderStatusEventsQuery creates a query for the given order.
func NewGetOrderStatusEventsQuery(orderID kernel.UUID) (GetOrderStatusEventsQuery, error) {
	query := GetOrderStatusEventsQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setOrderID(orderID); err != nil {
		return GetOrderStatusEventsQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderStatusEventsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStatusEventsQueryIsNotConstructed)
}

// OrderID returns the order whose timeline is requested.
func (q GetOrderStatusEventsQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *GetOrderStatusEventsQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// GetOrderStatusEventsQueryResponse is one entry of the order's timeline.
// Status carries the wire vocabulary (pending_at_store .. order_cancelled).
type GetOrderStatusEventsQueryResponse struct {
	ID         kernel.UUID
	OrderID    kernel.UUID
	Status     string
	Note       string
	OccurredAt time.Time
}
