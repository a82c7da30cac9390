package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderStatusEventsQueryHandler reads the order's status timeline from
// the database, oldest event first.
type GetOrderStatusEventsQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderStatusEventsQueryHandler creates a handler for status timeline queries.
func NewGetOrderStatusEventsQueryHandler(db *gorm.DB) GetOrderStatusEventsQueryHandler {
	return GetOrderStatusEventsQueryHandler{db: db}
}

// Handle executes the query. Events are returned in occurrence order so the
// caller can render the timeline directly.
func (h GetOrderStatusEventsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderStatusEventsQuery,
) ([]GetOrderStatusEventsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	events := make([]GetOrderStatusEventsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			status,
			note,
			occurred_at
		FROM status_events
		WHERE order_id = ?
		ORDER BY occurred_at, id
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var event GetOrderStatusEventsQueryResponse
		var id, orderID uuid.UUID

		if err = rows.Scan(
			&id,
			&orderID,
			&event.Status,
			&event.Note,
			&event.OccurredAt,
		); err != nil {
			return nil, err
		}

		eventID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		event.ID = eventID

		ownerID, idErr := kernel.UUIDFromBytes(orderID[:])
		if idErr != nil {
			return nil, idErr
		}
		event.OrderID = ownerID

		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
