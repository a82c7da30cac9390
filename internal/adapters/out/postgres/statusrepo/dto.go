// Package statusrepo persists the append-only order status timeline.
// Events are written once per order-level phase transition and never
// updated, so the repository exposes only Add and read operations.
package statusrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// StatusEventDTO represents the database structure for one timeline entry.
// Status is stored as the wire vocabulary string.
type StatusEventDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;index"`
	Status     string
	Note       string
	OccurredAt time.Time `gorm:"index"`
}

// TableName overrides GORM's default naming convention to use "status_events".
func (StatusEventDTO) TableName() string {
	return "status_events"
}

// fromDomain converts a status event to its database representation.
func fromDomain(event *order.StatusEvent) StatusEventDTO {
	return StatusEventDTO{
		ID:         event.ID().Bytes(),
		OrderID:    event.OrderID().Bytes(),
		Status:     event.Status().String(),
		Note:       event.Note(),
		OccurredAt: event.OccurredAt(),
	}
}

// toDomain converts a database DTO back into a status event.
func toDomain(dto StatusEventDTO) (*order.StatusEvent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreStatusEvent(id, orderID, status, dto.Note, dto.OccurredAt)
}
