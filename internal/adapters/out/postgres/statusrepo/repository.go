package statusrepo

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GormStatusEventRepository implements StatusEventRepository using GORM.
type GormStatusEventRepository struct {
	db *gorm.DB
}

// NewGormStatusEventRepository creates a new GORM status event repository.
func NewGormStatusEventRepository(db *gorm.DB) *GormStatusEventRepository {
	return &GormStatusEventRepository{db: db}
}

// Add appends a status event to the timeline.
func (r *GormStatusEventRepository) Add(ctx context.Context, event *order.StatusEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	dto := fromDomain(event)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetByOrderID retrieves all events for an order, oldest first.
func (r *GormStatusEventRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) ([]*order.StatusEvent, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []StatusEventDTO
	err := r.db.WithContext(ctx).
		Order("occurred_at, id").
		Find(&dtos, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	events := make([]*order.StatusEvent, 0, len(dtos))
	for _, dto := range dtos {
		event, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}
