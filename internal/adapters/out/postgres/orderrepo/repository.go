package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order aggregate and its vendor sub-orders to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order, subOrders []*order.SubOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	for _, subOrder := range subOrders {
		if err := subOrder.Validate(); err != nil {
			return err
		}
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	for _, subOrder := range subOrders {
		subDTO := subOrderFromDomain(subOrder)
		if err := r.db.WithContext(ctx).Create(&subDTO).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order aggregate to the database.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetSubOrders retrieves all sub-orders belonging to an order.
func (r *GormOrderRepository) GetSubOrders(ctx context.Context, orderID kernel.UUID) ([]*order.SubOrder, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []SubOrderDTO
	if err := r.db.WithContext(ctx).Order("id").Find(&dtos, "order_id = ?", orderID.Bytes()).Error; err != nil {
		return nil, err
	}

	subOrders := make([]*order.SubOrder, 0, len(dtos))
	for _, dto := range dtos {
		subOrder, err := subOrderToDomain(dto)
		if err != nil {
			return nil, err
		}
		subOrders = append(subOrders, subOrder)
	}

	return subOrders, nil
}

// UpdateSubOrder saves an existing sub-order to the database.
func (r *GormOrderRepository) UpdateSubOrder(ctx context.Context, subOrder *order.SubOrder) error {
	if err := subOrder.Validate(); err != nil {
		return err
	}

	dto := subOrderFromDomain(subOrder)

	// Select lists every column explicitly so nullable milestone fields are
	// written even when they move back to NULL.
	result := r.db.WithContext(ctx).
		Model(&SubOrderDTO{}).
		Where("id = ?", dto.ID).
		Select("vendor_lat", "vendor_lng", "status", "agent_id", "assigned_at", "picked_up_at", "delivered_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// GetAllInActiveStatus retrieves all orders that are neither delivered nor
// cancelled. Used by the recovery job to re-launch orphaned simulations.
func (r *GormOrderRepository) GetAllInActiveStatus(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "status NOT IN ?", []string{
			order.OrderDelivered.String(),
			order.OrderCancelled.String(),
		}).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
