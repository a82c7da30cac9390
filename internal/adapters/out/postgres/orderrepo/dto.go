// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate and its vendor sub-orders, converting between domain entities
// and their relational representation.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Status is stored as the wire vocabulary string (pending_at_store ..
// order_cancelled) so external readers of the table see the public contract.
type OrderDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryLat   float64
	DeliveryLng   float64
	SubOrderCount int
	Status        string `gorm:"index"`
}

// TableName overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// SubOrderDTO represents the database structure for one vendor's sub-order.
// Vendor coordinates are nullable: a sub-order whose vendor address could
// not be geocoded is persisted without them.
type SubOrderDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;index"`
	VendorID    uuid.UUID `gorm:"type:uuid"`
	VendorLat   *float64
	VendorLng   *float64
	Status      string     `gorm:"index"`
	AgentID     *uuid.UUID `gorm:"type:uuid"`
	AssignedAt  *time.Time
	PickedUpAt  *time.Time
	DeliveredAt *time.Time
}

// TableName overrides GORM's default naming convention to use "sub_orders".
func (SubOrderDTO) TableName() string {
	return "sub_orders"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	return OrderDTO{
		ID:            aggregate.ID().Bytes(),
		DeliveryLat:   aggregate.DeliveryLocation().Lat(),
		DeliveryLng:   aggregate.DeliveryLocation().Lng(),
		SubOrderCount: aggregate.SubOrderCount(),
		Status:        aggregate.Status().String(),
	}
}

// toDomain converts a database DTO back into an order aggregate.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	delivery, err := kernel.NewGeoPoint(dto.DeliveryLat, dto.DeliveryLng)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, delivery, dto.SubOrderCount, status)
}

// subOrderFromDomain converts a sub-order entity to its database representation.
func subOrderFromDomain(subOrder *order.SubOrder) SubOrderDTO {
	dto := SubOrderDTO{
		ID:          subOrder.ID().Bytes(),
		OrderID:     subOrder.OrderID().Bytes(),
		VendorID:    subOrder.VendorID().Bytes(),
		Status:      subOrder.Status().String(),
		AssignedAt:  subOrder.AssignedAt(),
		PickedUpAt:  subOrder.PickedUpAt(),
		DeliveredAt: subOrder.DeliveredAt(),
	}

	if subOrder.HasVendorLocation() {
		lat := subOrder.VendorLocation().Lat()
		lng := subOrder.VendorLocation().Lng()
		dto.VendorLat = &lat
		dto.VendorLng = &lng
	}

	if agentID := subOrder.Agent(); agentID != nil {
		raw := agentID.Bytes()
		dto.AgentID = &raw
	}

	return dto
}

// subOrderToDomain converts a database DTO back into a sub-order entity.
func subOrderToDomain(dto SubOrderDTO) (*order.SubOrder, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	vendorID, err := kernel.UUIDFromBytes(dto.VendorID[:])
	if err != nil {
		return nil, err
	}

	var vendorLocation kernel.GeoPoint
	if dto.VendorLat != nil && dto.VendorLng != nil {
		vendorLocation, err = kernel.NewGeoPoint(*dto.VendorLat, *dto.VendorLng)
		if err != nil {
			return nil, err
		}
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var agentID *kernel.UUID
	if dto.AgentID != nil {
		aID, agentErr := kernel.UUIDFromBytes((*dto.AgentID)[:])
		if agentErr != nil {
			return nil, agentErr
		}
		agentID = &aID
	}

	return order.RestoreSubOrder(
		id, orderID, vendorID, vendorLocation, status,
		agentID, dto.AssignedAt, dto.PickedUpAt, dto.DeliveredAt)
}
