package simulation_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory stand-in for the persistence layer. Transactions
// are emulated with one global lock held from Begin to Commit/Rollback, so
// concurrent simulators see serialized state exactly like they would against
// a real database.
type memStore struct {
	mu        sync.Mutex
	orders    map[string]orderRow
	subOrders map[string][]subOrderRow

	// statusHistory records every persisted sub-order status in write order.
	statusHistory map[string][]order.Status
}

type orderRow struct {
	id            kernel.UUID
	delivery      kernel.GeoPoint
	subOrderCount int
	status        order.Status
}

type subOrderRow struct {
	id          kernel.UUID
	orderID     kernel.UUID
	vendorID    kernel.UUID
	vendor      kernel.GeoPoint
	hasVendor   bool
	status      order.Status
	agentID     *kernel.UUID
	assignedAt  *time.Time
	pickedUpAt  *time.Time
	deliveredAt *time.Time
}

func newMemStore() *memStore {
	return &memStore{
		orders:        make(map[string]orderRow),
		subOrders:     make(map[string][]subOrderRow),
		statusHistory: make(map[string][]order.Status),
	}
}

func (s *memStore) seedOrder(o *order.Order, subOrders []*order.SubOrder) {
	s.orders[o.ID().String()] = orderRow{
		id:            o.ID(),
		delivery:      o.DeliveryLocation(),
		subOrderCount: o.SubOrderCount(),
		status:        o.Status(),
	}

	rows := make([]subOrderRow, 0, len(subOrders))
	for _, sub := range subOrders {
		rows = append(rows, subOrderRow{
			id:        sub.ID(),
			orderID:   sub.OrderID(),
			vendorID:  sub.VendorID(),
			vendor:    sub.VendorLocation(),
			hasVendor: sub.HasVendorLocation(),
			status:    sub.Status(),
		})
	}
	s.subOrders[o.ID().String()] = rows
}

func (s *memStore) orderStatus(orderID kernel.UUID) order.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[orderID.String()].status
}

func (s *memStore) subOrderStatuses(orderID kernel.UUID) []order.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]order.Status, 0)
	for _, row := range s.subOrders[orderID.String()] {
		statuses = append(statuses, row.status)
	}
	return statuses
}

func (s *memStore) history(subOrderID kernel.UUID) []order.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]order.Status, len(s.statusHistory[subOrderID.String()]))
	copy(out, s.statusHistory[subOrderID.String()])
	return out
}

// memUoWFactory implements ports.UnitOfWorkFactory over a memStore.
type memUoWFactory struct {
	store *memStore
}

func (f *memUoWFactory) Create() ports.UnitOfWork {
	return &memUoW{store: f.store}
}

type memUoW struct {
	store  *memStore
	active bool
}

func (u *memUoW) Begin(_ context.Context) error {
	u.store.mu.Lock()
	u.active = true
	return nil
}

func (u *memUoW) Commit(_ context.Context) error {
	if !u.active {
		return errors.New("no active transaction")
	}
	u.active = false
	u.store.mu.Unlock()
	return nil
}

func (u *memUoW) Rollback(_ context.Context) error {
	if !u.active {
		return nil
	}
	u.active = false
	u.store.mu.Unlock()
	return nil
}

func (u *memUoW) OrderRepository() ports.OrderRepository {
	return &memOrderRepo{store: u.store}
}

func (u *memUoW) StatusEventRepository() ports.StatusEventRepository {
	return &memStatusEventRepo{}
}

type memOrderRepo struct {
	store *memStore
}

func (r *memOrderRepo) Add(_ context.Context, aggregate *order.Order, subOrders []*order.SubOrder) error {
	r.store.seedOrder(aggregate, subOrders)
	return nil
}

func (r *memOrderRepo) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	row, ok := r.store.orders[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderID", id)
	}
	return order.RestoreOrder(row.id, row.delivery, row.subOrderCount, row.status)
}

func (r *memOrderRepo) Update(_ context.Context, aggregate *order.Order) error {
	row, ok := r.store.orders[aggregate.ID().String()]
	if !ok {
		return errs.NewObjectNotFoundError("orderID", aggregate.ID())
	}
	row.status = aggregate.Status()
	r.store.orders[aggregate.ID().String()] = row
	return nil
}

func (r *memOrderRepo) GetSubOrders(_ context.Context, orderID kernel.UUID) ([]*order.SubOrder, error) {
	rows := r.store.subOrders[orderID.String()]
	out := make([]*order.SubOrder, 0, len(rows))
	for _, row := range rows {
		sub, err := order.RestoreSubOrder(
			row.id, row.orderID, row.vendorID, row.vendor, row.status,
			row.agentID, row.assignedAt, row.pickedUpAt, row.deliveredAt)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

func (r *memOrderRepo) UpdateSubOrder(_ context.Context, subOrder *order.SubOrder) error {
	rows := r.store.subOrders[subOrder.OrderID().String()]
	for i, row := range rows {
		if row.id.IsEqual(subOrder.ID()) {
			rows[i].status = subOrder.Status()
			rows[i].agentID = subOrder.Agent()
			rows[i].assignedAt = subOrder.AssignedAt()
			rows[i].pickedUpAt = subOrder.PickedUpAt()
			rows[i].deliveredAt = subOrder.DeliveredAt()

			key := subOrder.ID().String()
			r.store.statusHistory[key] = append(r.store.statusHistory[key], subOrder.Status())
			return nil
		}
	}
	return errs.NewObjectNotFoundError("subOrderID", subOrder.ID())
}

func (r *memOrderRepo) GetAllInActiveStatus(_ context.Context) ([]*order.Order, error) {
	out := make([]*order.Order, 0)
	for _, row := range r.store.orders {
		if row.status.IsTerminal() {
			continue
		}
		o, err := order.RestoreOrder(row.id, row.delivery, row.subOrderCount, row.status)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

type memStatusEventRepo struct{}

func (r *memStatusEventRepo) Add(_ context.Context, _ *order.StatusEvent) error {
	return nil
}

func (r *memStatusEventRepo) GetByOrderID(_ context.Context, _ kernel.UUID) ([]*order.StatusEvent, error) {
	return nil, nil
}

// fakeRoutes returns a fixed polyline, or an error when failing is set.
type fakeRoutes struct {
	mu      sync.Mutex
	route   []kernel.GeoPoint
	failing bool
	calls   int
}

func (f *fakeRoutes) GetRoute(_ context.Context, _, _ kernel.GeoPoint) ([]kernel.GeoPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.failing {
		return nil, errors.New("routing service unavailable")
	}
	return f.route, nil
}

// fakeLocations counts published positions per agent.
type fakeLocations struct {
	mu        sync.Mutex
	published map[string][]kernel.GeoPoint
}

func newFakeLocations() *fakeLocations {
	return &fakeLocations{published: make(map[string][]kernel.GeoPoint)}
}

func (f *fakeLocations) Publish(_ context.Context, agentID kernel.UUID, position kernel.GeoPoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.published[agentID.String()] = append(f.published[agentID.String()], position)
	return nil
}

func (f *fakeLocations) totalPublishes() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := 0
	for _, positions := range f.published {
		total += len(positions)
	}
	return total
}

// fakeStatusLog records appended order-level events.
type fakeStatusLog struct {
	mu     sync.Mutex
	events []order.Status
}

func (f *fakeStatusLog) Append(_ context.Context, _ kernel.UUID, status order.Status, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, status)
	return nil
}

func (f *fakeStatusLog) countOf(status order.Status) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, s := range f.events {
		if s == status {
			count++
		}
	}
	return count
}
