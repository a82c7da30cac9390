package simulation

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

type subOrderSimulatorParams struct {
	uowFactory ports.UnitOfWorkFactory
	routes     ports.RouteProvider
	locations  ports.LocationPublisher
	statusLog  ports.StatusLog
	planner    *services.PathPlanner
	logger     *slog.Logger
	config     Config

	orderID        kernel.UUID
	subOrderID     kernel.UUID
	agentID        kernel.UUID
	vendorLocation kernel.GeoPoint
	driveBudget    time.Duration

	// firstPickedUp and firstInTransit are shared by all sibling simulators
	// of the same order; whichever simulator wins the compare-and-swap writes
	// the order-level milestone, everyone else skips silently.
	firstPickedUp  *atomic.Bool
	firstInTransit *atomic.Bool
}

// subOrderSimulator walks one delivery agent from a spawn point near the
// vendor, to the vendor, then to the customer, publishing a position every
// tick and advancing the sub-order's status along the way.
type subOrderSimulator struct {
	subOrderSimulatorParams

	deliveryLocation kernel.GeoPoint
	stepSleep        time.Duration
	toVendorSteps    int
	bufferSteps      int
	toCustomerSteps  int
}

func newSubOrderSimulator(params subOrderSimulatorParams) *subOrderSimulator {
	toVendor, buffer, toCustomer := params.config.stepSplit()
	totalSteps := toVendor + buffer + toCustomer

	return &subOrderSimulator{
		subOrderSimulatorParams: params,
		stepSleep:               params.driveBudget / time.Duration(totalSteps),
		toVendorSteps:           toVendor,
		bufferSteps:             buffer,
		toCustomerSteps:         toCustomer,
	}
}

// Run plays the sub-order's drive from assignment to drop-off.
func (s *subOrderSimulator) Run(ctx context.Context) error {
	if err := s.loadDeliveryLocation(ctx); err != nil {
		return err
	}

	spawn := s.computeSpawnPoint(ctx)

	if err := s.assignAgent(ctx, spawn); err != nil {
		return err
	}

	if err := s.driveSegment(ctx, spawn, s.vendorLocation, s.toVendorSteps); err != nil {
		return err
	}

	if err := s.markPickedUp(ctx); err != nil {
		return err
	}
	if err := sleepCtx(ctx, s.config.VendorDwell); err != nil {
		return err
	}

	if err := s.markInTransit(ctx); err != nil {
		return err
	}
	if err := sleepCtx(ctx, s.stepSleep*time.Duration(s.bufferSteps)); err != nil {
		return err
	}

	if err := s.driveSegment(ctx, s.vendorLocation, s.deliveryLocation, s.toCustomerSteps); err != nil {
		return err
	}

	return s.markDelivered(ctx)
}

func (s *subOrderSimulator) loadDeliveryLocation(ctx context.Context) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ord, err := uow.OrderRepository().Get(ctx, s.orderID)
	if err != nil {
		return err
	}

	s.deliveryLocation = ord.DeliveryLocation()
	return uow.Commit(ctx)
}

// computeSpawnPoint places the agent on the vendor-to-customer route so the
// first published positions already look road-bound. Route failures fall
// back to a jittered point near the vendor inside the planner.
func (s *subOrderSimulator) computeSpawnPoint(ctx context.Context) kernel.GeoPoint {
	route, err := s.routes.GetRoute(ctx, s.vendorLocation, s.deliveryLocation)
	if err != nil {
		s.logger.WarnContext(ctx, "Route lookup for spawn point failed, using vendor offset",
			"subOrderID", s.subOrderID.String(), "error", err)
		route = nil
	}

	return s.planner.SpawnPoint(route, s.vendorLocation)
}

// assignAgent records the agent on the sub-order and immediately publishes
// the spawn position so observers see the agent without delay.
func (s *subOrderSimulator) assignAgent(ctx context.Context, spawn kernel.GeoPoint) error {
	err := s.mutateSubOrder(ctx, func(subOrder *order.SubOrder) error {
		if subOrder.Status() >= order.DeliveryPartnerAssigned {
			return nil
		}
		return subOrder.AssignAgent(s.agentID, time.Now().UTC())
	})
	if err != nil {
		return err
	}

	return s.locations.Publish(ctx, s.agentID, spawn)
}

func (s *subOrderSimulator) markPickedUp(ctx context.Context) error {
	err := s.mutateSubOrder(ctx, func(subOrder *order.SubOrder) error {
		if subOrder.Status() >= order.OrderPickedUp {
			return nil
		}
		return subOrder.MarkPickedUp(time.Now().UTC())
	})
	if err != nil {
		return err
	}

	if s.firstPickedUp.CompareAndSwap(false, true) {
		if _, err := s.advanceOrder(ctx, order.OrderPickedUp, "a delivery partner collected the first items"); err != nil {
			return err
		}
	}

	return nil
}

func (s *subOrderSimulator) markInTransit(ctx context.Context) error {
	// Exactly one sibling wins the order-level in_transit milestone.
	if s.firstInTransit.CompareAndSwap(false, true) {
		if _, err := s.advanceOrder(ctx, order.InTransit, "the order is on its way"); err != nil {
			return err
		}
	}

	return s.mutateSubOrder(ctx, func(subOrder *order.SubOrder) error {
		if subOrder.Status() >= order.InTransit {
			return nil
		}
		return subOrder.MarkInTransit()
	})
}

func (s *subOrderSimulator) markDelivered(ctx context.Context) error {
	return s.mutateSubOrder(ctx, func(subOrder *order.SubOrder) error {
		if subOrder.Status() >= order.OrderDelivered {
			return nil
		}
		return subOrder.MarkDelivered(time.Now().UTC())
	})
}

// driveSegment resamples the road route between the endpoints into exactly
// steps waypoints and publishes one per tick. A failed or degenerate route
// degrades to straight-line movement of the same length, so the segment
// always takes the same share of the budget.
func (s *subOrderSimulator) driveSegment(ctx context.Context, from, to kernel.GeoPoint, steps int) error {
	waypoints := s.planSegment(ctx, from, to, steps)

	for _, waypoint := range waypoints {
		if err := sleepCtx(ctx, s.stepSleep); err != nil {
			return err
		}

		if err := s.locations.Publish(ctx, s.agentID, waypoint); err != nil {
			s.logger.WarnContext(ctx, "Position publish failed",
				"agentID", s.agentID.String(), "error", err)
		}
	}

	return nil
}

func (s *subOrderSimulator) planSegment(ctx context.Context, from, to kernel.GeoPoint, steps int) []kernel.GeoPoint {
	route, err := s.routes.GetRoute(ctx, from, to)
	if err == nil && len(route) >= 2 {
		waypoints, resampleErr := s.planner.Resample(route, steps)
		if resampleErr == nil {
			return waypoints
		}
		err = resampleErr
	}

	if err != nil {
		s.logger.WarnContext(ctx, "Falling back to straight-line movement",
			"subOrderID", s.subOrderID.String(), "error", err)
	}

	waypoints, err := s.planner.StraightLine(from, to, steps)
	if err != nil {
		// Steps are validated by the config split, so this cannot happen.
		return []kernel.GeoPoint{to}
	}

	return waypoints
}

// mutateSubOrder applies fn to a freshly loaded sub-order inside its own
// transaction. Loading fresh state on every milestone keeps resumed runs
// from regressing a sub-order that is already further along.
func (s *subOrderSimulator) mutateSubOrder(ctx context.Context, fn func(*order.SubOrder) error) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	subOrders, err := repo.GetSubOrders(ctx, s.orderID)
	if err != nil {
		return err
	}

	var target *order.SubOrder
	for _, subOrder := range subOrders {
		if subOrder.ID().IsEqual(s.subOrderID) {
			target = subOrder
			break
		}
	}
	if target == nil {
		return errs.NewObjectNotFoundError("subOrderID", s.subOrderID)
	}

	if err := fn(target); err != nil {
		return err
	}

	if err := repo.UpdateSubOrder(ctx, target); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (s *subOrderSimulator) advanceOrder(ctx context.Context, next order.Status, note string) (bool, error) {
	advanced, err := advanceOrderTx(ctx, s.uowFactory, s.orderID, next, false)
	if err != nil || !advanced {
		return advanced, err
	}

	return true, s.statusLog.Append(ctx, s.orderID, next, note)
}
