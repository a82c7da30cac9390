package simulation

import (
	"context"
	"errors"
	"sync"

	"fulfillment/internal/core/domain/model/kernel"
)

// Registry errors.
var (
	// ErrSimulationAlreadyRunning is returned when a second simulation is
	// triggered for an order that already has one in flight.
	ErrSimulationAlreadyRunning = errors.New("simulation is already running for this order")
	// ErrSimulationNotRunning is returned when cancelling an order with no
	// simulation in flight.
	ErrSimulationNotRunning = errors.New("no simulation is running for this order")
)

// Registry is the server-side mutual-exclusion guard over running
// simulations. At most one simulation per order can be registered; a second
// trigger fails with ErrSimulationAlreadyRunning instead of double-running
// the timeline. The registry also holds each run's cancel function so an
// external cancel request can stop it.
type Registry struct {
	mu      sync.Mutex
	running map[string]context.CancelFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		running: make(map[string]context.CancelFunc),
	}
}

// Register claims the order for a new simulation run.
func (r *Registry) Register(orderID kernel.UUID, cancel context.CancelFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := orderID.String()
	if _, ok := r.running[key]; ok {
		return ErrSimulationAlreadyRunning
	}

	r.running[key] = cancel
	return nil
}

// Unregister releases the order's claim. Safe to call for unknown orders.
func (r *Registry) Unregister(orderID kernel.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.running, orderID.String())
}

// Cancel stops the order's running simulation.
func (r *Registry) Cancel(orderID kernel.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cancel, ok := r.running[orderID.String()]
	if !ok {
		return ErrSimulationNotRunning
	}

	cancel()
	return nil
}

// IsRunning reports whether the order has a simulation in flight.
func (r *Registry) IsRunning(orderID kernel.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.running[orderID.String()]
	return ok
}
