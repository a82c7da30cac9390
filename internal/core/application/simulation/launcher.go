package simulation

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
)

// Launcher starts and stops lifecycle simulations as background runs.
// It pairs the controller with the registry so every order has at most one
// run in flight and every run can be cancelled from the outside.
type Launcher struct {
	controller *OrderLifecycleController
	registry   *Registry
	logger     *slog.Logger
}

// NewLauncher creates a Launcher.
func NewLauncher(controller *OrderLifecycleController, registry *Registry, logger *slog.Logger) *Launcher {
	return &Launcher{
		controller: controller,
		registry:   registry,
		logger:     logger.With("component", "simulation_launcher"),
	}
}

// Launch starts the order's simulation in the background and returns
// immediately. A second launch for the same order fails with
// ErrSimulationAlreadyRunning while the first is still in flight.
func (l *Launcher) Launch(orderID kernel.UUID) error {
	ctx, cancel := context.WithCancel(context.Background())

	if err := l.registry.Register(orderID, cancel); err != nil {
		cancel()
		return err
	}

	go func() {
		defer l.registry.Unregister(orderID)
		defer cancel()

		if err := l.controller.Run(ctx, orderID); err != nil && ctx.Err() == nil {
			l.logger.ErrorContext(ctx, "Order simulation failed",
				"orderID", orderID.String(), "error", err)
		}
	}()

	l.logger.InfoContext(ctx, "Order simulation launched", "orderID", orderID.String())
	return nil
}

// Cancel stops the order's running simulation.
func (l *Launcher) Cancel(orderID kernel.UUID) error {
	return l.registry.Cancel(orderID)
}

// IsRunning reports whether the order has a simulation in flight.
func (l *Launcher) IsRunning(orderID kernel.UUID) bool {
	return l.registry.IsRunning(orderID)
}
