package commands

import (
	"context"
)

// CancelSimulationCommandHandler forwards cancellation to the simulation
// launcher. Cancelling an order with no run in flight surfaces as
// simulation.ErrSimulationNotRunning.
type CancelSimulationCommandHandler struct {
	launcher SimulationLauncher
}

// NewCancelSimulationCommandHandler creates a handler for cancelling simulations.
func NewCancelSimulationCommandHandler(launcher SimulationLauncher) CancelSimulationCommandHandler {
	return CancelSimulationCommandHandler{
		launcher: launcher,
	}
}

// Handle validates the command and cancels the order's running simulation.
func (h CancelSimulationCommandHandler) Handle(_ context.Context, command CancelSimulationCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	return h.launcher.Cancel(command.OrderID())
}
