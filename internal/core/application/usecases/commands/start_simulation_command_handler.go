package commands

import (
	"context"
	"errors"

	"fulfillment/internal/pkg/errs"
)

// ErrOrderNotFound is returned when the order to simulate does not exist.
var ErrOrderNotFound = errors.New("order not found")

// StartSimulationCommandHandler verifies the order exists and hands it to the
// simulation launcher. The launcher enforces per-order mutual exclusion, so a
// second start while a run is in flight surfaces as
// simulation.ErrSimulationAlreadyRunning.
type StartSimulationCommandHandler struct {
	uowFactory OrderUoWFactory
	launcher   SimulationLauncher
}

// NewStartSimulationCommandHandler creates a handler for starting simulations.
func NewStartSimulationCommandHandler(
	uowFactory OrderUoWFactory,
	launcher SimulationLauncher,
) StartSimulationCommandHandler {
	return StartSimulationCommandHandler{
		uowFactory: uowFactory,
		launcher:   launcher,
	}
}

// Handle validates the command, checks the order exists, and launches the
// simulation in the background.
func (h StartSimulationCommandHandler) Handle(ctx context.Context, command StartSimulationCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.OrderRepository().Get(ctx, command.OrderID()); err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	return h.launcher.Launch(command.OrderID())
}
