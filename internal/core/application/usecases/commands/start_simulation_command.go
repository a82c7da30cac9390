package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrStartSimulationCommandIsNotConstructed = errors.New(
	"StartSimulationCommand must be created via NewStartSimulationCommand constructor",
)

// StartSimulationCommand represents a request to launch the lifecycle
// simulation for one order. The launch is fire-and-forget: the handler
// returns as soon as the background run is registered.
type StartSimulationCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewStartSimulationCommand creates a command for the given order.
func NewStartSimulationCommand(orderID kernel.UUID) (StartSimulationCommand, error) {
	command := StartSimulationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setOrderID(orderID); err != nil {
		return StartSimulationCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c StartSimulationCommand) Validate() error {
	return c.guard.Validate(ErrStartSimulationCommandIsNotConstructed)
}

// OrderID returns the order whose simulation should start.
func (c StartSimulationCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *StartSimulationCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
