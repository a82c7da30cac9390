package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelSimulationCommandIsNotConstructed = errors.New(
	"CancelSimulationCommand must be created via NewCancelSimulationCommand constructor",
)

// CancelSimulationCommand represents a request to stop a running lifecycle
// simulation. The cancelled order and its unfinished sub-orders end up in
// the order_cancelled terminal status.
type CancelSimulationCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCancelSimulationCommand creates a command for the given order.
func NewCancelSimulationCommand(orderID kernel.UUID) (CancelSimulationCommand, error) {
	command := CancelSimulationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setOrderID(orderID); err != nil {
		return CancelSimulationCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelSimulationCommand) Validate() error {
	return c.guard.Validate(ErrCancelSimulationCommandIsNotConstructed)
}

// OrderID returns the order whose simulation should stop.
func (c CancelSimulationCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *CancelSimulationCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
