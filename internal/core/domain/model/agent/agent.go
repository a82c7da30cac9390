package agent

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// Domain errors for delivery agent operations.
var (
	// ErrNameIsRequired is returned when attempting to create an agent without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrAgentIsNotConstructed is returned when using an improperly initialized DeliveryAgent.
	ErrAgentIsNotConstructed = errors.New("DeliveryAgent must be created via NewDeliveryAgent constructor")
	// ErrNoActiveAssignments is returned when releasing an agent that holds no assignments.
	ErrNoActiveAssignments = errors.New("delivery agent has no active assignments")
)

// DeliveryAgent represents a simulated delivery partner.
// Agents are drawn from a fixed pool and may carry several sub-orders at once;
// activeAssignments counts how many are currently in flight so the pool can
// hand out the least-loaded agent first.
type DeliveryAgent struct {
	id   kernel.UUID
	name string

	// activeAssignments is the number of sub-orders currently carried
	activeAssignments int

	guard guard.ConstructorGuard
}

// NewDeliveryAgent creates an idle DeliveryAgent with the given identity.
func NewDeliveryAgent(id kernel.UUID, name string) (*DeliveryAgent, error) {
	a := &DeliveryAgent{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setName(name),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// Validate ensures the DeliveryAgent was created through the constructor.
func (a *DeliveryAgent) Validate() error {
	if a == nil {
		return ErrAgentIsNotConstructed
	}
	return a.guard.Validate(ErrAgentIsNotConstructed)
}

// IsEqual compares two agents by identifier.
func (a *DeliveryAgent) IsEqual(other *DeliveryAgent) bool {
	if other == nil {
		return false
	}
	return a.id.IsEqual(other.id)
}

// ID returns the agent's unique identifier.
func (a *DeliveryAgent) ID() kernel.UUID {
	return a.id
}

// Name returns the agent's display name.
func (a *DeliveryAgent) Name() string {
	return a.name
}

// ActiveAssignments returns how many sub-orders the agent is carrying.
func (a *DeliveryAgent) ActiveAssignments() int {
	return a.activeAssignments
}

// Assign records one more sub-order carried by the agent.
func (a *DeliveryAgent) Assign() {
	a.activeAssignments++
}

// Complete records that one carried sub-order finished (delivered or cancelled).
func (a *DeliveryAgent) Complete() error {
	if a.activeAssignments == 0 {
		return ErrNoActiveAssignments
	}

	a.activeAssignments--
	return nil
}

func (a *DeliveryAgent) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	a.id = id
	return nil
}

func (a *DeliveryAgent) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}

	a.name = name
	return nil
}
