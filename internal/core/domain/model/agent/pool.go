package agent

import (
	"fmt"
	"sync"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// defaultPoolSize is used when a Pool is created with a non-positive size.
const defaultPoolSize = 10

// Pool is a fixed-size roster of delivery agents shared by all running
// simulations. Acquire hands out the least-loaded agent and increments its
// assignment count; Release decrements it. An agent may therefore carry
// sub-orders from several orders at once, which is the intended behavior
// for a simulation that can run many orders concurrently.
//
// Pool is safe for concurrent use.
type Pool struct {
	mu     sync.Mutex
	agents []*DeliveryAgent
}

// NewPool creates a pool with the given number of generated agents.
// Sizes below one fall back to the default roster size.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = defaultPoolSize
	}

	agents := make([]*DeliveryAgent, 0, size)
	for i := 0; i < size; i++ {
		// Generated identities cannot fail validation.
		a, _ := NewDeliveryAgent(kernel.NewUUID(), fmt.Sprintf("agent-%02d", i+1))
		agents = append(agents, a)
	}

	return &Pool{agents: agents}
}

// Acquire checks out the least-loaded agent and returns its identifier.
func (p *Pool) Acquire() kernel.UUID {
	p.mu.Lock()
	defer p.mu.Unlock()

	best := p.agents[0]
	for _, a := range p.agents[1:] {
		if a.ActiveAssignments() < best.ActiveAssignments() {
			best = a
		}
	}

	best.Assign()
	return best.ID()
}

// Release checks an agent back in after its sub-order finished.
func (p *Pool) Release(agentID kernel.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, a := range p.agents {
		if a.ID().IsEqual(agentID) {
			return a.Complete()
		}
	}

	return errs.NewObjectNotFoundError("agentID", agentID)
}

// Size returns the number of agents in the roster.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.agents)
}
