package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetAgentPositionQueryIsNotConstructed = errors.New(
	"GetAgentPositionQuery must be created via NewGetAgentPositionQuery constructor",
)

// GetAgentPositionQuery retrieves the latest published position of one
// delivery agent. This is the poll surface for live movement tracking.
type GetAgentPositionQuery struct { //nolint:recvcheck //using for validation
	agentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetAgentPositionQuery creates a query for the given agent.
func NewGetAgentPositionQuery(agentID kernel.UUID) (GetAgentPositionQuery, error) {
	query := GetAgentPositionQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setAgentID(agentID); err != nil {
		return GetAgentPositionQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAgentPositionQuery) Validate() error {
	return q.guard.Validate(ErrGetAgentPositionQueryIsNotConstructed)
}

// AgentID returns the agent whose position is requested.
func (q GetAgentPositionQuery) AgentID() kernel.UUID {
	return q.agentID
}

func (q *GetAgentPositionQuery) setAgentID(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}

	q.agentID = agentID
	return nil
}

// GetAgentPositionQueryResponse is the latest known position of an agent.
type GetAgentPositionQueryResponse struct {
	AgentID kernel.UUID
	Lat     float64
	Lng     float64
}
