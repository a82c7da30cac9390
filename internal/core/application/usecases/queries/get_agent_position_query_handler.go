package queries

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrPositionNotFound is returned when the agent has never published a position.
var ErrPositionNotFound = errors.New("no position published for this agent")

// PositionReader reads the last-write-wins position store.
// Implemented by the redis location adapter.
type PositionReader interface {
	// Get returns the latest position, or an errs.ErrObjectNotFound error
	// when the agent has never published one.
	Get(ctx context.Context, agentID kernel.UUID) (kernel.GeoPoint, error)
}

// GetAgentPositionQueryHandler resolves an agent's latest position from the
// live tracking store.
type GetAgentPositionQueryHandler struct {
	positions PositionReader
}

// NewGetAgentPositionQueryHandler creates a handler for position queries.
func NewGetAgentPositionQueryHandler(positions PositionReader) GetAgentPositionQueryHandler {
	return GetAgentPositionQueryHandler{positions: positions}
}

// Handle executes the query.
func (h GetAgentPositionQueryHandler) Handle(
	ctx context.Context,
	query GetAgentPositionQuery,
) (GetAgentPositionQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetAgentPositionQueryResponse{}, err
	}

	position, err := h.positions.Get(ctx, query.AgentID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return GetAgentPositionQueryResponse{}, ErrPositionNotFound
		}
		return GetAgentPositionQueryResponse{}, err
	}

	return GetAgentPositionQueryResponse{
		AgentID: query.AgentID(),
		Lat:     position.Lat(),
		Lng:     position.Lng(),
	}, nil
}
