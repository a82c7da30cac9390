// Package http exposes the fulfillment API over Echo. The API starts and
// cancels order lifecycle simulations and serves the two poll surfaces:
// the order status timeline and live agent positions.
package http

import (
	"errors"
	"net/http"
	"time"

	"fulfillment/internal/core/application/simulation"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the JSON body returned on request failures.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// StatusEventResponse is one entry of an order's status timeline.
type StatusEventResponse struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"orderId"`
	Status     string    `json:"status"`
	Note       string    `json:"note,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// AgentPositionResponse is the latest published position of a delivery agent.
type AgentPositionResponse struct {
	AgentID string  `json:"agentId"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	startSimulationHandler  commands.StartSimulationCommandHandler
	cancelSimulationHandler commands.CancelSimulationCommandHandler

	// Query handlers
	getStatusEventsHandler  queries.GetOrderStatusEventsQueryHandler
	getAgentPositionHandler queries.GetAgentPositionQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	startSimulationHandler commands.StartSimulationCommandHandler,
	cancelSimulationHandler commands.CancelSimulationCommandHandler,
	getStatusEventsHandler queries.GetOrderStatusEventsQueryHandler,
	getAgentPositionHandler queries.GetAgentPositionQueryHandler,
) *Server {
	return &Server{
		startSimulationHandler:  startSimulationHandler,
		cancelSimulationHandler: cancelSimulationHandler,
		getStatusEventsHandler:  getStatusEventsHandler,
		getAgentPositionHandler: getAgentPositionHandler,
	}
}

// RegisterRoutes wires the API routes onto the given Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders/:orderID/simulation", s.StartSimulation)
	api.DELETE("/orders/:orderID/simulation", s.CancelSimulation)
	api.GET("/orders/:orderID/status", s.GetOrderStatus)
	api.GET("/agents/:agentID/position", s.GetAgentPosition)
}

// StartSimulation handles POST /api/v1/orders/:orderID/simulation.
// The simulation runs in the background, so success is 202 Accepted.
func (s *Server) StartSimulation(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	cmd, err := commands.NewStartSimulationCommand(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid simulation request: " + err.Error(),
		})
	}

	if handleErr := s.startSimulationHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		switch {
		case errors.Is(handleErr, commands.ErrOrderNotFound):
			return ctx.JSON(http.StatusNotFound, ErrorResponse{
				Code:    http.StatusNotFound,
				Message: "Order not found",
			})
		case errors.Is(handleErr, simulation.ErrSimulationAlreadyRunning):
			return ctx.JSON(http.StatusConflict, ErrorResponse{
				Code:    http.StatusConflict,
				Message: "Simulation already running for this order",
			})
		default:
			return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
				Code:    http.StatusInternalServerError,
				Message: "Failed to start simulation",
			})
		}
	}

	return ctx.NoContent(http.StatusAccepted)
}

// CancelSimulation handles DELETE /api/v1/orders/:orderID/simulation.
func (s *Server) CancelSimulation(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	cmd, err := commands.NewCancelSimulationCommand(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid cancellation request: " + err.Error(),
		})
	}

	if handleErr := s.cancelSimulationHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		if errors.Is(handleErr, simulation.ErrSimulationNotRunning) {
			return ctx.JSON(http.StatusNotFound, ErrorResponse{
				Code:    http.StatusNotFound,
				Message: "No running simulation for this order",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to cancel simulation",
		})
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOrderStatus handles GET /api/v1/orders/:orderID/status.
func (s *Server) GetOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id",
		})
	}

	query, err := queries.NewGetOrderStatusEventsQuery(orderID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid status request: " + err.Error(),
		})
	}

	events, err := s.getStatusEventsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve order status",
		})
	}

	response := make([]StatusEventResponse, len(events))
	for i, event := range events {
		response[i] = StatusEventResponse{
			ID:         event.ID.String(),
			OrderID:    event.OrderID.String(),
			Status:     event.Status,
			Note:       event.Note,
			OccurredAt: event.OccurredAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetAgentPosition handles GET /api/v1/agents/:agentID/position.
func (s *Server) GetAgentPosition(ctx echo.Context) error {
	agentID, err := kernel.UUIDFromString(ctx.Param("agentID"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid agent id",
		})
	}

	query, err := queries.NewGetAgentPositionQuery(agentID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid position request: " + err.Error(),
		})
	}

	position, err := s.getAgentPositionHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, queries.ErrPositionNotFound) {
			return ctx.JSON(http.StatusNotFound, ErrorResponse{
				Code:    http.StatusNotFound,
				Message: "No position published for this agent",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve agent position",
		})
	}

	return ctx.JSON(http.StatusOK, AgentPositionResponse{
		AgentID: position.AgentID.String(),
		Lat:     position.Lat,
		Lng:     position.Lng,
	})
}
