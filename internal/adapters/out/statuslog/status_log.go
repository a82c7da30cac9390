// Package statuslog records order status transitions. Every append is
// persisted to the status_events table first; publishing to the Kafka stream
// is best effort, so a broker outage never blocks a running simulation.
package statuslog

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// EventPublisher streams persisted events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event *order.StatusEvent) error
}

// PersistingStatusLog implements the status log port on top of the status
// event repository with an optional downstream publisher.
type PersistingStatusLog struct {
	uowFactory ports.UnitOfWorkFactory
	publisher  EventPublisher
	logger     *slog.Logger
}

// NewPersistingStatusLog creates a status log. The publisher may be nil when
// no stream is configured; events are then only persisted.
func NewPersistingStatusLog(
	uowFactory ports.UnitOfWorkFactory,
	publisher EventPublisher,
	logger *slog.Logger,
) *PersistingStatusLog {
	return &PersistingStatusLog{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger.With("component", "status_log"),
	}
}

// Append persists a status event and then streams it.
func (l *PersistingStatusLog) Append(ctx context.Context, orderID kernel.UUID, status order.Status, note string) error {
	event, err := order.NewStatusEvent(orderID, status, note)
	if err != nil {
		return err
	}

	uow := l.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback(ctx) //nolint:errcheck //rollback after commit is a no-op

	if err = uow.StatusEventRepository().Add(ctx, event); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if l.publisher != nil {
		if err = l.publisher.Publish(ctx, event); err != nil {
			l.logger.WarnContext(ctx, "Failed to stream status event",
				"orderId", orderID.String(),
				"status", status.String(),
				"error", err)
		}
	}

	return nil
}
