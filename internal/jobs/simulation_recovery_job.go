package jobs

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/application/simulation"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// launcher starts background simulations. Satisfied by simulation.Launcher.
type launcher interface {
	Launch(orderID kernel.UUID) error
}

// SimulationRecoveryJob re-launches simulations orphaned by a process restart.
// Orders persist their phase, so a recovered simulation resumes from the last
// written status instead of replaying finished phases.
type SimulationRecoveryJob struct {
	uowFactory ports.UnitOfWorkFactory
	launcher   launcher
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewSimulationRecoveryJob creates a job that scans for active orders and
// ensures each has a running simulation.
func NewSimulationRecoveryJob(
	uowFactory ports.UnitOfWorkFactory,
	launcher launcher,
	logger *slog.Logger,
) *SimulationRecoveryJob {
	return &SimulationRecoveryJob{
		uowFactory: uowFactory,
		launcher:   launcher,
		cron:       cron.New(),
		logger:     logger.With("component", "simulation_recovery_job"),
	}
}

// Start runs a recovery pass immediately and then every minute.
func (j *SimulationRecoveryJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		j.recover(context.Background())
	})
	if err != nil {
		return err
	}

	// Catch orders orphaned by the previous shutdown right away
	j.recover(context.Background())

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Simulation recovery job started (running every minute)")
	return nil
}

// Stop stops the recovery job.
func (j *SimulationRecoveryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Simulation recovery job stopped")
}

// recover finds orders that are neither delivered nor cancelled and launches
// a simulation for each. Orders already being simulated are left alone.
func (j *SimulationRecoveryJob) recover(ctx context.Context) {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		j.logger.ErrorContext(ctx, "Failed to begin recovery transaction", "error", err)
		return
	}

	activeOrders, err := uow.OrderRepository().GetAllInActiveStatus(ctx)
	if err != nil {
		_ = uow.Rollback(ctx)
		j.logger.ErrorContext(ctx, "Failed to load active orders", "error", err)
		return
	}

	if err = uow.Commit(ctx); err != nil {
		j.logger.ErrorContext(ctx, "Failed to commit recovery transaction", "error", err)
		return
	}

	for _, activeOrder := range activeOrders {
		err = j.launcher.Launch(activeOrder.ID())
		if err != nil {
			if errors.Is(err, simulation.ErrSimulationAlreadyRunning) {
				continue
			}
			j.logger.ErrorContext(ctx, "Failed to recover simulation",
				"orderId", activeOrder.ID().String(),
				"error", err)
			continue
		}

		j.logger.InfoContext(ctx, "Recovered orphaned simulation",
			"orderId", activeOrder.ID().String(),
			"status", activeOrder.Status().String())
	}
}
