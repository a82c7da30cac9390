// Package jobs provides scheduled background tasks for the fulfillment system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the simulation engine.
//
// # Available Jobs
//
// 1. SimulationRecoveryJob - Runs every minute (and once at startup) to find
// orders stuck in an active status with no running simulation and re-launch
// them. Because each simulation persists its phase as it goes, a recovered
// run resumes from the last written status instead of starting over.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required dependencies
//	jobManager := jobs.NewJobManager(uowFactory, simulationLauncher, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The recovery job treats "simulation already running" as a normal scenario
// and skips those orders silently; every other failure is logged and the scan
// continues with the next order.
package jobs
