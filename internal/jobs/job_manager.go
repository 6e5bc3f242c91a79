package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"parceltrack/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	unassignedParcelsJob *UnassignedParcelsJob
	staleTransitJob      *StaleTransitJob
}

// NewJobManager creates a job manager with all required jobs wired to the
// parcel repository and the admin notification channel.
func NewJobManager(
	parcels ports.ParcelRepository,
	notifier AdminNotifier,
	unassignedThreshold time.Duration,
	staleTransitThreshold time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		unassignedParcelsJob: NewUnassignedParcelsJob(parcels, notifier, unassignedThreshold, logger),
		staleTransitJob:      NewStaleTransitJob(parcels, notifier, staleTransitThreshold, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.unassignedParcelsJob.Start(); err != nil {
		return fmt.Errorf("failed to start unassigned parcels job: %w", err)
	}

	if err := jm.staleTransitJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.unassignedParcelsJob.Stop()
		return fmt.Errorf("failed to start stale transit job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.unassignedParcelsJob.Stop()
	jm.staleTransitJob.Stop()
}
