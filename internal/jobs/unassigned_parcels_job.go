package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"parceltrack/internal/core/ports"
)

// DefaultUnassignedThreshold is how long a booking may wait for an agent
// before the operations team is alerted.
const DefaultUnassignedThreshold = 10 * time.Minute

// AdminNotifier pushes operational notices to the admin realtime channel.
type AdminNotifier interface {
	NotifyAdmins(event string, data any)
}

// UnassignedParcelsJob periodically finds bookings that have waited too
// long for an agent and alerts admins over the realtime channel.
type UnassignedParcelsJob struct {
	parcels   ports.ParcelRepository
	notifier  AdminNotifier
	threshold time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewUnassignedParcelsJob creates a job that checks for aging unassigned
// bookings once a minute.
func NewUnassignedParcelsJob(
	parcels ports.ParcelRepository,
	notifier AdminNotifier,
	threshold time.Duration,
	logger *slog.Logger,
) *UnassignedParcelsJob {
	if threshold <= 0 {
		threshold = DefaultUnassignedThreshold
	}
	return &UnassignedParcelsJob{
		parcels:   parcels,
		notifier:  notifier,
		threshold: threshold,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "unassigned_parcels_job"),
	}
}

// Start begins the job, running at the top of every minute.
func (j *UnassignedParcelsJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		j.run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Unassigned parcels job started (running every minute)")
	return nil
}

// Stop stops the job.
func (j *UnassignedParcelsJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Unassigned parcels job stopped")
}

func (j *UnassignedParcelsJob) run(ctx context.Context) {
	cutoff := time.Now().Add(-j.threshold)
	parcels, err := j.parcels.GetAllUnassigned(ctx, cutoff)
	if err != nil {
		j.logger.ErrorContext(ctx, "Unassigned parcels job failed", "error", err)
		return
	}
	if len(parcels) == 0 {
		return
	}

	trackingIDs := make([]string, 0, len(parcels))
	for _, prcl := range parcels {
		trackingIDs = append(trackingIDs, prcl.TrackingID().String())
	}

	j.notifier.NotifyAdmins("unassignedParcels", map[string]any{
		"count":       len(parcels),
		"trackingIds": trackingIDs,
	})
	j.logger.InfoContext(ctx, "Alerted admins about unassigned parcels", "count", len(parcels))
}
