package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"parceltrack/internal/core/ports"
)

// DefaultStaleTransitThreshold is how long an in-transit parcel may go
// without a location report before it is flagged.
const DefaultStaleTransitThreshold = 30 * time.Minute

// StaleTransitJob periodically flags in-flight parcels whose position has
// not been reported recently and alerts admins over the realtime channel.
type StaleTransitJob struct {
	parcels   ports.ParcelRepository
	notifier  AdminNotifier
	threshold time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewStaleTransitJob creates a job that checks for silent in-transit
// parcels every five minutes.
func NewStaleTransitJob(
	parcels ports.ParcelRepository,
	notifier AdminNotifier,
	threshold time.Duration,
	logger *slog.Logger,
) *StaleTransitJob {
	if threshold <= 0 {
		threshold = DefaultStaleTransitThreshold
	}
	return &StaleTransitJob{
		parcels:   parcels,
		notifier:  notifier,
		threshold: threshold,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "stale_transit_job"),
	}
}

// Start begins the job, running every five minutes.
func (j *StaleTransitJob) Start() error {
	_, err := j.cron.AddFunc("0 */5 * * * *", func() {
		j.run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale transit job started (running every five minutes)")
	return nil
}

// Stop stops the job.
func (j *StaleTransitJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale transit job stopped")
}

func (j *StaleTransitJob) run(ctx context.Context) {
	cutoff := time.Now().Add(-j.threshold)
	parcels, err := j.parcels.GetAllInTransitSince(ctx, cutoff)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale transit job failed", "error", err)
		return
	}
	if len(parcels) == 0 {
		return
	}

	trackingIDs := make([]string, 0, len(parcels))
	for _, prcl := range parcels {
		trackingIDs = append(trackingIDs, prcl.TrackingID().String())
	}

	j.notifier.NotifyAdmins("staleTransitParcels", map[string]any{
		"count":       len(parcels),
		"trackingIds": trackingIDs,
	})
	j.logger.InfoContext(ctx, "Alerted admins about stale in-transit parcels", "count", len(parcels))
}
