package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"parceltrack/internal/pkg/errs"
)

// SnapshotCache caches tracking snapshots for a short period. Cache failures
// are treated as misses; the database remains the source of truth.
type SnapshotCache interface {
	Get(ctx context.Context, trackingID string) (TrackParcelQueryResponse, bool, error)
	Set(ctx context.Context, trackingID string, snapshot TrackParcelQueryResponse) error
}

// TrackParcelQueryHandler serves the hottest read path of the system.
// Snapshots come from a short-lived cache when possible and from the
// database otherwise.
type TrackParcelQueryHandler struct {
	db    *gorm.DB
	cache SnapshotCache
}

// NewTrackParcelQueryHandler creates a handler for tracking queries.
func NewTrackParcelQueryHandler(db *gorm.DB, cache SnapshotCache) TrackParcelQueryHandler {
	return TrackParcelQueryHandler{db: db, cache: cache}
}

// Handle executes the tracking query.
func (h TrackParcelQueryHandler) Handle(
	ctx context.Context,
	query TrackParcelQuery,
) (TrackParcelQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return TrackParcelQueryResponse{}, err
	}

	trackingID := query.TrackingID().String()

	if h.cache != nil {
		if snapshot, ok, err := h.cache.Get(ctx, trackingID); err == nil && ok {
			return snapshot, nil
		}
	}

	snapshot, err := h.loadSnapshot(ctx, trackingID)
	if err != nil {
		return TrackParcelQueryResponse{}, err
	}

	if h.cache != nil {
		_ = h.cache.Set(ctx, trackingID, snapshot)
	}

	return snapshot, nil
}

func (h TrackParcelQueryHandler) loadSnapshot(ctx context.Context, trackingID string) (TrackParcelQueryResponse, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			tracking_id,
			status,
			current_lat,
			current_lng,
			location_updated_at,
			picked_up_at,
			delivered_at,
			cancelled_at
		FROM parcels
		WHERE tracking_id = ?
	`, trackingID).Row()

	var snapshot TrackParcelQueryResponse
	var lat, lng sql.NullFloat64
	var locationUpdatedAt, pickedUpAt, deliveredAt, cancelledAt sql.NullTime

	err := row.Scan(
		&snapshot.TrackingID,
		&snapshot.Status,
		&lat,
		&lng,
		&locationUpdatedAt,
		&pickedUpAt,
		&deliveredAt,
		&cancelledAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return TrackParcelQueryResponse{}, errs.NewObjectNotFoundError("trackingID", trackingID)
	}
	if err != nil {
		return TrackParcelQueryResponse{}, err
	}

	if lat.Valid && lng.Valid {
		snapshot.CurrentLocation = &GeoPointResponse{Lat: lat.Float64, Lng: lng.Float64}
	}
	snapshot.LocationUpdatedAt = nullableTime(locationUpdatedAt)
	snapshot.PickedUpAt = nullableTime(pickedUpAt)
	snapshot.DeliveredAt = nullableTime(deliveredAt)
	snapshot.CancelledAt = nullableTime(cancelledAt)

	return snapshot, nil
}

func nullableTime(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time
	return &t
}
