package queries

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"parceltrack/internal/pkg/errs"
)

// GetParcelHistoryQueryHandler reads a parcel's audit timeline from the
// database. Ordering is by creation time with the insertion sequence breaking
// ties, so repeated reads always produce the same timeline.
type GetParcelHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetParcelHistoryQueryHandler creates a handler for timeline queries.
func NewGetParcelHistoryQueryHandler(db *gorm.DB) GetParcelHistoryQueryHandler {
	return GetParcelHistoryQueryHandler{db: db}
}

// Handle executes the timeline query.
func (h GetParcelHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetParcelHistoryQuery,
) (GetParcelHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetParcelHistoryQueryResponse{}, err
	}

	trackingID := query.TrackingID().String()

	var parcelID, customerID string
	var agentID sql.NullString
	row := h.db.WithContext(ctx).Raw(`
		SELECT id, customer_id, agent_id
		FROM parcels
		WHERE tracking_id = ?
	`, trackingID).Row()
	err := row.Scan(&parcelID, &customerID, &agentID)
	if errors.Is(err, sql.ErrNoRows) {
		return GetParcelHistoryQueryResponse{}, errs.NewObjectNotFoundError("trackingID", trackingID)
	}
	if err != nil {
		return GetParcelHistoryQueryResponse{}, err
	}

	requestedBy := query.RequestedBy()
	allowed := requestedBy.IsAdmin() ||
		(requestedBy.IsCustomer() && customerID == requestedBy.ID().String()) ||
		(requestedBy.IsAgent() && agentID.Valid && agentID.String == requestedBy.ID().String())
	if !allowed {
		return GetParcelHistoryQueryResponse{}, errs.NewNotAuthorizedError("view parcel history")
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			sequence,
			status,
			lat,
			lng,
			actor_id,
			note,
			created_at
		FROM parcel_history
		WHERE parcel_id = ?
		ORDER BY created_at, sequence
	`, parcelID).Rows()
	if err != nil {
		return GetParcelHistoryQueryResponse{}, err
	}
	defer rows.Close()

	entries := make([]HistoryEntryResponse, 0)
	for rows.Next() {
		var entry HistoryEntryResponse
		var lat, lng sql.NullFloat64

		err = rows.Scan(
			&entry.Sequence,
			&entry.Status,
			&lat,
			&lng,
			&entry.ActorID,
			&entry.Note,
			&entry.CreatedAt,
		)
		if err != nil {
			return GetParcelHistoryQueryResponse{}, err
		}

		if lat.Valid && lng.Valid {
			entry.Location = &GeoPointResponse{Lat: lat.Float64, Lng: lng.Float64}
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return GetParcelHistoryQueryResponse{}, err
	}

	return GetParcelHistoryQueryResponse{
		TrackingID: trackingID,
		Entries:    entries,
	}, nil
}
