// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/guard"
)

var ErrTrackParcelQueryIsNotConstructed = errors.New(
	"TrackParcelQuery must be created via NewTrackParcelQuery constructor",
)

// TrackParcelQuery retrieves the live snapshot of a single parcel:
// its status, position and lifecycle timestamps. The tracking identifier
// is the only credential; anyone holding it may follow the parcel, so the
// snapshot carries no actor references.
type TrackParcelQuery struct { //nolint:recvcheck //using for validation
	trackingID kernel.TrackingID

	guard guard.ConstructorGuard
}

// NewTrackParcelQuery creates a query to track a parcel.
func NewTrackParcelQuery(trackingID kernel.TrackingID) (TrackParcelQuery, error) {
	if err := trackingID.Validate(); err != nil {
		return TrackParcelQuery{}, err
	}

	return TrackParcelQuery{
		trackingID: trackingID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q TrackParcelQuery) Validate() error {
	return q.guard.Validate(ErrTrackParcelQueryIsNotConstructed)
}

// TrackingID returns the public identifier of the parcel.
func (q TrackParcelQuery) TrackingID() kernel.TrackingID {
	return q.trackingID
}

// GeoPointResponse is a coordinate pair in the read model.
type GeoPointResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TrackParcelQueryResponse is the tracking snapshot read model.
type TrackParcelQueryResponse struct {
	TrackingID        string            `json:"trackingId"`
	Status            string            `json:"status"`
	CurrentLocation   *GeoPointResponse `json:"currentLocation,omitempty"`
	LocationUpdatedAt *time.Time        `json:"locationUpdatedAt,omitempty"`
	PickedUpAt        *time.Time        `json:"pickedUpAt,omitempty"`
	DeliveredAt       *time.Time        `json:"deliveredAt,omitempty"`
	CancelledAt       *time.Time        `json:"cancelledAt,omitempty"`
}
