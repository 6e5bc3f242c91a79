package queries

import (
	"errors"
	"time"

	"parceltrack/internal/core/domain/model/actor"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/guard"
)

var ErrGetParcelHistoryQueryIsNotConstructed = errors.New(
	"GetParcelHistoryQuery must be created via NewGetParcelHistoryQuery constructor",
)

// GetParcelHistoryQuery retrieves the full audit timeline of a parcel,
// oldest entry first.
type GetParcelHistoryQuery struct { //nolint:recvcheck //using for validation
	trackingID  kernel.TrackingID
	requestedBy actor.Actor

	guard guard.ConstructorGuard
}

// NewGetParcelHistoryQuery creates a query to read a parcel's timeline.
func NewGetParcelHistoryQuery(trackingID kernel.TrackingID, requestedBy actor.Actor) (GetParcelHistoryQuery, error) {
	if err := trackingID.Validate(); err != nil {
		return GetParcelHistoryQuery{}, err
	}
	if err := requestedBy.Validate(); err != nil {
		return GetParcelHistoryQuery{}, err
	}

	return GetParcelHistoryQuery{
		trackingID:  trackingID,
		requestedBy: requestedBy,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetParcelHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetParcelHistoryQueryIsNotConstructed)
}

// TrackingID returns the public identifier of the parcel.
func (q GetParcelHistoryQuery) TrackingID() kernel.TrackingID {
	return q.trackingID
}

// RequestedBy returns the actor asking for the timeline.
func (q GetParcelHistoryQuery) RequestedBy() actor.Actor {
	return q.requestedBy
}

// HistoryEntryResponse is one timeline entry in the read model.
type HistoryEntryResponse struct {
	Sequence  uint64            `json:"sequence"`
	Status    string            `json:"status"`
	Location  *GeoPointResponse `json:"location,omitempty"`
	ActorID   string            `json:"actorId"`
	Note      string            `json:"note,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// GetParcelHistoryQueryResponse is the timeline read model.
type GetParcelHistoryQueryResponse struct {
	TrackingID string                 `json:"trackingId"`
	Entries    []HistoryEntryResponse `json:"entries"`
}
