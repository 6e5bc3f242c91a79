package queries

import (
	"errors"

	"parceltrack/internal/core/domain/model/actor"
	"parceltrack/internal/pkg/guard"
)

var ErrGetUnassignedParcelsQueryIsNotConstructed = errors.New(
	"GetUnassignedParcelsQuery must be created via NewGetUnassignedParcelsQuery constructor",
)

// GetUnassignedParcelsQuery retrieves parcels still waiting for an agent.
// Admin-only; it backs the dispatch view.
type GetUnassignedParcelsQuery struct { //nolint:recvcheck //using for validation
	requestedBy actor.Actor

	guard guard.ConstructorGuard
}

// NewGetUnassignedParcelsQuery creates a query for the dispatch backlog.
func NewGetUnassignedParcelsQuery(requestedBy actor.Actor) (GetUnassignedParcelsQuery, error) {
	if err := requestedBy.Validate(); err != nil {
		return GetUnassignedParcelsQuery{}, err
	}

	return GetUnassignedParcelsQuery{
		requestedBy: requestedBy,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetUnassignedParcelsQuery) Validate() error {
	return q.guard.Validate(ErrGetUnassignedParcelsQueryIsNotConstructed)
}

// RequestedBy returns the actor asking for the backlog.
func (q GetUnassignedParcelsQuery) RequestedBy() actor.Actor {
	return q.requestedBy
}

// GetUnassignedParcelsQueryResponse is the dispatch backlog read model,
// oldest booking first.
type GetUnassignedParcelsQueryResponse struct {
	Parcels []ParcelSummaryResponse `json:"parcels"`
}
