package queries

import (
	"context"

	"gorm.io/gorm"

	"parceltrack/internal/pkg/errs"
)

// GetUnassignedParcelsQueryHandler serves the dispatch backlog: parcels
// booked but not yet in the hands of an agent.
type GetUnassignedParcelsQueryHandler struct {
	db *gorm.DB
}

// NewGetUnassignedParcelsQueryHandler creates a handler for backlog queries.
func NewGetUnassignedParcelsQueryHandler(db *gorm.DB) GetUnassignedParcelsQueryHandler {
	return GetUnassignedParcelsQueryHandler{db: db}
}

// Handle executes the backlog query, oldest booking first so the longest
// waiting parcels get dispatched first.
func (h GetUnassignedParcelsQueryHandler) Handle(
	ctx context.Context,
	query GetUnassignedParcelsQuery,
) (GetUnassignedParcelsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetUnassignedParcelsQueryResponse{}, err
	}

	if !query.RequestedBy().IsAdmin() {
		return GetUnassignedParcelsQueryResponse{}, errs.NewNotAuthorizedError("list unassigned parcels")
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT ` + parcelSummaryColumns + `
		FROM parcels
		WHERE status = 'booked' AND agent_id IS NULL
		ORDER BY created_at
	`).Rows()
	if err != nil {
		return GetUnassignedParcelsQueryResponse{}, err
	}
	defer rows.Close()

	parcels, err := scanParcelSummaries(rows)
	if err != nil {
		return GetUnassignedParcelsQueryResponse{}, err
	}

	return GetUnassignedParcelsQueryResponse{Parcels: parcels}, nil
}
