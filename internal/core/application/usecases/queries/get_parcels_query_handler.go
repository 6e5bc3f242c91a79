package queries

import (
	"context"
	"database/sql"
	"strings"

	"gorm.io/gorm"
)

// GetParcelsQueryHandler serves role-filtered parcel listings.
type GetParcelsQueryHandler struct {
	db *gorm.DB
}

// NewGetParcelsQueryHandler creates a handler for listing queries.
func NewGetParcelsQueryHandler(db *gorm.DB) GetParcelsQueryHandler {
	return GetParcelsQueryHandler{db: db}
}

const parcelSummaryColumns = `
	tracking_id,
	status,
	customer_id,
	agent_id,
	pickup_line,
	delivery_line,
	parcel_type,
	size,
	is_cod,
	cod_amount,
	platform_charge,
	created_at,
	delivered_at,
	cancelled_at
`

// Handle executes the listing query, newest bookings first.
func (h GetParcelsQueryHandler) Handle(
	ctx context.Context,
	query GetParcelsQuery,
) (GetParcelsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetParcelsQueryResponse{}, err
	}

	requestedBy := query.RequestedBy()

	// Customers see their own bookings, agents their assignments,
	// admins everything.
	var conditions []string
	var args []any
	switch {
	case requestedBy.IsAgent():
		conditions = append(conditions, "agent_id = ?")
		args = append(args, requestedBy.ID().String())
	case !requestedBy.IsAdmin():
		conditions = append(conditions, "customer_id = ?")
		args = append(args, requestedBy.ID().String())
	}
	if status := query.StatusFilter(); status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, status.String())
	}

	sqlQuery := `SELECT ` + parcelSummaryColumns + ` FROM parcels`
	if len(conditions) > 0 {
		sqlQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	sqlQuery += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, query.PageSize(), query.Offset())

	rows, err := h.db.WithContext(ctx).Raw(sqlQuery, args...).Rows()
	if err != nil {
		return GetParcelsQueryResponse{}, err
	}
	defer rows.Close()

	parcels, err := scanParcelSummaries(rows)
	if err != nil {
		return GetParcelsQueryResponse{}, err
	}

	return GetParcelsQueryResponse{
		Parcels:  parcels,
		Page:     query.Page(),
		PageSize: query.PageSize(),
	}, nil
}

func scanParcelSummaries(rows *sql.Rows) ([]ParcelSummaryResponse, error) {
	parcels := make([]ParcelSummaryResponse, 0)

	for rows.Next() {
		var summary ParcelSummaryResponse
		var agentID sql.NullString
		var deliveredAt, cancelledAt sql.NullTime

		err := rows.Scan(
			&summary.TrackingID,
			&summary.Status,
			&summary.CustomerID,
			&agentID,
			&summary.PickupLine,
			&summary.DeliveryLine,
			&summary.Type,
			&summary.Size,
			&summary.IsCOD,
			&summary.CODAmount,
			&summary.PlatformCharge,
			&summary.CreatedAt,
			&deliveredAt,
			&cancelledAt,
		)
		if err != nil {
			return nil, err
		}

		if agentID.Valid {
			summary.AgentID = &agentID.String
		}
		summary.DeliveredAt = nullableTime(deliveredAt)
		summary.CancelledAt = nullableTime(cancelledAt)
		parcels = append(parcels, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return parcels, nil
}
