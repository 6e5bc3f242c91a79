package queries

import (
	"errors"
	"time"

	"parceltrack/internal/core/domain/model/actor"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var ErrGetParcelsQueryIsNotConstructed = errors.New(
	"GetParcelsQuery must be created via NewGetParcelsQuery constructor",
)

const (
	// DefaultPageSize applies when the caller does not ask for a specific page size.
	DefaultPageSize = 20
	// MaxPageSize caps a single listing page.
	MaxPageSize = 100
)

// GetParcelsQuery retrieves a page of parcels visible to the actor:
// customers see their own bookings, agents their assignments, admins
// everything.
type GetParcelsQuery struct { //nolint:recvcheck //using for validation
	requestedBy  actor.Actor
	page         int
	pageSize     int
	statusFilter *parcel.Status

	guard guard.ConstructorGuard
}

// NewGetParcelsQuery creates a paginated listing query. Page numbering starts
// at 1; pageSize zero means the default; an empty statusFilter means all
// statuses.
func NewGetParcelsQuery(requestedBy actor.Actor, page, pageSize int, statusFilter string) (GetParcelsQuery, error) {
	if err := requestedBy.Validate(); err != nil {
		return GetParcelsQuery{}, err
	}
	if page < 1 {
		return GetParcelsQuery{}, errs.NewValueIsOutOfRangeError("page", page, 1, int(^uint(0)>>1))
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return GetParcelsQuery{}, errs.NewValueIsOutOfRangeError("pageSize", pageSize, 1, MaxPageSize)
	}

	query := GetParcelsQuery{
		requestedBy: requestedBy,
		page:        page,
		pageSize:    pageSize,
		guard:       guard.NewConstructorGuard(),
	}
	if statusFilter != "" {
		status, err := parcel.StatusFromString(statusFilter)
		if err != nil {
			return GetParcelsQuery{}, err
		}
		query.statusFilter = &status
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetParcelsQuery) Validate() error {
	return q.guard.Validate(ErrGetParcelsQueryIsNotConstructed)
}

// RequestedBy returns the actor listing parcels.
func (q GetParcelsQuery) RequestedBy() actor.Actor {
	return q.requestedBy
}

// Page returns the 1-based page number.
func (q GetParcelsQuery) Page() int {
	return q.page
}

// PageSize returns the number of parcels per page.
func (q GetParcelsQuery) PageSize() int {
	return q.pageSize
}

// Offset returns the row offset for the requested page.
func (q GetParcelsQuery) Offset() int {
	return (q.page - 1) * q.pageSize
}

// StatusFilter returns the status to restrict the listing to, or nil for all.
func (q GetParcelsQuery) StatusFilter() *parcel.Status {
	return q.statusFilter
}

// ParcelSummaryResponse is one parcel in a listing read model.
type ParcelSummaryResponse struct {
	TrackingID      string     `json:"trackingId"`
	Status          string     `json:"status"`
	CustomerID      string     `json:"customerId"`
	AgentID         *string    `json:"agentId,omitempty"`
	PickupLine      string     `json:"pickupAddress"`
	DeliveryLine    string     `json:"deliveryAddress"`
	Type            string     `json:"type"`
	Size            string     `json:"size"`
	IsCOD           bool       `json:"isCod"`
	CODAmount       float64    `json:"codAmount"`
	PlatformCharge  float64    `json:"platformCharge"`
	CreatedAt       time.Time  `json:"createdAt"`
	DeliveredAt     *time.Time `json:"deliveredAt,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
}

// GetParcelsQueryResponse is the listing read model.
type GetParcelsQueryResponse struct {
	Parcels  []ParcelSummaryResponse `json:"parcels"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"pageSize"`
}
