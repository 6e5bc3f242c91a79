// Package ports defines the contracts between the application core and
// infrastructure adapters, enabling dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
)

// ParcelRepository defines the persistence contract for parcel aggregates.
type ParcelRepository interface {
	// Add persists a new parcel aggregate to storage.
	Add(ctx context.Context, aggregate *parcel.Parcel) error

	// Update persists changes to an existing parcel aggregate.
	Update(ctx context.Context, aggregate *parcel.Parcel) error

	// Get retrieves a parcel aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error)

	// GetByTrackingID retrieves a parcel aggregate by its public tracking
	// identifier.
	GetByTrackingID(ctx context.Context, trackingID kernel.TrackingID) (*parcel.Parcel, error)

	// GetByTrackingIDForUpdate retrieves a parcel by tracking identifier and
	// takes a row lock on it for the duration of the enclosing transaction.
	// Concurrent mutations of the same parcel serialize behind this lock.
	GetByTrackingIDForUpdate(ctx context.Context, trackingID kernel.TrackingID) (*parcel.Parcel, error)

	// GetAllForCustomer retrieves the parcels booked by a customer,
	// newest first.
	GetAllForCustomer(ctx context.Context, customerID kernel.UUID, offset, limit int) ([]*parcel.Parcel, error)

	// GetAllForAgent retrieves the parcels assigned to an agent,
	// newest first.
	GetAllForAgent(ctx context.Context, agentID kernel.UUID, offset, limit int) ([]*parcel.Parcel, error)

	// GetAll retrieves all parcels, newest first.
	GetAll(ctx context.Context, offset, limit int) ([]*parcel.Parcel, error)

	// GetAllUnassigned retrieves parcels still in Booked status with no
	// agent that were booked before the given cutoff.
	GetAllUnassigned(ctx context.Context, bookedBefore time.Time) ([]*parcel.Parcel, error)

	// GetAllInTransitSince retrieves parcels that entered InTransit status
	// before the given cutoff and have not progressed since.
	GetAllInTransitSince(ctx context.Context, cutoff time.Time) ([]*parcel.Parcel, error)
}
