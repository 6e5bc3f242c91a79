package ports

import (
	"context"

	"parceltrack/internal/core/domain/model/history"
	"parceltrack/internal/core/domain/model/kernel"
)

// HistoryRepository defines the persistence contract for the append-only
// parcel audit log. Entries are never updated or deleted.
type HistoryRepository interface {
	// Append persists a new audit entry and returns it with the
	// store-assigned sequence number filled in.
	Append(ctx context.Context, entry history.Entry) (history.Entry, error)

	// GetAllForParcel retrieves every audit entry of a parcel in timeline
	// order, oldest first.
	GetAllForParcel(ctx context.Context, parcelID kernel.UUID) ([]history.Entry, error)
}
