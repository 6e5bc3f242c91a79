package historyrepo

import (
	"context"

	"gorm.io/gorm"

	"parceltrack/internal/core/domain/model/history"
	"parceltrack/internal/core/domain/model/kernel"
)

// GormHistoryRepository implements HistoryRepository using GORM.
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new GORM history repository.
func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// Append inserts a new audit entry and returns it with the store-assigned
// sequence number filled in. Entries are never updated or deleted.
func (r *GormHistoryRepository) Append(ctx context.Context, entry history.Entry) (history.Entry, error) {
	if err := entry.Validate(); err != nil {
		return history.Entry{}, err
	}

	dto := fromDomain(entry)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return history.Entry{}, err
	}

	return toDomain(dto)
}

// GetAllForParcel retrieves the parcel's audit entries in timeline order:
// ascending by creation time, sequence breaking ties.
func (r *GormHistoryRepository) GetAllForParcel(ctx context.Context, parcelID kernel.UUID) ([]history.Entry, error) {
	if err := parcelID.Validate(); err != nil {
		return nil, err
	}

	var dtos []EntryDTO
	err := r.db.WithContext(ctx).
		Where("parcel_id = ?", parcelID.Bytes()).
		Order("created_at, sequence").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]history.Entry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
