// Package historyrepo persists the append-only parcel audit log. Rows are
// only ever inserted; the bigserial sequence gives every entry a stable,
// monotonically increasing position within the log.
package historyrepo

import (
	"time"

	"github.com/google/uuid"

	"parceltrack/internal/core/domain/model/history"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
)

// EntryDTO represents the database structure for audit entries.
type EntryDTO struct {
	Sequence  uint64    `gorm:"primaryKey;autoIncrement"`
	ParcelID  uuid.UUID `gorm:"type:uuid;index"`
	Status    string    `gorm:"type:varchar(24)"`
	Lat       *float64
	Lng       *float64
	ActorID   uuid.UUID `gorm:"type:uuid"`
	Note      string
	CreatedAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for audit entries.
func (EntryDTO) TableName() string {
	return "parcel_history"
}

func fromDomain(entry history.Entry) EntryDTO {
	dto := EntryDTO{
		ParcelID:  entry.Parcel().Bytes(),
		Status:    entry.Status().String(),
		ActorID:   entry.Actor().Bytes(),
		Note:      entry.Note(),
		CreatedAt: entry.CreatedAt(),
	}

	if location := entry.Location(); location != nil {
		lat, lng := location.Lat(), location.Lng()
		dto.Lat = &lat
		dto.Lng = &lng
	}

	return dto
}

func toDomain(dto EntryDTO) (history.Entry, error) {
	parcelID, err := kernel.UUIDFromBytes(dto.ParcelID[:])
	if err != nil {
		return history.Entry{}, err
	}

	actorID, err := kernel.UUIDFromBytes(dto.ActorID[:])
	if err != nil {
		return history.Entry{}, err
	}

	status, err := parcel.StatusFromString(dto.Status)
	if err != nil {
		return history.Entry{}, err
	}

	var location *kernel.GeoPoint
	if dto.Lat != nil && dto.Lng != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.Lat, *dto.Lng)
		if pointErr != nil {
			return history.Entry{}, pointErr
		}
		location = &point
	}

	return history.RestoreEntry(dto.Sequence, parcelID, status, location, actorID, dto.Note, dto.CreatedAt)
}
