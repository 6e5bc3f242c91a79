// Package parcelrepo provides data transfer objects and mapping functions for
// parcel persistence. It implements the repository pattern for the parcel
// aggregate, handling conversion between domain entities and database rows.
package parcelrepo

import (
	"time"

	"github.com/google/uuid"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
)

// ParcelDTO represents the database structure for persisting parcel
// aggregates. Tracking identifier lookups and per-customer/per-agent listings
// are the hot paths, hence the indexes.
type ParcelDTO struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TrackingID         string     `gorm:"type:varchar(64);uniqueIndex"`
	CustomerID         uuid.UUID  `gorm:"type:uuid;index"`
	AgentID            *uuid.UUID `gorm:"type:uuid;index"`
	Pickup             AddressDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	Delivery           AddressDTO `gorm:"embedded;embeddedPrefix:delivery_"`
	ParcelType         string     `gorm:"type:varchar(16)"`
	Size               string     `gorm:"type:varchar(16)"`
	IsCOD              bool       `gorm:"column:is_cod"`
	CODAmount          float64    `gorm:"column:cod_amount"`
	PlatformCharge     float64
	Status             string `gorm:"type:varchar(24);index"`
	CurrentLat         *float64
	CurrentLng         *float64
	LocationUpdatedAt  *time.Time
	PickedUpAt         *time.Time
	DeliveredAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason string
	CancelledBy        *uuid.UUID `gorm:"type:uuid"`
	DeliveryNotes      string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName specifies the database table name for parcel entities.
func (ParcelDTO) TableName() string {
	return "parcels"
}

// AddressDTO represents an embedded address within the parcel table.
type AddressDTO struct {
	Line string
	Lat  *float64
	Lng  *float64
}

func fromDomain(aggregate *parcel.Parcel) ParcelDTO {
	dto := ParcelDTO{
		ID:                 aggregate.ID().Bytes(),
		TrackingID:         aggregate.TrackingID().String(),
		CustomerID:         aggregate.Customer().Bytes(),
		AgentID:            uuidToRaw(aggregate.Agent()),
		Pickup:             addressFromDomain(aggregate.PickupAddress()),
		Delivery:           addressFromDomain(aggregate.DeliveryAddress()),
		ParcelType:         aggregate.Type().String(),
		Size:               aggregate.Size().String(),
		IsCOD:              aggregate.IsCOD(),
		CODAmount:          aggregate.CODAmount(),
		PlatformCharge:     aggregate.PlatformCharge(),
		Status:             aggregate.Status().String(),
		LocationUpdatedAt:  aggregate.LocationUpdatedAt(),
		PickedUpAt:         aggregate.PickedUpAt(),
		DeliveredAt:        aggregate.DeliveredAt(),
		CancelledAt:        aggregate.CancelledAt(),
		CancellationReason: aggregate.CancellationReason(),
		CancelledBy:        uuidToRaw(aggregate.CancelledBy()),
		DeliveryNotes:      aggregate.DeliveryNotes(),
	}

	if location := aggregate.CurrentLocation(); location != nil {
		lat, lng := location.Lat(), location.Lng()
		dto.CurrentLat = &lat
		dto.CurrentLng = &lng
	}

	return dto
}

func toDomain(dto ParcelDTO) (*parcel.Parcel, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	trackingID, err := kernel.TrackingIDFromString(dto.TrackingID)
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	agentID, err := rawToUUID(dto.AgentID)
	if err != nil {
		return nil, err
	}

	cancelledBy, err := rawToUUID(dto.CancelledBy)
	if err != nil {
		return nil, err
	}

	pickupAddress, err := addressToDomain(dto.Pickup)
	if err != nil {
		return nil, err
	}

	deliveryAddress, err := addressToDomain(dto.Delivery)
	if err != nil {
		return nil, err
	}

	parcelType, err := parcel.ParcelTypeFromString(dto.ParcelType)
	if err != nil {
		return nil, err
	}

	size, err := parcel.SizeFromString(dto.Size)
	if err != nil {
		return nil, err
	}

	status, err := parcel.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	currentLocation, err := pointFromColumns(dto.CurrentLat, dto.CurrentLng)
	if err != nil {
		return nil, err
	}

	return parcel.RestoreParcel(
		id,
		trackingID,
		customerID,
		agentID,
		pickupAddress,
		deliveryAddress,
		parcelType,
		size,
		dto.IsCOD,
		dto.CODAmount,
		dto.PlatformCharge,
		status,
		currentLocation,
		dto.LocationUpdatedAt,
		dto.PickedUpAt,
		dto.DeliveredAt,
		dto.CancelledAt,
		dto.CancellationReason,
		cancelledBy,
		dto.DeliveryNotes,
	)
}

func addressFromDomain(address parcel.Address) AddressDTO {
	dto := AddressDTO{Line: address.Line()}
	if point := address.Point(); point != nil {
		lat, lng := point.Lat(), point.Lng()
		dto.Lat = &lat
		dto.Lng = &lng
	}
	return dto
}

func addressToDomain(dto AddressDTO) (parcel.Address, error) {
	point, err := pointFromColumns(dto.Lat, dto.Lng)
	if err != nil {
		return parcel.Address{}, err
	}
	return parcel.NewAddress(dto.Line, point)
}

func pointFromColumns(lat, lng *float64) (*kernel.GeoPoint, error) {
	if lat == nil || lng == nil {
		return nil, nil
	}
	point, err := kernel.NewGeoPoint(*lat, *lng)
	if err != nil {
		return nil, err
	}
	return &point, nil
}

func uuidToRaw(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func rawToUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
