// Package history implements the immutable audit trail of a parcel.
//
// Every mutation of a parcel appends exactly one Entry; entries are never
// updated or deleted. Ordering is by creation timestamp with the
// store-assigned sequence number breaking ties, so the trail of a parcel is
// totally ordered even under concurrent writers.
package history

import (
	"errors"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
)

// ErrEntryIsNotConstructed is returned when an Entry was not created through
// NewEntry or RestoreEntry.
var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry or RestoreEntry constructor")

// Entry is one immutable audit record of a status or location change.
// The sequence number is zero until the store assigns one on append;
// restored entries always carry their persisted sequence.
type Entry struct {
	sequence  uint64
	parcelID  kernel.UUID
	status    parcel.Status
	location  *kernel.GeoPoint
	actorID   kernel.UUID
	note      string
	createdAt time.Time

	isConstructed bool
}

// NewEntry creates an audit record for a mutation that just happened.
// Status carries the parcel's status at the time of the event (unchanged for
// a location-only update); location and note are optional.
func NewEntry(
	parcelID kernel.UUID,
	status parcel.Status,
	location *kernel.GeoPoint,
	actorID kernel.UUID,
	note string,
	createdAt time.Time,
) (Entry, error) {
	if err := errors.Join(
		parcelID.Validate(),
		status.Validate(),
		actorID.Validate(),
	); err != nil {
		return Entry{}, err
	}
	if location != nil {
		if err := location.Validate(); err != nil {
			return Entry{}, err
		}
	}

	return Entry{
		parcelID:      parcelID,
		status:        status,
		location:      location,
		actorID:       actorID,
		note:          note,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// RestoreEntry reconstructs a persisted audit record including its
// store-assigned sequence number.
func RestoreEntry(
	sequence uint64,
	parcelID kernel.UUID,
	status parcel.Status,
	location *kernel.GeoPoint,
	actorID kernel.UUID,
	note string,
	createdAt time.Time,
) (Entry, error) {
	entry, err := NewEntry(parcelID, status, location, actorID, note, createdAt)
	if err != nil {
		return Entry{}, err
	}
	entry.sequence = sequence
	return entry, nil
}

// Validate ensures the Entry was created through a constructor.
func (e Entry) Validate() error {
	if !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

// Sequence returns the store-assigned append sequence, zero before persistence.
func (e Entry) Sequence() uint64 {
	return e.sequence
}

// Parcel returns the identifier of the parcel this entry belongs to.
func (e Entry) Parcel() kernel.UUID {
	return e.parcelID
}

// Status returns the parcel status at the time of the event.
func (e Entry) Status() parcel.Status {
	return e.status
}

// Location returns the GPS position attached to the event, or nil.
func (e Entry) Location() *kernel.GeoPoint {
	return e.location
}

// Actor returns the user who caused the event.
func (e Entry) Actor() kernel.UUID {
	return e.actorID
}

// Note returns the optional free-text note.
func (e Entry) Note() string {
	return e.note
}

// CreatedAt returns when the event happened.
func (e Entry) CreatedAt() time.Time {
	return e.createdAt
}
