package kernel

import (
	"parceltrack/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrTrackingIDIsNotConstructed is returned when attempting to use an
// improperly initialized TrackingID.
var ErrTrackingIDIsNotConstructed = errs.NewValueIsRequiredError(
	"tracking ID must be created via NewTrackingID or TrackingIDFromString")

// TrackingID is the globally unique, externally shareable identifier for a
// parcel. It is immutable once created and safe to hand to customers for
// public tracking lookups.
//
// The zero value is invalid; use NewTrackingID to mint a fresh identifier at
// booking time or TrackingIDFromString to accept one from a caller.
type TrackingID struct {
	value string
}

// NewTrackingID mints a new globally unique tracking identifier.
func NewTrackingID() TrackingID {
	return TrackingID{value: uuid.NewString()}
}

// TrackingIDFromString validates and wraps a caller-supplied tracking
// identifier. Returns ValueIsRequiredError for an empty string.
func TrackingIDFromString(s string) (TrackingID, error) {
	if s == "" {
		return TrackingID{}, errs.NewValueIsRequiredError("trackingId")
	}
	return TrackingID{value: s}, nil
}

// String returns the tracking identifier as shared with customers.
func (t TrackingID) String() string {
	return t.value
}

// IsEqual compares two tracking identifiers.
func (t TrackingID) IsEqual(other TrackingID) bool {
	return t.value == other.value
}

// Validate checks that the TrackingID is non-empty.
func (t TrackingID) Validate() error {
	if t.value == "" {
		return ErrTrackingIDIsNotConstructed
	}
	return nil
}
