package parcel

import (
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when attempting to use an improperly
// initialized Address.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewAddress constructor")

// Address is a pickup or delivery address: a required free-text line plus an
// optional geocoded point. Geocoding happens outside this system, so the
// point may be absent.
//
// Address is an immutable value object; the zero value fails validation.
type Address struct {
	line  string
	point *kernel.GeoPoint
	guard guard.ConstructorGuard
}

// NewAddress creates an Address. The text line is required; point may be nil
// when the address has not been geocoded.
func NewAddress(line string, point *kernel.GeoPoint) (Address, error) {
	if line == "" {
		return Address{}, errs.NewValueIsRequiredError("address")
	}
	if point != nil {
		if err := point.Validate(); err != nil {
			return Address{}, err
		}
	}

	return Address{
		line:  line,
		point: point,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Line returns the free-text address line.
func (a Address) Line() string {
	return a.line
}

// Point returns the geocoded coordinates, or nil if the address has not been
// geocoded.
func (a Address) Point() *kernel.GeoPoint {
	return a.point
}

// Validate checks the Address was created via NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}
