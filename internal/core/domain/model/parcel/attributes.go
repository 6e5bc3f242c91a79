package parcel

import (
	"fmt"

	"parceltrack/internal/pkg/errs"
)

// ParcelType classifies the contents of a parcel.
type ParcelType int

const (
	// TypeUnknown represents an invalid or undefined parcel type.
	TypeUnknown ParcelType = iota
	// TypeDocument is an envelope or paper shipment.
	TypeDocument
	// TypeBox is a standard boxed shipment.
	TypeBox
	// TypeFragile requires careful handling.
	TypeFragile
	// TypeOther covers anything outside the named categories.
	TypeOther
)

func getParcelTypeStrings() map[ParcelType]string {
	return map[ParcelType]string{
		TypeDocument: "document",
		TypeBox:      "box",
		TypeFragile:  "fragile",
		TypeOther:    "other",
	}
}

// ParcelTypeFromString parses a wire parcel type value.
func ParcelTypeFromString(s string) (ParcelType, error) {
	for pt, str := range getParcelTypeStrings() {
		if str == s {
			return pt, nil
		}
	}
	return TypeUnknown, errs.NewValueIsInvalidErrorWithCause("parcelType",
		fmt.Errorf("%q is not a valid parcel type", s))
}

// String returns the wire representation of the parcel type.
func (p ParcelType) String() string {
	if str, ok := getParcelTypeStrings()[p]; ok {
		return str
	}
	return "unknown"
}

// Validate checks the parcel type is a member of the closed enum.
func (p ParcelType) Validate() error {
	if _, ok := getParcelTypeStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("parcelType is invalid",
			fmt.Errorf("%d is not a valid parcel type", p))
	}
	return nil
}

// Size classifies a parcel's declared size, which also determines the
// platform charge at booking.
type Size int

const (
	// SizeUnknown represents an invalid or undefined size.
	SizeUnknown Size = iota
	// SizeSmall fits in a courier bag.
	SizeSmall
	// SizeMedium is a standard package.
	SizeMedium
	// SizeLarge needs dedicated space.
	SizeLarge
)

func getSizeStrings() map[Size]string {
	return map[Size]string{
		SizeSmall:  "small",
		SizeMedium: "medium",
		SizeLarge:  "large",
	}
}

// getSizeCharges maps each size to its platform charge at booking.
func getSizeCharges() map[Size]float64 {
	return map[Size]float64{
		SizeSmall:  50,
		SizeMedium: 100,
		SizeLarge:  150,
	}
}

// SizeFromString parses a wire size value.
func SizeFromString(s string) (Size, error) {
	for size, str := range getSizeStrings() {
		if str == s {
			return size, nil
		}
	}
	return SizeUnknown, errs.NewValueIsInvalidErrorWithCause("size",
		fmt.Errorf("%q is not a valid size", s))
}

// String returns the wire representation of the size.
func (s Size) String() string {
	if str, ok := getSizeStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate checks the size is a member of the closed enum.
func (s Size) Validate() error {
	if _, ok := getSizeStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("size is invalid",
			fmt.Errorf("%d is not a valid size", s))
	}
	return nil
}

// PlatformCharge returns the booking charge for the size.
func (s Size) PlatformCharge() (float64, error) {
	charge, ok := getSizeCharges()[s]
	if !ok {
		return 0, s.Validate()
	}
	return charge, nil
}
