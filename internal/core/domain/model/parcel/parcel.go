package parcel

import (
	"errors"
	"fmt"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

var (
	// ErrParcelIsNotConstructed is returned when a Parcel instance was not
	// created through NewParcel or RestoreParcel. This ensures all parcels
	// are properly validated.
	ErrParcelIsNotConstructed = errors.New("Parcel must be created via NewParcel or RestoreParcel constructor")
)

const (
	// CancellationReasonMinLen is the minimum length of a cancellation reason.
	CancellationReasonMinLen = 10
	// CancellationReasonMaxLen is the maximum length of a cancellation reason.
	CancellationReasonMaxLen = 500
)

// Parcel represents a booked delivery in the system. It is the aggregate root
// managing the parcel lifecycle from booking through assignment, pickup and
// transit to a terminal state.
//
// Parcel follows these invariants:
//   - The tracking identifier is immutable once the parcel is created
//   - Status is always a member of the closed Status enum
//   - An agent is set before the status can leave Booked/Assigned
//   - PickedUpAt/DeliveredAt/CancelledAt are stamped exactly once, only on
//     entering the corresponding state
//   - Once a terminal status is reached no further transition is permitted
//   - Can only be created through NewParcel or RestoreParcel
type Parcel struct {
	id         kernel.UUID
	trackingID kernel.TrackingID

	// customerID references the booking customer; agentID is nil until an
	// agent is assigned.
	customerID kernel.UUID
	agentID    *kernel.UUID

	pickupAddress   Address
	deliveryAddress Address
	parcelType      ParcelType
	size            Size

	isCOD          bool
	codAmount      float64
	platformCharge float64

	status Status

	currentLocation   *kernel.GeoPoint
	locationUpdatedAt *time.Time

	pickedUpAt  *time.Time
	deliveredAt *time.Time

	cancelledAt        *time.Time
	cancellationReason string
	cancelledBy        *kernel.UUID

	deliveryNotes string

	isConstructed bool
}

// NewParcel books a new parcel. The parcel starts in Booked status with no
// agent assigned; the platform charge is derived from the declared size.
//
// Returns a validation error if any identifier, address or attribute is
// invalid, or if COD is enabled with a non-positive amount.
func NewParcel(
	id kernel.UUID,
	trackingID kernel.TrackingID,
	customerID kernel.UUID,
	pickupAddress Address,
	deliveryAddress Address,
	parcelType ParcelType,
	size Size,
	isCOD bool,
	codAmount float64,
) (*Parcel, error) {
	parcel := &Parcel{
		status:        Booked,
		isConstructed: true,
	}

	if err := errors.Join(
		parcel.setID(id),
		parcel.setTrackingID(trackingID),
		parcel.setCustomerID(customerID),
		parcel.setPickupAddress(pickupAddress),
		parcel.setDeliveryAddress(deliveryAddress),
		parcel.setParcelType(parcelType),
		parcel.setSize(size),
		parcel.setCOD(isCOD, codAmount),
	); err != nil {
		return nil, err
	}

	charge, err := size.PlatformCharge()
	if err != nil {
		return nil, err
	}
	parcel.platformCharge = charge

	return parcel, nil
}

// RestoreParcel reconstructs a Parcel from persistence without re-running the
// booking rules. The caller is trusted to supply a state that was valid when
// stored; enum membership is still checked.
func RestoreParcel(
	id kernel.UUID,
	trackingID kernel.TrackingID,
	customerID kernel.UUID,
	agentID *kernel.UUID,
	pickupAddress Address,
	deliveryAddress Address,
	parcelType ParcelType,
	size Size,
	isCOD bool,
	codAmount float64,
	platformCharge float64,
	status Status,
	currentLocation *kernel.GeoPoint,
	locationUpdatedAt *time.Time,
	pickedUpAt *time.Time,
	deliveredAt *time.Time,
	cancelledAt *time.Time,
	cancellationReason string,
	cancelledBy *kernel.UUID,
	deliveryNotes string,
) (*Parcel, error) {
	if err := errors.Join(
		id.Validate(),
		trackingID.Validate(),
		customerID.Validate(),
		status.Validate(),
		parcelType.Validate(),
		size.Validate(),
	); err != nil {
		return nil, err
	}

	return &Parcel{
		id:                 id,
		trackingID:         trackingID,
		customerID:         customerID,
		agentID:            agentID,
		pickupAddress:      pickupAddress,
		deliveryAddress:    deliveryAddress,
		parcelType:         parcelType,
		size:               size,
		isCOD:              isCOD,
		codAmount:          codAmount,
		platformCharge:     platformCharge,
		status:             status,
		currentLocation:    currentLocation,
		locationUpdatedAt:  locationUpdatedAt,
		pickedUpAt:         pickedUpAt,
		deliveredAt:        deliveredAt,
		cancelledAt:        cancelledAt,
		cancellationReason: cancellationReason,
		cancelledBy:        cancelledBy,
		deliveryNotes:      deliveryNotes,
		isConstructed:      true,
	}, nil
}

// Validate ensures the Parcel instance was properly constructed.
// Returns ErrParcelIsNotConstructed otherwise. Called when reconstructing
// parcels from persistence to ensure data integrity.
func (p *Parcel) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrParcelIsNotConstructed
	}

	return nil
}

// IsEqual compares two parcels by their unique identifiers.
func (p *Parcel) IsEqual(other *Parcel) bool {
	return other != nil && p.id.IsEqual(other.id)
}

// ID returns the parcel's internal unique identifier.
func (p *Parcel) ID() kernel.UUID {
	return p.id
}

// TrackingID returns the externally shareable tracking identifier.
func (p *Parcel) TrackingID() kernel.TrackingID {
	return p.trackingID
}

// Customer returns the booking customer's identifier.
func (p *Parcel) Customer() kernel.UUID {
	return p.customerID
}

// Agent returns the assigned agent's identifier, or nil if unassigned.
func (p *Parcel) Agent() *kernel.UUID {
	return p.agentID
}

// PickupAddress returns the pickup address.
func (p *Parcel) PickupAddress() Address {
	return p.pickupAddress
}

// DeliveryAddress returns the delivery address.
func (p *Parcel) DeliveryAddress() Address {
	return p.deliveryAddress
}

// Type returns the declared parcel type.
func (p *Parcel) Type() ParcelType {
	return p.parcelType
}

// Size returns the declared parcel size.
func (p *Parcel) Size() Size {
	return p.size
}

// IsCOD reports whether the parcel is cash-on-delivery.
func (p *Parcel) IsCOD() bool {
	return p.isCOD
}

// CODAmount returns the cash-on-delivery amount, zero when COD is disabled.
func (p *Parcel) CODAmount() float64 {
	return p.codAmount
}

// PlatformCharge returns the charge computed from the declared size at booking.
func (p *Parcel) PlatformCharge() float64 {
	return p.platformCharge
}

// Status returns the current lifecycle status.
func (p *Parcel) Status() Status {
	return p.status
}

// CurrentLocation returns the last reported GPS position, or nil if none was
// ever reported. LocationUpdatedAt carries the matching timestamp.
func (p *Parcel) CurrentLocation() *kernel.GeoPoint {
	return p.currentLocation
}

// LocationUpdatedAt returns when the current location was last reported.
func (p *Parcel) LocationUpdatedAt() *time.Time {
	return p.locationUpdatedAt
}

// PickedUpAt returns when the parcel was collected, nil before pickup.
func (p *Parcel) PickedUpAt() *time.Time {
	return p.pickedUpAt
}

// DeliveredAt returns when the parcel was delivered, nil before delivery.
func (p *Parcel) DeliveredAt() *time.Time {
	return p.deliveredAt
}

// CancelledAt returns when the parcel was cancelled, nil unless cancelled.
func (p *Parcel) CancelledAt() *time.Time {
	return p.cancelledAt
}

// CancellationReason returns the reason supplied at cancellation.
func (p *Parcel) CancellationReason() string {
	return p.cancellationReason
}

// CancelledBy returns the actor who cancelled the parcel, nil unless cancelled.
func (p *Parcel) CancelledBy() *kernel.UUID {
	return p.cancelledBy
}

// DeliveryNotes returns free-text notes attached to the delivery.
func (p *Parcel) DeliveryNotes() string {
	return p.deliveryNotes
}

// ChangeStatus moves the parcel to the requested status, enforcing the
// transition table and the agent invariant, and stamping lifecycle
// timestamps.
//
// Side effects:
//   - entering PickedUp stamps pickedUpAt (once)
//   - entering Delivered stamps deliveredAt (once)
//   - entering Cancelled stamps cancelledAt (once)
//   - a supplied location overwrites the current location and its timestamp
//
// Returns a ValueIsInvalidError when the transition is illegal, the parcel is
// already in a terminal state, or the target status requires an agent and
// none is assigned.
func (p *Parcel) ChangeStatus(next Status, location *kernel.GeoPoint, now time.Time) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if err := p.status.ValidateTransition(next); err != nil {
		return err
	}

	if next.RequiresAgent() && p.agentID == nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("cannot enter %s without an assigned agent", next),
		)
	}

	if location != nil {
		if err := location.Validate(); err != nil {
			return err
		}
		p.currentLocation = location
		at := now
		p.locationUpdatedAt = &at
	}

	p.status = next
	p.stampLifecycle(next, now)

	return nil
}

// AssignAgent assigns (or reassigns) an agent and moves the parcel to
// Assigned. Assignment is allowed from any non-terminal status; the caller is
// responsible for verifying that agentID references a user with the agent
// role.
func (p *Parcel) AssignAgent(agentID kernel.UUID) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := agentID.Validate(); err != nil {
		return err
	}

	if p.status.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("cannot assign an agent to a %s parcel", p.status),
		)
	}

	p.agentID = &agentID
	p.status = Assigned

	return nil
}

// Cancel moves the parcel to Cancelled, recording the reason and the actor.
// Cancellation is forbidden once the parcel is delivered or failed, and a
// cancelled parcel cannot be cancelled again. The reason must be between
// CancellationReasonMinLen and CancellationReasonMaxLen characters.
func (p *Parcel) Cancel(reason string, cancelledBy kernel.UUID, now time.Time) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := cancelledBy.Validate(); err != nil {
		return err
	}

	if len(reason) < CancellationReasonMinLen || len(reason) > CancellationReasonMaxLen {
		return errs.NewValueIsOutOfRangeError(
			"reason length", len(reason), CancellationReasonMinLen, CancellationReasonMaxLen)
	}

	if p.status.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("cannot cancel a %s parcel", p.status),
		)
	}

	p.status = Cancelled
	p.cancellationReason = reason
	p.cancelledBy = &cancelledBy
	p.stampLifecycle(Cancelled, now)

	return nil
}

// UpdateLocation overwrites the current GPS position without changing the
// status. Rejected once the parcel is in a terminal state.
func (p *Parcel) UpdateLocation(location kernel.GeoPoint, now time.Time) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := location.Validate(); err != nil {
		return err
	}

	if p.status.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("cannot update location of a %s parcel", p.status),
		)
	}

	p.currentLocation = &location
	at := now
	p.locationUpdatedAt = &at

	return nil
}

// stampLifecycle records the timestamp side effect of entering a status.
// Each timestamp is written at most once.
func (p *Parcel) stampLifecycle(status Status, now time.Time) {
	at := now

	switch status { //nolint:exhaustive // only terminalish statuses carry timestamps
	case PickedUp:
		if p.pickedUpAt == nil {
			p.pickedUpAt = &at
		}
	case Delivered:
		if p.deliveredAt == nil {
			p.deliveredAt = &at
		}
	case Cancelled:
		if p.cancelledAt == nil {
			p.cancelledAt = &at
		}
	}
}

func (p *Parcel) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Parcel) setTrackingID(trackingID kernel.TrackingID) error {
	if err := trackingID.Validate(); err != nil {
		return err
	}
	p.trackingID = trackingID
	return nil
}

func (p *Parcel) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	p.customerID = customerID
	return nil
}

func (p *Parcel) setPickupAddress(address Address) error {
	if err := address.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("pickupAddress", err)
	}
	p.pickupAddress = address
	return nil
}

func (p *Parcel) setDeliveryAddress(address Address) error {
	if err := address.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("deliveryAddress", err)
	}
	p.deliveryAddress = address
	return nil
}

func (p *Parcel) setParcelType(parcelType ParcelType) error {
	if err := parcelType.Validate(); err != nil {
		return err
	}
	p.parcelType = parcelType
	return nil
}

func (p *Parcel) setSize(size Size) error {
	if err := size.Validate(); err != nil {
		return err
	}
	p.size = size
	return nil
}

func (p *Parcel) setCOD(isCOD bool, codAmount float64) error {
	if isCOD && codAmount <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("codAmount",
			errors.New("COD amount must be greater than 0 when COD is enabled"))
	}
	if codAmount < 0 {
		return errs.NewValueIsInvalidErrorWithCause("codAmount",
			errors.New("COD amount cannot be negative"))
	}

	p.isCOD = isCOD
	p.codAmount = codAmount
	return nil
}
