package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/actor"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var ErrBookParcelCommandIsNotConstructed = errors.New(
	"BookParcelCommand must be created via NewBookParcelCommand constructor",
)

// BookParcelCommand represents a request to register a new parcel for
// delivery. Encapsulates the booking details: who books, where the parcel
// travels, and what kind of shipment it is.
type BookParcelCommand struct { //nolint:recvcheck //using for validation
	parcelID        kernel.UUID
	customerID      kernel.UUID
	requestedBy     actor.Actor
	pickupAddress   parcel.Address
	deliveryAddress parcel.Address
	parcelType      parcel.ParcelType
	size            parcel.Size
	isCOD           bool
	codAmount       float64

	guard guard.ConstructorGuard
}

// NewBookParcelCommand creates a command to book a new parcel.
// Validates identifiers, addresses and shipment attributes.
func NewBookParcelCommand(
	parcelID kernel.UUID,
	customerID kernel.UUID,
	requestedBy actor.Actor,
	pickupAddress parcel.Address,
	deliveryAddress parcel.Address,
	parcelType parcel.ParcelType,
	size parcel.Size,
	isCOD bool,
	codAmount float64,
) (BookParcelCommand, error) {
	command := BookParcelCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setParcelID(parcelID),
		command.setCustomerID(customerID),
		command.setRequestedBy(requestedBy),
		command.setPickupAddress(pickupAddress),
		command.setDeliveryAddress(deliveryAddress),
		command.setParcelType(parcelType),
		command.setSize(size),
		command.setCOD(isCOD, codAmount),
	); err != nil {
		return BookParcelCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c BookParcelCommand) Validate() error {
	return c.guard.Validate(ErrBookParcelCommandIsNotConstructed)
}

// ParcelID returns the identifier assigned to the new parcel.
func (c BookParcelCommand) ParcelID() kernel.UUID {
	return c.parcelID
}

// CustomerID returns the customer the parcel is booked for.
func (c BookParcelCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// RequestedBy returns the actor performing the booking.
func (c BookParcelCommand) RequestedBy() actor.Actor {
	return c.requestedBy
}

// PickupAddress returns where the parcel is collected.
func (c BookParcelCommand) PickupAddress() parcel.Address {
	return c.pickupAddress
}

// DeliveryAddress returns where the parcel is delivered.
func (c BookParcelCommand) DeliveryAddress() parcel.Address {
	return c.deliveryAddress
}

// Type returns the shipment type.
func (c BookParcelCommand) Type() parcel.ParcelType {
	return c.parcelType
}

// Size returns the shipment size class.
func (c BookParcelCommand) Size() parcel.Size {
	return c.size
}

// IsCOD reports whether the parcel is paid cash on delivery.
func (c BookParcelCommand) IsCOD() bool {
	return c.isCOD
}

// CODAmount returns the amount collected on delivery.
func (c BookParcelCommand) CODAmount() float64 {
	return c.codAmount
}

func (c *BookParcelCommand) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return err
	}

	c.parcelID = parcelID
	return nil
}

func (c *BookParcelCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *BookParcelCommand) setRequestedBy(requestedBy actor.Actor) error {
	if err := requestedBy.Validate(); err != nil {
		return err
	}

	c.requestedBy = requestedBy
	return nil
}

func (c *BookParcelCommand) setPickupAddress(address parcel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}

	c.pickupAddress = address
	return nil
}

func (c *BookParcelCommand) setDeliveryAddress(address parcel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}

	c.deliveryAddress = address
	return nil
}

func (c *BookParcelCommand) setParcelType(parcelType parcel.ParcelType) error {
	if err := parcelType.Validate(); err != nil {
		return err
	}

	c.parcelType = parcelType
	return nil
}

func (c *BookParcelCommand) setSize(size parcel.Size) error {
	if err := size.Validate(); err != nil {
		return err
	}

	c.size = size
	return nil
}

func (c *BookParcelCommand) setCOD(isCOD bool, codAmount float64) error {
	if isCOD && codAmount <= 0 {
		return errs.NewValueIsInvalidError("codAmount")
	}
	if codAmount < 0 {
		return errs.NewValueIsInvalidError("codAmount")
	}

	c.isCOD = isCOD
	c.codAmount = codAmount
	return nil
}
