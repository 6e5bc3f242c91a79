package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/actor"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/guard"
)

var ErrUpdateParcelStatusCommandIsNotConstructed = errors.New(
	"UpdateParcelStatusCommand must be created via NewUpdateParcelStatusCommand constructor",
)

// UpdateParcelStatusCommand represents a request to move a parcel to the next
// stage of its delivery lifecycle. An optional location pins where the change
// happened; an optional note ends up in the audit trail.
type UpdateParcelStatusCommand struct { //nolint:recvcheck //using for validation
	trackingID  kernel.TrackingID
	next        parcel.Status
	location    *kernel.GeoPoint
	note        string
	requestedBy actor.Actor

	guard guard.ConstructorGuard
}

// NewUpdateParcelStatusCommand creates a command to change a parcel's status.
func NewUpdateParcelStatusCommand(
	trackingID kernel.TrackingID,
	next parcel.Status,
	location *kernel.GeoPoint,
	note string,
	requestedBy actor.Actor,
) (UpdateParcelStatusCommand, error) {
	command := UpdateParcelStatusCommand{
		note:  note,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setTrackingID(trackingID),
		command.setNext(next),
		command.setLocation(location),
		command.setRequestedBy(requestedBy),
	); err != nil {
		return UpdateParcelStatusCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateParcelStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateParcelStatusCommandIsNotConstructed)
}

// TrackingID returns the public identifier of the parcel.
func (c UpdateParcelStatusCommand) TrackingID() kernel.TrackingID {
	return c.trackingID
}

// Next returns the requested target status.
func (c UpdateParcelStatusCommand) Next() parcel.Status {
	return c.next
}

// Location returns where the change happened, if reported.
func (c UpdateParcelStatusCommand) Location() *kernel.GeoPoint {
	return c.location
}

// Note returns the free-form remark for the audit trail.
func (c UpdateParcelStatusCommand) Note() string {
	return c.note
}

// RequestedBy returns the actor performing the change.
func (c UpdateParcelStatusCommand) RequestedBy() actor.Actor {
	return c.requestedBy
}

func (c *UpdateParcelStatusCommand) setTrackingID(trackingID kernel.TrackingID) error {
	if err := trackingID.Validate(); err != nil {
		return err
	}

	c.trackingID = trackingID
	return nil
}

func (c *UpdateParcelStatusCommand) setNext(next parcel.Status) error {
	if err := next.Validate(); err != nil {
		return err
	}

	c.next = next
	return nil
}

func (c *UpdateParcelStatusCommand) setLocation(location *kernel.GeoPoint) error {
	if location != nil {
		if err := location.Validate(); err != nil {
			return err
		}
	}

	c.location = location
	return nil
}

func (c *UpdateParcelStatusCommand) setRequestedBy(requestedBy actor.Actor) error {
	if err := requestedBy.Validate(); err != nil {
		return err
	}

	c.requestedBy = requestedBy
	return nil
}
