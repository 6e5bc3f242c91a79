package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/actor"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/guard"
)

var ErrUpdateParcelLocationCommandIsNotConstructed = errors.New(
	"UpdateParcelLocationCommand must be created via NewUpdateParcelLocationCommand constructor",
)

// UpdateParcelLocationCommand represents a position report for a parcel in
// flight. The parcel's status does not change.
type UpdateParcelLocationCommand struct { //nolint:recvcheck //using for validation
	trackingID  kernel.TrackingID
	location    kernel.GeoPoint
	requestedBy actor.Actor

	guard guard.ConstructorGuard
}

// NewUpdateParcelLocationCommand creates a command to report a parcel's position.
func NewUpdateParcelLocationCommand(
	trackingID kernel.TrackingID,
	location kernel.GeoPoint,
	requestedBy actor.Actor,
) (UpdateParcelLocationCommand, error) {
	command := UpdateParcelLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setTrackingID(trackingID),
		command.setLocation(location),
		command.setRequestedBy(requestedBy),
	); err != nil {
		return UpdateParcelLocationCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateParcelLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateParcelLocationCommandIsNotConstructed)
}

// TrackingID returns the public identifier of the parcel.
func (c UpdateParcelLocationCommand) TrackingID() kernel.TrackingID {
	return c.trackingID
}

// Location returns the reported position.
func (c UpdateParcelLocationCommand) Location() kernel.GeoPoint {
	return c.location
}

// RequestedBy returns the actor reporting the position.
func (c UpdateParcelLocationCommand) RequestedBy() actor.Actor {
	return c.requestedBy
}

func (c *UpdateParcelLocationCommand) setTrackingID(trackingID kernel.TrackingID) error {
	if err := trackingID.Validate(); err != nil {
		return err
	}

	c.trackingID = trackingID
	return nil
}

func (c *UpdateParcelLocationCommand) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}

func (c *UpdateParcelLocationCommand) setRequestedBy(requestedBy actor.Actor) error {
	if err := requestedBy.Validate(); err != nil {
		return err
	}

	c.requestedBy = requestedBy
	return nil
}
