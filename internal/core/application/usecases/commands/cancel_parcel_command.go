package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/actor"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var ErrCancelParcelCommandIsNotConstructed = errors.New(
	"CancelParcelCommand must be created via NewCancelParcelCommand constructor",
)

// CancelParcelCommand represents a request to call off a delivery.
// The reason is mandatory and ends up in the audit trail.
type CancelParcelCommand struct { //nolint:recvcheck //using for validation
	trackingID  kernel.TrackingID
	reason      string
	requestedBy actor.Actor

	guard guard.ConstructorGuard
}

// NewCancelParcelCommand creates a command to cancel a parcel.
func NewCancelParcelCommand(
	trackingID kernel.TrackingID,
	reason string,
	requestedBy actor.Actor,
) (CancelParcelCommand, error) {
	command := CancelParcelCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setTrackingID(trackingID),
		command.setReason(reason),
		command.setRequestedBy(requestedBy),
	); err != nil {
		return CancelParcelCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelParcelCommand) Validate() error {
	return c.guard.Validate(ErrCancelParcelCommandIsNotConstructed)
}

// TrackingID returns the public identifier of the parcel.
func (c CancelParcelCommand) TrackingID() kernel.TrackingID {
	return c.trackingID
}

// Reason returns why the delivery is being called off.
func (c CancelParcelCommand) Reason() string {
	return c.reason
}

// RequestedBy returns the actor cancelling the parcel.
func (c CancelParcelCommand) RequestedBy() actor.Actor {
	return c.requestedBy
}

func (c *CancelParcelCommand) setTrackingID(trackingID kernel.TrackingID) error {
	if err := trackingID.Validate(); err != nil {
		return err
	}

	c.trackingID = trackingID
	return nil
}

func (c *CancelParcelCommand) setReason(reason string) error {
	if len(reason) < parcel.CancellationReasonMinLen || len(reason) > parcel.CancellationReasonMaxLen {
		return errs.NewValueIsOutOfRangeError("reason", len(reason),
			parcel.CancellationReasonMinLen, parcel.CancellationReasonMaxLen)
	}

	c.reason = reason
	return nil
}

func (c *CancelParcelCommand) setRequestedBy(requestedBy actor.Actor) error {
	if err := requestedBy.Validate(); err != nil {
		return err
	}

	c.requestedBy = requestedBy
	return nil
}
