package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/actor"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/guard"
)

var ErrAssignAgentCommandIsNotConstructed = errors.New(
	"AssignAgentCommand must be created via NewAssignAgentCommand constructor",
)

// AssignAgentCommand represents a request to put a delivery agent in charge
// of a parcel.
type AssignAgentCommand struct { //nolint:recvcheck //using for validation
	trackingID  kernel.TrackingID
	agentID     kernel.UUID
	requestedBy actor.Actor

	guard guard.ConstructorGuard
}

// NewAssignAgentCommand creates a command to assign an agent to a parcel.
func NewAssignAgentCommand(
	trackingID kernel.TrackingID,
	agentID kernel.UUID,
	requestedBy actor.Actor,
) (AssignAgentCommand, error) {
	command := AssignAgentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setTrackingID(trackingID),
		command.setAgentID(agentID),
		command.setRequestedBy(requestedBy),
	); err != nil {
		return AssignAgentCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignAgentCommand) Validate() error {
	return c.guard.Validate(ErrAssignAgentCommandIsNotConstructed)
}

// TrackingID returns the public identifier of the parcel.
func (c AssignAgentCommand) TrackingID() kernel.TrackingID {
	return c.trackingID
}

// AgentID returns the agent being put in charge.
func (c AssignAgentCommand) AgentID() kernel.UUID {
	return c.agentID
}

// RequestedBy returns the actor performing the assignment.
func (c AssignAgentCommand) RequestedBy() actor.Actor {
	return c.requestedBy
}

func (c *AssignAgentCommand) setTrackingID(trackingID kernel.TrackingID) error {
	if err := trackingID.Validate(); err != nil {
		return err
	}

	c.trackingID = trackingID
	return nil
}

func (c *AssignAgentCommand) setAgentID(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}

	c.agentID = agentID
	return nil
}

func (c *AssignAgentCommand) setRequestedBy(requestedBy actor.Actor) error {
	if err := requestedBy.Validate(); err != nil {
		return err
	}

	c.requestedBy = requestedBy
	return nil
}
