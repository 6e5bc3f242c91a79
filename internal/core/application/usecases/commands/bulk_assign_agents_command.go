package commands

import (
	"errors"

	"parceltrack/internal/core/domain/model/actor"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/guard"
)

var ErrBulkAssignAgentsCommandIsNotConstructed = errors.New(
	"BulkAssignAgentsCommand must be created via NewBulkAssignAgentsCommand constructor",
)

// AgentAssignment pairs a parcel with the agent to put in charge of it.
type AgentAssignment struct {
	trackingID kernel.TrackingID
	agentID    kernel.UUID
}

// NewAgentAssignment creates a single assignment within a bulk request.
func NewAgentAssignment(trackingID kernel.TrackingID, agentID kernel.UUID) (AgentAssignment, error) {
	if err := trackingID.Validate(); err != nil {
		return AgentAssignment{}, err
	}
	if err := agentID.Validate(); err != nil {
		return AgentAssignment{}, err
	}

	return AgentAssignment{trackingID: trackingID, agentID: agentID}, nil
}

// TrackingID returns the public identifier of the parcel.
func (a AgentAssignment) TrackingID() kernel.TrackingID {
	return a.trackingID
}

// AgentID returns the agent being put in charge.
func (a AgentAssignment) AgentID() kernel.UUID {
	return a.agentID
}

// BulkAssignAgentsCommand represents a request to assign agents to several
// parcels at once.
type BulkAssignAgentsCommand struct { //nolint:recvcheck //using for validation
	assignments []AgentAssignment
	requestedBy actor.Actor

	guard guard.ConstructorGuard
}

// NewBulkAssignAgentsCommand creates a command covering one or more
// assignments.
func NewBulkAssignAgentsCommand(
	assignments []AgentAssignment,
	requestedBy actor.Actor,
) (BulkAssignAgentsCommand, error) {
	command := BulkAssignAgentsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setAssignments(assignments),
		command.setRequestedBy(requestedBy),
	); err != nil {
		return BulkAssignAgentsCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c BulkAssignAgentsCommand) Validate() error {
	return c.guard.Validate(ErrBulkAssignAgentsCommandIsNotConstructed)
}

// Assignments returns the requested parcel-to-agent pairs.
func (c BulkAssignAgentsCommand) Assignments() []AgentAssignment {
	return c.assignments
}

// RequestedBy returns the actor performing the assignments.
func (c BulkAssignAgentsCommand) RequestedBy() actor.Actor {
	return c.requestedBy
}

func (c *BulkAssignAgentsCommand) setAssignments(assignments []AgentAssignment) error {
	if len(assignments) == 0 {
		return errs.NewValueIsRequiredError("assignments")
	}

	c.assignments = append([]AgentAssignment(nil), assignments...)
	return nil
}

func (c *BulkAssignAgentsCommand) setRequestedBy(requestedBy actor.Actor) error {
	if err := requestedBy.Validate(); err != nil {
		return err
	}

	c.requestedBy = requestedBy
	return nil
}
