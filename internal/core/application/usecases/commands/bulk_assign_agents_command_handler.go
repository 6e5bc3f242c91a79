package commands

import (
	"context"
)

// BulkAssignmentResult reports the outcome of one assignment within a bulk
// request. A failed assignment carries the error text; the rest of the
// batch still proceeds.
type BulkAssignmentResult struct {
	TrackingID string `json:"trackingId"`
	Assigned   bool   `json:"assigned"`
	Error      string `json:"error,omitempty"`
}

// BulkAssignAgentsCommandHandler assigns agents to several parcels in one
// request. Each assignment runs through the single-parcel flow in its own
// transaction, so one bad tracking ID does not sink the batch.
type BulkAssignAgentsCommandHandler struct {
	assign AssignAgentCommandHandler
}

// NewBulkAssignAgentsCommandHandler creates a handler for bulk assignment
// operations on top of the single-parcel handler.
func NewBulkAssignAgentsCommandHandler(assign AssignAgentCommandHandler) BulkAssignAgentsCommandHandler {
	return BulkAssignAgentsCommandHandler{assign: assign}
}

// Handle processes every assignment in order and reports per-parcel
// outcomes. Only the authorization of the whole request fails the call;
// per-parcel problems land in the result list.
func (h *BulkAssignAgentsCommandHandler) Handle(
	ctx context.Context,
	cmd BulkAssignAgentsCommand,
) ([]BulkAssignmentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := h.assign.policy.CanAssign(cmd.RequestedBy()); err != nil {
		return nil, err
	}

	results := make([]BulkAssignmentResult, 0, len(cmd.Assignments()))
	for _, assignment := range cmd.Assignments() {
		result := BulkAssignmentResult{TrackingID: assignment.TrackingID().String()}

		single, err := NewAssignAgentCommand(assignment.TrackingID(), assignment.AgentID(), cmd.RequestedBy())
		if err == nil {
			err = h.assign.Handle(ctx, single)
		}

		if err != nil {
			result.Error = err.Error()
		} else {
			result.Assigned = true
		}
		results = append(results, result)
	}

	return results, nil
}
