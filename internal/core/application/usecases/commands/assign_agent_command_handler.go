package commands

import (
	"context"
	"fmt"
	"time"

	"parceltrack/internal/core/domain/model/actor"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/retry"
)

// AssignAgentCommandHandler handles putting a delivery agent in charge of a
// parcel. Only admins assign; the target identity must be registered as an
// agent in the user directory.
type AssignAgentCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	users      ports.UserDirectory
	policy     services.AccessPolicy
	aggregator services.HistoryAggregator
}

// NewAssignAgentCommandHandler creates a handler for agent assignment operations.
func NewAssignAgentCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	users ports.UserDirectory,
) AssignAgentCommandHandler {
	return AssignAgentCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		users:      users,
		policy:     services.NewAccessPolicy(),
		aggregator: services.NewHistoryAggregator(),
	}
}

// Handle processes the assignment command. The parcel row is locked for the
// duration of the transaction so concurrent mutations serialize.
func (h *AssignAgentCommandHandler) Handle(ctx context.Context, cmd AssignAgentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := h.policy.CanAssign(cmd.RequestedBy()); err != nil {
		return err
	}

	role, err := h.users.GetRole(ctx, cmd.AgentID())
	if err != nil {
		return err
	}
	if role != actor.RoleAgent {
		return errs.NewValueIsInvalidError("agentID")
	}

	var event ports.ParcelEvent
	err = retry.Do(ctx, retry.DefaultAttempts, retry.DefaultBaseDelay, func(ctx context.Context) error {
		uow := h.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		defer func() {
			_ = uow.Rollback(ctx)
		}()

		prcl, err := uow.ParcelRepository().GetByTrackingIDForUpdate(ctx, cmd.TrackingID())
		if err != nil {
			return err
		}

		if err = prcl.AssignAgent(cmd.AgentID()); err != nil {
			return err
		}

		if err = uow.ParcelRepository().Update(ctx, prcl); err != nil {
			return err
		}

		note := fmt.Sprintf("agent %s assigned", cmd.AgentID())
		event, err = recordMutation(ctx, uow, h.aggregator,
			prcl, parcel.Assigned, nil, cmd.RequestedBy().ID(), note, time.Now().UTC())
		if err != nil {
			return err
		}

		return uow.Commit(ctx)
	})
	if err != nil {
		return err
	}

	h.publisher.Publish(event)
	return nil
}
