package commands

import (
	"context"
	"time"

	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/retry"
)

// UpdateParcelStatusCommandHandler handles parcel lifecycle progression.
// The transition table of the parcel aggregate decides which moves are legal;
// the handler contributes locking, authorization, auditing and fan-out.
type UpdateParcelStatusCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	policy     services.AccessPolicy
	aggregator services.HistoryAggregator
}

// NewUpdateParcelStatusCommandHandler creates a handler for status change operations.
func NewUpdateParcelStatusCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) UpdateParcelStatusCommandHandler {
	return UpdateParcelStatusCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		policy:     services.NewAccessPolicy(),
		aggregator: services.NewHistoryAggregator(),
	}
}

// Handle processes the status change command. The parcel row is locked for
// the duration of the transaction so concurrent mutations serialize, and the
// audit entry commits atomically with the new state.
func (h *UpdateParcelStatusCommandHandler) Handle(ctx context.Context, cmd UpdateParcelStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var event ports.ParcelEvent
	err := retry.Do(ctx, retry.DefaultAttempts, retry.DefaultBaseDelay, func(ctx context.Context) error {
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

		if err = h.policy.CanUpdate(cmd.RequestedBy(), prcl); err != nil {
			return err
		}

		now := time.Now().UTC()
		if err = prcl.ChangeStatus(cmd.Next(), cmd.Location(), now); err != nil {
			return err
		}

		if err = uow.ParcelRepository().Update(ctx, prcl); err != nil {
			return err
		}

		event, err = recordMutation(ctx, uow, h.aggregator,
			prcl, cmd.Next(), cmd.Location(), cmd.RequestedBy().ID(), cmd.Note(), now)
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
