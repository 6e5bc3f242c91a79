package commands

import (
	"context"
	"time"

	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/retry"
)

// UpdateParcelLocationCommandHandler handles position reports from delivery
// agents. The audit entry records the parcel's current status alongside the
// new coordinates.
type UpdateParcelLocationCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	policy     services.AccessPolicy
	aggregator services.HistoryAggregator
}

// NewUpdateParcelLocationCommandHandler creates a handler for location report operations.
func NewUpdateParcelLocationCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) UpdateParcelLocationCommandHandler {
	return UpdateParcelLocationCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		policy:     services.NewAccessPolicy(),
		aggregator: services.NewHistoryAggregator(),
	}
}

// Handle processes the position report.
func (h *UpdateParcelLocationCommandHandler) Handle(ctx context.Context, cmd UpdateParcelLocationCommand) error {
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
		location := cmd.Location()
		if err = prcl.UpdateLocation(location, now); err != nil {
			return err
		}

		if err = uow.ParcelRepository().Update(ctx, prcl); err != nil {
			return err
		}

		event, err = recordMutation(ctx, uow, h.aggregator,
			prcl, prcl.Status(), &location, cmd.RequestedBy().ID(), "location updated", now)
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
