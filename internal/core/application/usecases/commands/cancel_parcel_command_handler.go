package commands

import (
	"context"
	"time"

	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/retry"
)

// CancelParcelCommandHandler handles calling off deliveries. Owners, assigned
// agents and admins may cancel; delivered parcels stay delivered.
type CancelParcelCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	policy     services.AccessPolicy
	aggregator services.HistoryAggregator
}

// NewCancelParcelCommandHandler creates a handler for cancellation operations.
func NewCancelParcelCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) CancelParcelCommandHandler {
	return CancelParcelCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		policy:     services.NewAccessPolicy(),
		aggregator: services.NewHistoryAggregator(),
	}
}

// Handle processes the cancellation command.
func (h *CancelParcelCommandHandler) Handle(ctx context.Context, cmd CancelParcelCommand) error {
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

		if err = h.policy.CanCancel(cmd.RequestedBy(), prcl); err != nil {
			return err
		}

		now := time.Now().UTC()
		if err = prcl.Cancel(cmd.Reason(), cmd.RequestedBy().ID(), now); err != nil {
			return err
		}

		if err = uow.ParcelRepository().Update(ctx, prcl); err != nil {
			return err
		}

		event, err = recordMutation(ctx, uow, h.aggregator,
			prcl, parcel.Cancelled, nil, cmd.RequestedBy().ID(), cmd.Reason(), now)
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
