package commands

import (
	"context"
	"time"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
	"parceltrack/internal/pkg/retry"
)

// BookParcelCommandHandler handles the business logic for parcel booking.
// Creates the parcel in Booked status, records the first audit entry and
// notifies subscribers once the booking has committed.
type BookParcelCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	policy     services.AccessPolicy
	aggregator services.HistoryAggregator
}

// NewBookParcelCommandHandler creates a handler for parcel booking operations.
func NewBookParcelCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) BookParcelCommandHandler {
	return BookParcelCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		policy:     services.NewAccessPolicy(),
		aggregator: services.NewHistoryAggregator(),
	}
}

// Handle processes the booking command. A fresh tracking identifier is
// generated for the parcel; the caller learns it via the returned tracking ID.
func (h *BookParcelCommandHandler) Handle(ctx context.Context, cmd BookParcelCommand) (kernel.TrackingID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.TrackingID{}, err
	}

	requestedBy := cmd.RequestedBy()
	if err := h.policy.CanBook(requestedBy); err != nil {
		return kernel.TrackingID{}, err
	}
	if requestedBy.IsCustomer() && !requestedBy.ID().IsEqual(cmd.CustomerID()) {
		return kernel.TrackingID{}, errs.NewNotAuthorizedError("book parcel for another customer")
	}

	trackingID := kernel.NewTrackingID()
	prcl, err := parcel.NewParcel(
		cmd.ParcelID(),
		trackingID,
		cmd.CustomerID(),
		cmd.PickupAddress(),
		cmd.DeliveryAddress(),
		cmd.Type(),
		cmd.Size(),
		cmd.IsCOD(),
		cmd.CODAmount(),
	)
	if err != nil {
		return kernel.TrackingID{}, err
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

		if err := uow.ParcelRepository().Add(ctx, prcl); err != nil {
			return err
		}

		event, err = recordMutation(ctx, uow, h.aggregator,
			prcl, parcel.Booked, nil, requestedBy.ID(), "parcel booked", time.Now().UTC())
		if err != nil {
			return err
		}

		return uow.Commit(ctx)
	})
	if err != nil {
		return kernel.TrackingID{}, err
	}

	h.publisher.Publish(event)
	return trackingID, nil
}
