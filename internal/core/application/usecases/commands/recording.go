package commands

import (
	"context"
	"time"

	"parceltrack/internal/core/domain/model/history"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"
)

// recordMutation appends an audit entry for the mutation that just happened
// and reads back the parcel's full timeline within the same transaction.
// The returned event must only be published after the transaction commits.
func recordMutation(
	ctx context.Context,
	uow UoW,
	aggregator services.HistoryAggregator,
	prcl *parcel.Parcel,
	status parcel.Status,
	location *kernel.GeoPoint,
	actorID kernel.UUID,
	note string,
	at time.Time,
) (ports.ParcelEvent, error) {
	entry, err := history.NewEntry(prcl.ID(), status, location, actorID, note, at)
	if err != nil {
		return ports.ParcelEvent{}, err
	}

	if _, err = uow.HistoryRepository().Append(ctx, entry); err != nil {
		return ports.ParcelEvent{}, err
	}

	entries, err := uow.HistoryRepository().GetAllForParcel(ctx, prcl.ID())
	if err != nil {
		return ports.ParcelEvent{}, err
	}

	return ports.ParcelEvent{
		ParcelID:   prcl.ID(),
		TrackingID: prcl.TrackingID(),
		CustomerID: prcl.Customer(),
		AgentID:    prcl.Agent(),
		History:    aggregator.Sort(entries),
	}, nil
}
