package ports

import (
	"parceltrack/internal/core/domain/model/history"
	"parceltrack/internal/core/domain/model/kernel"
)

// ParcelEvent is the fan-out payload emitted after a parcel mutation
// commits. It carries the full timeline so every recipient sees the
// complete audit trail, not just the delta.
type ParcelEvent struct {
	ParcelID   kernel.UUID
	TrackingID kernel.TrackingID
	CustomerID kernel.UUID
	AgentID    *kernel.UUID
	// History is the parcel's timeline in canonical order, oldest first.
	History []history.Entry
}

// LastSequence returns the sequence number of the newest timeline entry,
// or zero for an empty timeline. Publishers use it to discard stale
// events that arrive out of commit order.
func (e ParcelEvent) LastSequence() uint64 {
	if len(e.History) == 0 {
		return 0
	}
	return e.History[len(e.History)-1].Sequence()
}

// EventPublisher delivers parcel events to interested subscribers.
// Publishing is fire-and-forget: it happens after the mutation has
// committed and must never fail the command that produced the event.
type EventPublisher interface {
	Publish(event ParcelEvent)
}
