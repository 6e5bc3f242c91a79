package services

import (
	"sort"

	"parceltrack/internal/core/domain/model/history"
)

// HistoryAggregator assembles the canonical timeline of a parcel.
//
// Every consumer of parcel history (the tracking API, the history API,
// the realtime fan-out) goes through this service so that all of them
// observe the same ordering: ascending by creation time, with the
// store-assigned sequence breaking ties between entries recorded in
// the same instant.
type HistoryAggregator struct{}

// NewHistoryAggregator creates a new HistoryAggregator instance.
func NewHistoryAggregator() HistoryAggregator {
	return HistoryAggregator{}
}

// Sort returns the entries in timeline order, oldest first.
// The input slice is not modified.
func (h HistoryAggregator) Sort(entries []history.Entry) []history.Entry {
	sorted := make([]history.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt().Equal(sorted[j].CreatedAt()) {
			return sorted[i].Sequence() < sorted[j].Sequence()
		}
		return sorted[i].CreatedAt().Before(sorted[j].CreatedAt())
	})
	return sorted
}

// Latest returns the most recent entry of the timeline, or false when
// the timeline is empty.
func (h HistoryAggregator) Latest(entries []history.Entry) (history.Entry, bool) {
	if len(entries) == 0 {
		return history.Entry{}, false
	}
	sorted := h.Sort(entries)
	return sorted[len(sorted)-1], true
}
