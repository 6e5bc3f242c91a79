// Package services provides domain services that operate across aggregates
// of the parcel tracking system.
//
// The package includes:
//   - HistoryAggregator: the single source of truth for timeline ordering
//   - AccessPolicy: role-based authorization rules for parcel operations
package services
