// Package kernel provides core domain primitives for the parcel tracking
// system. It implements fundamental building blocks following Domain-Driven
// Design principles that are used throughout the domain model.
//
// The package includes:
//   - UUID: A value object for unique identifiers with validation and comparison capabilities
//   - TrackingID: The externally shareable parcel identifier, immutable after creation
//   - GeoPoint: A validated latitude/longitude pair used for pickup, delivery and live locations
//
// These primitives enforce domain invariants and validation rules, ensuring
// that domain objects are always in a valid state. They are designed to be
// immutable and thread-safe, making them suitable for concurrent use.
package kernel
