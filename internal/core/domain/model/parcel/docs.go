// Package parcel implements the Parcel aggregate and its lifecycle state
// machine.
//
// A parcel moves through the delivery lifecycle booked → assigned →
// picked-up → in-transit → out-for-delivery → delivered, with failed and
// cancelled reachable from every non-terminal state. The Status type owns
// the closed transition table; the Parcel aggregate enforces the agent
// invariant and stamps lifecycle timestamps exactly once.
//
// Every mutation of a parcel is paired with an immutable history entry (see
// the history package); the aggregate itself carries only the current
// snapshot.
package parcel
