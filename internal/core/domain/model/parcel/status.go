package parcel

import (
	"fmt"

	"parceltrack/internal/pkg/errs"
)

// Status represents the lifecycle state of a parcel.
// It implements a state machine with a closed transition table so that a
// parcel can only follow the legal delivery workflow.
//
// State transitions:
//
//	Booked ──> Assigned ──> PickedUp ──> InTransit ──> OutForDelivery ──> Delivered
//	              │(reassignment           │                │
//	              └────────┐               └──> Delivered   │
//	                       ▼                                ▼
//	          Cancelled / Failed reachable from every non-terminal state
//
// Delivered, Failed and Cancelled are terminal: no further transition is
// permitted once one of them is reached.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Booked is the initial status when a pickup is first booked.
	Booked

	// Assigned indicates an agent has been assigned to the parcel.
	Assigned

	// PickedUp indicates the agent has collected the parcel.
	PickedUp

	// InTransit indicates the parcel is moving through the network.
	InTransit

	// OutForDelivery indicates the parcel is on its final leg.
	OutForDelivery

	// Delivered indicates successful delivery. Terminal.
	Delivered

	// Failed indicates the delivery could not be completed. Terminal.
	Failed

	// Cancelled indicates the booking was cancelled. Terminal.
	Cancelled
)

// getStatusStrings returns the wire representation of every Status value.
// The strings match the identifiers shared with clients and stored in history.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Booked:         "booked",
		Assigned:       "assigned",
		PickedUp:       "picked-up",
		InTransit:      "in-transit",
		OutForDelivery: "out-for-delivery",
		Delivered:      "delivered",
		Failed:         "failed",
		Cancelled:      "cancelled",
	}
}

// getValidStatusStrings returns only valid Status values, excluding Unknown.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Booked:         "booked",
		Assigned:       "assigned",
		PickedUp:       "picked-up",
		InTransit:      "in-transit",
		OutForDelivery: "out-for-delivery",
		Delivered:      "delivered",
		Failed:         "failed",
		Cancelled:      "cancelled",
	}
}

// legalTransitions is the closed transition table. A status missing from the
// map (the terminal ones) permits no outgoing transition.
func legalTransitions() map[Status][]Status {
	return map[Status][]Status{
		Booked:         {Assigned, Cancelled, Failed},
		Assigned:       {Assigned, PickedUp, Cancelled, Failed},
		PickedUp:       {InTransit, OutForDelivery, Delivered, Cancelled, Failed},
		InTransit:      {OutForDelivery, Delivered, Cancelled, Failed},
		OutForDelivery: {Delivered, Failed, Cancelled},
	}
}

// StatusFromString parses a wire status value ("picked-up", "delivered", ...).
// Returns a ValueIsInvalidError for anything outside the closed enum.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is a member of the closed enum.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire representation of the status.
// Implements fmt.Stringer; safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Failed || s == Cancelled
}

// RequiresAgent reports whether a parcel must have an assigned agent before
// entering this status. Every status past Assigned implies an agent is
// carrying the parcel.
func (s Status) RequiresAgent() bool {
	switch s {
	case Assigned, PickedUp, InTransit, OutForDelivery, Delivered:
		return true
	default:
		return false
	}
}

// ValidateTransition checks whether the status may move to next according to
// the transition table.
//
// Returns:
//   - nil if the transition is legal
//   - ValueIsInvalidError if next is not a valid status, if s is terminal,
//     or if next is not reachable from s
func (s Status) ValidateTransition(next Status) error {
	if err := next.Validate(); err != nil {
		return err
	}

	if s.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is terminal, no further transition permitted", s),
		)
	}

	for _, allowed := range legalTransitions()[s] {
		if allowed == next {
			return nil
		}
	}

	return errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("cannot move from %s to %s", s, next),
	)
}
