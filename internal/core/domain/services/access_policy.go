package services

import (
	"parceltrack/internal/core/domain/model/actor"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/errs"
)

// AccessPolicy decides whether an actor may perform an operation on a parcel.
//
// Rules:
//   - Admins may do everything.
//   - Customers may book parcels and cancel or view their own.
//   - Agents may update, cancel and view parcels assigned to them.
type AccessPolicy struct{}

// NewAccessPolicy creates a new AccessPolicy instance.
func NewAccessPolicy() AccessPolicy {
	return AccessPolicy{}
}

// CanBook reports whether the actor may create new parcels.
func (p AccessPolicy) CanBook(a actor.Actor) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.IsCustomer() || a.IsAdmin() {
		return nil
	}
	return errs.NewNotAuthorizedError("book parcel")
}

// CanAssign reports whether the actor may assign agents to parcels.
func (p AccessPolicy) CanAssign(a actor.Actor) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.IsAdmin() {
		return nil
	}
	return errs.NewNotAuthorizedError("assign agent")
}

// CanUpdate reports whether the actor may change the parcel's status
// or location. Only the assigned agent and admins qualify.
func (p AccessPolicy) CanUpdate(a actor.Actor, prcl *parcel.Parcel) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.IsAdmin() {
		return nil
	}
	if a.IsAgent() && isAssignedAgent(a, prcl) {
		return nil
	}
	return errs.NewNotAuthorizedError("update parcel")
}

// CanCancel reports whether the actor may cancel the parcel.
func (p AccessPolicy) CanCancel(a actor.Actor, prcl *parcel.Parcel) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.IsAdmin() {
		return nil
	}
	if a.IsCustomer() && isOwner(a, prcl) {
		return nil
	}
	if a.IsAgent() && isAssignedAgent(a, prcl) {
		return nil
	}
	return errs.NewNotAuthorizedError("cancel parcel")
}

// CanView reports whether the actor may read the parcel and its history.
func (p AccessPolicy) CanView(a actor.Actor, prcl *parcel.Parcel) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.IsAdmin() {
		return nil
	}
	if a.IsCustomer() && isOwner(a, prcl) {
		return nil
	}
	if a.IsAgent() && isAssignedAgent(a, prcl) {
		return nil
	}
	return errs.NewNotAuthorizedError("view parcel")
}

func isOwner(a actor.Actor, prcl *parcel.Parcel) bool {
	return prcl.Customer().IsEqual(a.ID())
}

func isAssignedAgent(a actor.Actor, prcl *parcel.Parcel) bool {
	agentID := prcl.Agent()
	return agentID != nil && agentID.IsEqual(a.ID())
}
