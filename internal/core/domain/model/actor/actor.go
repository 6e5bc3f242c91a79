package actor

import (
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

// Role identifies what a caller is allowed to do with parcels.
type Role int

const (
	RoleUnknown Role = iota
	RoleCustomer
	RoleAgent
	RoleAdmin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:  "unknown",
		RoleCustomer: "customer",
		RoleAgent:    "agent",
		RoleAdmin:    "admin",
	}
}

func getValidRoleStrings() map[string]Role {
	return map[string]Role{
		"customer": RoleCustomer,
		"agent":    RoleAgent,
		"admin":    RoleAdmin,
	}
}

// RoleFromString parses the wire representation of a role.
func RoleFromString(value string) (Role, error) {
	role, ok := getValidRoleStrings()[value]
	if !ok {
		return RoleUnknown, errs.NewValueIsInvalidError("role")
	}
	return role, nil
}

func (r Role) String() string {
	return getRoleStrings()[r]
}

func (r Role) Validate() error {
	if _, ok := getRoleStrings()[r]; !ok || r == RoleUnknown {
		return errs.NewValueIsInvalidError("role")
	}
	return nil
}

// Actor is the authenticated principal on whose behalf an operation runs.
type Actor struct {
	id   kernel.UUID
	role Role
}

var ErrActorIsNotConstructed = errs.NewValueIsRequiredError("actor")

// NewActor creates an Actor from an authenticated identity.
func NewActor(id kernel.UUID, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role}, nil
}

func (a Actor) ID() kernel.UUID {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) IsAdmin() bool {
	return a.role == RoleAdmin
}

func (a Actor) IsAgent() bool {
	return a.role == RoleAgent
}

func (a Actor) IsCustomer() bool {
	return a.role == RoleCustomer
}

func (a Actor) Validate() error {
	if err := a.id.Validate(); err != nil {
		return ErrActorIsNotConstructed
	}
	return a.role.Validate()
}
