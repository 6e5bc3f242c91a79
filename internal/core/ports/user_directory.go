package ports

import (
	"context"

	"parceltrack/internal/core/domain/model/actor"
	"parceltrack/internal/core/domain/model/kernel"
)

// UserDirectory resolves identities to their roles. Parcel assignment
// uses it to make sure the target of an assignment really is an agent.
type UserDirectory interface {
	// GetRole returns the role registered for the given user.
	// Returns an object-not-found error when the user does not exist.
	GetRole(ctx context.Context, userID kernel.UUID) (actor.Role, error)
}
