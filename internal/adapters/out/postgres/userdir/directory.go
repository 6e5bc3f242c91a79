package userdir

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"parceltrack/internal/core/domain/model/actor"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

// GormUserDirectory implements UserDirectory using GORM.
type GormUserDirectory struct {
	db *gorm.DB
}

// NewGormUserDirectory creates a new GORM user directory.
func NewGormUserDirectory(db *gorm.DB) *GormUserDirectory {
	return &GormUserDirectory{db: db}
}

// GetRole returns the role registered for the given user.
func (d *GormUserDirectory) GetRole(ctx context.Context, userID kernel.UUID) (actor.Role, error) {
	if err := userID.Validate(); err != nil {
		return actor.RoleUnknown, err
	}

	var dto UserDTO
	err := d.db.WithContext(ctx).Select("id", "role").First(&dto, "id = ?", userID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return actor.RoleUnknown, errs.NewObjectNotFoundError("userID", userID.String())
		}
		return actor.RoleUnknown, err
	}

	return actor.RoleFromString(dto.Role)
}
