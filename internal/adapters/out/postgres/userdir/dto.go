// Package userdir resolves user identities to roles from the users table.
// The table is owned by the identity service; this adapter only reads it.
package userdir

import (
	"time"

	"github.com/google/uuid"
)

// UserDTO represents the database structure for registered users.
type UserDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string
	Email     string `gorm:"type:varchar(255);uniqueIndex"`
	Role      string `gorm:"type:varchar(16)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for users.
func (UserDTO) TableName() string {
	return "users"
}
