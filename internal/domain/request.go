package domain

import (
	"time"

	"github.com/google/uuid"
)

// RoleRequest is a pending role-change request. AuthorID is unique: a user
// has at most one outstanding request, enforced by the database constraint.
// The row is consumed by an admin approval/rejection or a requester cancel.
type RoleRequest struct {
	ID        uuid.UUID
	AuthorID  UserID
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
