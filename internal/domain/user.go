package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserID is a value object for user identity.
type UserID struct{ uuid.UUID }

// NewUserID creates a new UserID from uuid.
func NewUserID(id uuid.UUID) UserID { return UserID{UUID: id} }

// String returns the canonical string form.
func (u UserID) String() string { return u.UUID.String() }

// Role is the global role of a user. Project-level authority (ownership,
// membership) is tracked on the project, not here.
type Role string

const (
	RoleEmployee     Role = "EMPLOYEE"
	RoleProjectOwner Role = "PROJECT_OWNER"
	RoleAdmin        Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleProjectOwner, RoleAdmin:
		return true
	}
	return false
}

// Provider is an authentication provider linked to a user account.
type Provider string

const (
	ProviderLocal  Provider = "LOCAL"
	ProviderGoogle Provider = "GOOGLE"
	ProviderGithub Provider = "GITHUB"
)

// User is a registered account. PasswordHash is empty for accounts that only
// ever signed in through a federated provider.
type User struct {
	ID           UserID
	Username     string
	Email        string
	Name         string
	PasswordHash string
	Providers    []Provider
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user holds the global ADMIN role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
