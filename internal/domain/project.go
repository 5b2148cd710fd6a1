package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProjectID is a value object for project identity.
type ProjectID struct{ uuid.UUID }

// NewProjectID creates a new ProjectID from uuid.
func NewProjectID(id uuid.UUID) ProjectID { return ProjectID{UUID: id} }

// String returns the canonical string form.
func (p ProjectID) String() string { return p.UUID.String() }

// Project is a collection of tickets with a member list. The creator is the
// owner and is always a member; (Name, CreatedByID) is unique, so two users
// can own projects with the same name.
type Project struct {
	ID          ProjectID
	Name        string
	Description string
	CreatedByID UserID
	MemberIDs   []UserID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOwner reports whether id is the project's current owner.
func (p *Project) IsOwner(id UserID) bool { return p.CreatedByID == id }

// IsMember reports whether id appears in the member list.
func (p *Project) IsMember(id UserID) bool {
	for _, m := range p.MemberIDs {
		if m == id {
			return true
		}
	}
	return false
}
