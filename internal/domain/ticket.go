package domain

import (
	"time"

	"github.com/google/uuid"
)

// TicketID is a value object for ticket identity.
type TicketID struct{ uuid.UUID }

// NewTicketID creates a new TicketID from uuid.
func NewTicketID(id uuid.UUID) TicketID { return TicketID{UUID: id} }

// String returns the canonical string form.
func (t TicketID) String() string { return t.UUID.String() }

// Priority of a ticket, set by the reporter and editable by members.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status of a ticket. OPEN -> ASSIGNED is the only system-driven transition:
// it fires when the assignee set goes from empty to non-empty. The remaining
// statuses are set directly through ticket edits.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusAssigned   Status = "ASSIGNED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
	StatusClosed     Status = "CLOSED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusAssigned, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Ticket belongs to exactly one project. Number is sequential per project,
// allocated from an atomic counter at creation.
type Ticket struct {
	ID           TicketID
	ProjectID    ProjectID
	Number       int
	Name         string
	Description  string
	Priority     Priority
	Status       Status
	ReportedByID UserID
	AssigneeIDs  []UserID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAssignee reports whether id is currently assigned to the ticket.
func (t *Ticket) IsAssignee(id UserID) bool {
	for _, a := range t.AssigneeIDs {
		if a == id {
			return true
		}
	}
	return false
}

// Attachment is the metadata row for a file stored in object storage. The
// object itself lives under StorageKey in the attachments bucket.
type Attachment struct {
	ID          uuid.UUID
	TicketID    TicketID
	Filename    string
	ContentType string
	Size        int64
	StorageKey  string
	UploadedBy  UserID
	CreatedAt   time.Time
}
