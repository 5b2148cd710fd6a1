package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType categorizes audit trail entries.
type ActivityType string

const (
	ActivityTicketCreated     ActivityType = "TICKET_CREATED"
	ActivityTicketEdited      ActivityType = "TICKET_EDITED"
	ActivityTicketDeleted     ActivityType = "TICKET_DELETED"
	ActivityAssigned          ActivityType = "ASSIGNED"
	ActivityUnassigned        ActivityType = "UNASSIGNED"
	ActivityCommented         ActivityType = "COMMENTED"
	ActivityMemberAdded       ActivityType = "MEMBER_ADDED"
	ActivityMemberRemoved     ActivityType = "MEMBER_REMOVED"
	ActivityMemberLeft        ActivityType = "MEMBER_LEFT"
	ActivityOwnershipTransfer ActivityType = "OWNERSHIP_TRANSFERRED"
	ActivityRoleApproved      ActivityType = "ROLE_APPROVED"
	ActivityRoleRejected      ActivityType = "ROLE_REJECTED"
	ActivityFileUploaded      ActivityType = "FILE_UPLOADED"
	ActivityFileDeleted       ActivityType = "FILE_DELETED"
)

// Activity is a durable audit trail entry for a state-changing action.
// Exactly one of TicketID/ProjectID is set depending on the subject.
type Activity struct {
	ID        uuid.UUID
	Type      ActivityType
	Text      string
	AuthorID  UserID
	TicketID  *TicketID
	ProjectID *ProjectID
	CreatedAt time.Time
}
