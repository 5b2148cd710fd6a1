package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
)

// Lookup methods return (nil, nil) when the row is absent; use cases map
// that to a NotFound sentinel.

// UserRepository defines persistence for user accounts. Username and email
// carry unique constraints; Create surfaces a violation as ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateRole(ctx context.Context, id domain.UserID, role domain.Role) error
	Delete(ctx context.Context, id domain.UserID) error
}

// ProjectRepository defines persistence for projects and their member lists.
// (name, created_by) is unique; Create surfaces a violation as
// ErrProjectExists, AddMember surfaces a duplicate as ErrAlreadyMember.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error)
	GetByName(ctx context.Context, owner domain.UserID, name string) (*domain.Project, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Project, error)
	ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id domain.ProjectID) error

	AddMember(ctx context.Context, projectID domain.ProjectID, userID domain.UserID) error
	RemoveMember(ctx context.Context, projectID domain.ProjectID, userID domain.UserID) error
	// TransferOwnership reassigns created_by and ensures the new owner is a
	// member, in a single transaction.
	TransferOwnership(ctx context.Context, projectID domain.ProjectID, newOwner domain.UserID) error
	// ReassignOwned moves every project owned by from to to. Used when an
	// admin deletes a user who still owns projects.
	ReassignOwned(ctx context.Context, from, to domain.UserID) error
	CountOwnedBy(ctx context.Context, userID domain.UserID) (int, error)
	// NextTicketNumber atomically increments and returns the per-project
	// ticket counter.
	NextTicketNumber(ctx context.Context, projectID domain.ProjectID) (int, error)
}

// TicketRepository defines persistence for tickets and their assignee sets.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id domain.TicketID) (*domain.Ticket, error)
	ListByProject(ctx context.Context, projectID domain.ProjectID, limit, offset int) ([]*domain.Ticket, error)
	Update(ctx context.Context, ticket *domain.Ticket) error
	// Delete removes the ticket; assignees, comments and attachment rows
	// cascade in the store.
	Delete(ctx context.Context, id domain.TicketID) error

	AddAssignee(ctx context.Context, ticketID domain.TicketID, userID domain.UserID) error
	RemoveAssignee(ctx context.Context, ticketID domain.TicketID, userID domain.UserID) error
	SetStatus(ctx context.Context, ticketID domain.TicketID, status domain.Status) error
}

// CommentRepository defines persistence for ticket comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	ListByTicket(ctx context.Context, ticketID domain.TicketID, limit, offset int) ([]*domain.Comment, error)
	ListByAuthor(ctx context.Context, authorID domain.UserID, limit, offset int) ([]*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RequestRepository defines persistence for role change requests. author_id
// is unique; Create surfaces a violation as ErrRequestPending.
type RequestRepository interface {
	Create(ctx context.Context, request *domain.RoleRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.RoleRequest, error)
	GetByAuthor(ctx context.Context, authorID domain.UserID) (*domain.RoleRequest, error)
	List(ctx context.Context, limit, offset int) ([]*domain.RoleRequest, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ActivityRepository persists the audit trail. Writes here are not optional;
// a failure aborts the enclosing operation's notification step.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) error
	ListByTicket(ctx context.Context, ticketID domain.TicketID, limit, offset int) ([]*domain.Activity, error)
	ListByProject(ctx context.Context, projectID domain.ProjectID, limit, offset int) ([]*domain.Activity, error)
}

// AttachmentRepository persists file attachment metadata. The object bytes
// live in object storage under Attachment.StorageKey.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.Attachment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error)
	GetByFilename(ctx context.Context, ticketID domain.TicketID, filename string) (*domain.Attachment, error)
	ListByTicket(ctx context.Context, ticketID domain.TicketID) ([]*domain.Attachment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
