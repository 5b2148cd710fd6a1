package ticket

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/activity"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

type DeleteInput struct {
	Acting   *domain.User
	TicketID domain.TicketID
}

type Delete struct {
	tickets     ports.TicketRepository
	projects    ports.ProjectRepository
	attachments ports.AttachmentRepository
	storage     ports.ObjectStorage
	dispatcher  *activity.Dispatcher
	log         zerolog.Logger
}

func NewDelete(tickets ports.TicketRepository, projects ports.ProjectRepository, attachments ports.AttachmentRepository, storage ports.ObjectStorage, dispatcher *activity.Dispatcher, log zerolog.Logger) *Delete {
	return &Delete{tickets: tickets, projects: projects, attachments: attachments, storage: storage, dispatcher: dispatcher, log: log}
}

// Execute deletes a ticket. Only the project owner or a global ADMIN may do
// this; ordinary members edit or close instead. Assignees, comments and
// attachment rows cascade in the store; the audit trail entry is recorded
// against the project so it survives the ticket.
func (uc *Delete) Execute(ctx context.Context, input DeleteInput) error {
	ticket, err := uc.tickets.GetByID(ctx, input.TicketID)
	if err != nil {
		return domerrors.ErrDependency
	}
	if ticket == nil {
		return domerrors.ErrTicketNotFound
	}
	project, err := uc.projects.GetByID(ctx, ticket.ProjectID)
	if err != nil {
		return domerrors.ErrDependency
	}
	if project == nil {
		return domerrors.ErrProjectNotFound
	}
	if !project.IsOwner(input.Acting.ID) && !input.Acting.IsAdmin() {
		return domerrors.ErrNotOwner
	}
	attachments, err := uc.attachments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return domerrors.ErrDependency
	}
	if err := uc.tickets.Delete(ctx, ticket.ID); err != nil {
		return err
	}
	// Metadata rows are gone with the ticket; sweep the orphaned objects.
	// A failed removal is only a storage leak.
	for _, a := range attachments {
		if err := uc.storage.Remove(ctx, a.StorageKey); err != nil {
			uc.log.Warn().Err(err).Str("key", a.StorageKey).Msg("object delete failed; ticket already removed")
		}
	}
	text := fmt.Sprintf("%s deleted the ticket %s from the project %s", input.Acting.Username, ticket.Name, project.Name)
	_, err = uc.dispatcher.RecordProject(ctx, domain.ActivityTicketDeleted, input.Acting.ID, project.ID, text)
	return err
}
