package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/activity"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/membership"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

type EditInput struct {
	Acting   *domain.User
	TicketID domain.TicketID
	// Nil fields are left unchanged.
	Name        *string
	Description *string
	Priority    *domain.Priority
	// Status is accepted as given; only OPEN -> ASSIGNED is system-driven.
	Status *domain.Status
}

type EditResult struct {
	Ticket    *domain.Ticket
	NotifyErr error
}

type Edit struct {
	tickets    ports.TicketRepository
	users      ports.UserRepository
	authority  *membership.Authority
	dispatcher *activity.Dispatcher
}

func NewEdit(tickets ports.TicketRepository, users ports.UserRepository, authority *membership.Authority, dispatcher *activity.Dispatcher) *Edit {
	return &Edit{tickets: tickets, users: users, authority: authority, dispatcher: dispatcher}
}

// Execute edits a ticket's fields. Any project member may edit; the activity
// is addressed to the reporter and all current assignees.
func (uc *Edit) Execute(ctx context.Context, input EditInput) (*EditResult, error) {
	ticket, err := uc.tickets.GetByID(ctx, input.TicketID)
	if err != nil {
		return nil, domerrors.ErrDependency
	}
	if ticket == nil {
		return nil, domerrors.ErrTicketNotFound
	}
	project, err := uc.authority.RequireMember(ctx, input.Acting.ID, ticket.ProjectID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		ticket.Name = *input.Name
	}
	if input.Description != nil {
		ticket.Description = *input.Description
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, domerrors.ErrInvalidOperation
		}
		ticket.Priority = *input.Priority
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, domerrors.ErrInvalidOperation
		}
		ticket.Status = *input.Status
	}
	ticket.UpdatedAt = time.Now()
	if err := uc.tickets.Update(ctx, ticket); err != nil {
		return nil, domerrors.ErrDependency
	}

	text := fmt.Sprintf("%s edited the ticket %s in the project %s", input.Acting.Username, ticket.Name, project.Name)
	act, err := uc.dispatcher.Record(ctx, domain.ActivityTicketEdited, input.Acting.ID, ticket.ID, text)
	if err != nil {
		return nil, err
	}
	recipients, err := uc.recipientEmails(ctx, ticket)
	if err != nil {
		return nil, err
	}
	notifyErr := uc.dispatcher.Notify(ctx, act, "Ticket updated", recipients)
	return &EditResult{Ticket: ticket, NotifyErr: notifyErr}, nil
}

// recipientEmails resolves the reporter and current assignees, deduplicated.
func (uc *Edit) recipientEmails(ctx context.Context, ticket *domain.Ticket) ([]string, error) {
	ids := append([]domain.UserID{ticket.ReportedByID}, ticket.AssigneeIDs...)
	seen := make(map[domain.UserID]bool, len(ids))
	var emails []string
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		user, err := uc.users.GetByID(ctx, id)
		if err != nil {
			return nil, domerrors.ErrDependency
		}
		if user != nil {
			emails = append(emails, user.Email)
		}
	}
	return emails, nil
}
