package ticket

import (
	"context"
	"fmt"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/activity"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/membership"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

type AssignInput struct {
	Acting   *domain.User
	TicketID domain.TicketID
	// UserIDs are the requested assignees. Users already assigned are
	// silently skipped; only the newly added ones are notified.
	UserIDs []domain.UserID
}

type AssignResult struct {
	Ticket *domain.Ticket
	// Added lists the users actually assigned by this call.
	Added     []*domain.User
	NotifyErr error
}

type Assign struct {
	tickets    ports.TicketRepository
	users      ports.UserRepository
	authority  *membership.Authority
	dispatcher *activity.Dispatcher
}

func NewAssign(tickets ports.TicketRepository, users ports.UserRepository, authority *membership.Authority, dispatcher *activity.Dispatcher) *Assign {
	return &Assign{tickets: tickets, users: users, authority: authority, dispatcher: dispatcher}
}

// Execute assigns users to a ticket. The caller and every target must be
// project members. The requested set is reduced to the delta against the
// current assignees; assigning an already-assigned user is a no-op and does
// not re-notify. The first assignment moves the ticket OPEN -> ASSIGNED.
func (uc *Assign) Execute(ctx context.Context, input AssignInput) (*AssignResult, error) {
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

	// Validate the full requested set before mutating anything. The request
	// is treated as a set: repeated IDs collapse to one.
	var added []*domain.User
	seen := make(map[domain.UserID]struct{}, len(input.UserIDs))
	for _, id := range input.UserIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		target, err := uc.users.GetByID(ctx, id)
		if err != nil {
			return nil, domerrors.ErrDependency
		}
		if target == nil {
			return nil, domerrors.ErrUserNotFound
		}
		if !project.IsMember(target.ID) {
			return nil, domerrors.ErrTargetNotMember
		}
		if ticket.IsAssignee(target.ID) {
			continue
		}
		added = append(added, target)
	}
	wasEmpty := len(ticket.AssigneeIDs) == 0
	for _, target := range added {
		if err := uc.tickets.AddAssignee(ctx, ticket.ID, target.ID); err != nil {
			return nil, err
		}
		ticket.AssigneeIDs = append(ticket.AssigneeIDs, target.ID)
	}
	if wasEmpty && len(added) > 0 && ticket.Status == domain.StatusOpen {
		if err := uc.tickets.SetStatus(ctx, ticket.ID, domain.StatusAssigned); err != nil {
			return nil, domerrors.ErrDependency
		}
		ticket.Status = domain.StatusAssigned
	}
	if len(added) == 0 {
		return &AssignResult{Ticket: ticket}, nil
	}

	text := fmt.Sprintf("%s assigned you the following ticket: %s in the project: %s", input.Acting.Username, ticket.Name, project.Name)
	act, err := uc.dispatcher.Record(ctx, domain.ActivityAssigned, input.Acting.ID, ticket.ID, text)
	if err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(added))
	for _, target := range added {
		emails = append(emails, target.Email)
	}
	notifyErr := uc.dispatcher.Notify(ctx, act, "Ticket assigned", emails)
	return &AssignResult{Ticket: ticket, Added: added, NotifyErr: notifyErr}, nil
}

type UnassignInput struct {
	Acting   *domain.User
	TicketID domain.TicketID
	UserID   domain.UserID
}

type UnassignResult struct {
	Ticket *domain.Ticket
}

type Unassign struct {
	tickets    ports.TicketRepository
	users      ports.UserRepository
	authority  *membership.Authority
	dispatcher *activity.Dispatcher
}

func NewUnassign(tickets ports.TicketRepository, users ports.UserRepository, authority *membership.Authority, dispatcher *activity.Dispatcher) *Unassign {
	return &Unassign{tickets: tickets, users: users, authority: authority, dispatcher: dispatcher}
}

// Execute removes an assignee. Removing the last assignee does not revert the
// status to OPEN; status beyond the initial transition is caller-directed.
func (uc *Unassign) Execute(ctx context.Context, input UnassignInput) (*UnassignResult, error) {
	ticket, err := uc.tickets.GetByID(ctx, input.TicketID)
	if err != nil {
		return nil, domerrors.ErrDependency
	}
	if ticket == nil {
		return nil, domerrors.ErrTicketNotFound
	}
	if _, err := uc.authority.RequireMember(ctx, input.Acting.ID, ticket.ProjectID); err != nil {
		return nil, err
	}
	target, err := uc.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, domerrors.ErrDependency
	}
	if target == nil {
		return nil, domerrors.ErrUserNotFound
	}
	if !ticket.IsAssignee(target.ID) {
		return nil, domerrors.ErrNotAssigned
	}
	if err := uc.tickets.RemoveAssignee(ctx, ticket.ID, target.ID); err != nil {
		return nil, err
	}
	remaining := ticket.AssigneeIDs[:0]
	for _, id := range ticket.AssigneeIDs {
		if id != target.ID {
			remaining = append(remaining, id)
		}
	}
	ticket.AssigneeIDs = remaining

	text := fmt.Sprintf("%s unassigned %s from the ticket %s", input.Acting.Username, target.Username, ticket.Name)
	if _, err := uc.dispatcher.Record(ctx, domain.ActivityUnassigned, input.Acting.ID, ticket.ID, text); err != nil {
		return nil, err
	}
	return &UnassignResult{Ticket: ticket}, nil
}
