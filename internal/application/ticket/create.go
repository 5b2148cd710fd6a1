package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/activity"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/membership"
	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

type CreateInput struct {
	Acting      *domain.User
	ProjectID   domain.ProjectID
	Name        string
	Description string
	Priority    domain.Priority
}

type CreateResult struct {
	Ticket *domain.Ticket
}

type Create struct {
	tickets    ports.TicketRepository
	projects   ports.ProjectRepository
	authority  *membership.Authority
	dispatcher *activity.Dispatcher
}

func NewCreate(tickets ports.TicketRepository, projects ports.ProjectRepository, authority *membership.Authority, dispatcher *activity.Dispatcher) *Create {
	return &Create{tickets: tickets, projects: projects, authority: authority, dispatcher: dispatcher}
}

// Execute files a new ticket. The per-project number comes from an atomic
// counter on the project row, so concurrent creates in the same project can
// never collide.
func (uc *Create) Execute(ctx context.Context, input CreateInput) (*CreateResult, error) {
	project, err := uc.authority.RequireMember(ctx, input.Acting.ID, input.ProjectID)
	if err != nil {
		return nil, err
	}
	number, err := uc.projects.NextTicketNumber(ctx, project.ID)
	if err != nil {
		return nil, domerrors.ErrDependency
	}
	now := time.Now()
	ticket := &domain.Ticket{
		ID:           domain.NewTicketID(uuid.New()),
		ProjectID:    project.ID,
		Number:       number,
		Name:         input.Name,
		Description:  input.Description,
		Priority:     input.Priority,
		Status:       domain.StatusOpen,
		ReportedByID: input.Acting.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	text := fmt.Sprintf("%s created the ticket %s in the project %s", input.Acting.Username, ticket.Name, project.Name)
	if _, err := uc.dispatcher.Record(ctx, domain.ActivityTicketCreated, input.Acting.ID, ticket.ID, text); err != nil {
		return nil, err
	}
	return &CreateResult{Ticket: ticket}, nil
}
