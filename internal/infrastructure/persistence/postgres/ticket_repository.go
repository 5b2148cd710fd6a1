package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

const ticketColumns = `id, project_id, number, name, description, priority, status, reported_by, created_at, updated_at`

type TicketRepository struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tickets (`+ticketColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		ticket.ID.UUID, ticket.ProjectID.UUID, ticket.Number, ticket.Name, ticket.Description,
		string(ticket.Priority), string(ticket.Status), ticket.ReportedByID.UUID, ticket.CreatedAt, ticket.UpdatedAt)
	return err
}

func (r *TicketRepository) GetByID(ctx context.Context, id domain.TicketID) (*domain.Ticket, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id.UUID)
	ticket, err := scanTicket(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadAssignees(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *TicketRepository) ListByProject(ctx context.Context, projectID domain.ProjectID, limit, offset int) ([]*domain.Ticket, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE project_id = $1 ORDER BY number LIMIT $2 OFFSET $3`,
		projectID.UUID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tickets []*domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, ticket := range tickets {
		if err := r.loadAssignees(ctx, ticket); err != nil {
			return nil, err
		}
	}
	return tickets, nil
}

func (r *TicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE tickets SET name = $1, description = $2, priority = $3, status = $4, updated_at = $5 WHERE id = $6`,
		ticket.Name, ticket.Description, string(ticket.Priority), string(ticket.Status), ticket.UpdatedAt, ticket.ID.UUID)
	return err
}

func (r *TicketRepository) Delete(ctx context.Context, id domain.TicketID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id.UUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) AddAssignee(ctx context.Context, ticketID domain.TicketID, userID domain.UserID) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO ticket_assignees (ticket_id, user_id) VALUES ($1, $2)`,
		ticketID.UUID, userID.UUID)
	if isUniqueViolation(err) {
		return domerrors.ErrAlreadyAssigned
	}
	return err
}

func (r *TicketRepository) RemoveAssignee(ctx context.Context, ticketID domain.TicketID, userID domain.UserID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM ticket_assignees WHERE ticket_id = $1 AND user_id = $2`,
		ticketID.UUID, userID.UUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrNotAssigned
	}
	return nil
}

func (r *TicketRepository) SetStatus(ctx context.Context, ticketID domain.TicketID, status domain.Status) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE tickets SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(status), ticketID.UUID)
	return err
}

func (r *TicketRepository) loadAssignees(ctx context.Context, ticket *domain.Ticket) error {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id FROM ticket_assignees WHERE ticket_id = $1`, ticket.ID.UUID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return err
		}
		ticket.AssigneeIDs = append(ticket.AssigneeIDs, domain.NewUserID(id))
	}
	return rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket           domain.Ticket
		priority, status string
	)
	err := row.Scan(&ticket.ID.UUID, &ticket.ProjectID.UUID, &ticket.Number, &ticket.Name, &ticket.Description,
		&priority, &status, &ticket.ReportedByID.UUID, &ticket.CreatedAt, &ticket.UpdatedAt)
	if err != nil {
		return nil, err
	}
	ticket.Priority = domain.Priority(priority)
	ticket.Status = domain.Status(status)
	return &ticket, nil
}

var _ ports.TicketRepository = (*TicketRepository)(nil)
