package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
)

type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	var ticketID, projectID *uuid.UUID
	if activity.TicketID != nil {
		ticketID = &activity.TicketID.UUID
	}
	if activity.ProjectID != nil {
		projectID = &activity.ProjectID.UUID
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO activities (id, type, text, author_id, ticket_id, project_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		activity.ID, string(activity.Type), activity.Text, activity.AuthorID.UUID,
		ticketID, projectID, activity.CreatedAt)
	return err
}

func (r *ActivityRepository) ListByTicket(ctx context.Context, ticketID domain.TicketID, limit, offset int) ([]*domain.Activity, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, type, text, author_id, ticket_id, project_id, created_at FROM activities
		 WHERE ticket_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		ticketID.UUID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectActivities(rows)
}

func (r *ActivityRepository) ListByProject(ctx context.Context, projectID domain.ProjectID, limit, offset int) ([]*domain.Activity, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, type, text, author_id, ticket_id, project_id, created_at FROM activities
		 WHERE project_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		projectID.UUID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectActivities(rows)
}

func collectActivities(rows pgx.Rows) ([]*domain.Activity, error) {
	var activities []*domain.Activity
	for rows.Next() {
		var (
			activity            domain.Activity
			typ                 string
			ticketID, projectID *uuid.UUID
		)
		err := rows.Scan(&activity.ID, &typ, &activity.Text, &activity.AuthorID.UUID,
			&ticketID, &projectID, &activity.CreatedAt)
		if err != nil {
			return nil, err
		}
		activity.Type = domain.ActivityType(typ)
		if ticketID != nil {
			id := domain.NewTicketID(*ticketID)
			activity.TicketID = &id
		}
		if projectID != nil {
			id := domain.NewProjectID(*projectID)
			activity.ProjectID = &id
		}
		activities = append(activities, &activity)
	}
	return activities, rows.Err()
}

var _ ports.ActivityRepository = (*ActivityRepository)(nil)
