package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
)

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO comments (id, ticket_id, author_id, text, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		comment.ID, comment.TicketID.UUID, comment.AuthorID.UUID, comment.Text, comment.CreatedAt, comment.UpdatedAt)
	return err
}

func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, ticket_id, author_id, text, created_at, updated_at FROM comments WHERE id = $1`, id)
	comment, err := scanComment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return comment, err
}

func (r *CommentRepository) ListByTicket(ctx context.Context, ticketID domain.TicketID, limit, offset int) ([]*domain.Comment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, ticket_id, author_id, text, created_at, updated_at FROM comments
		 WHERE ticket_id = $1 ORDER BY created_at LIMIT $2 OFFSET $3`,
		ticketID.UUID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectComments(rows)
}

func (r *CommentRepository) ListByAuthor(ctx context.Context, authorID domain.UserID, limit, offset int) ([]*domain.Comment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, ticket_id, author_id, text, created_at, updated_at FROM comments
		 WHERE author_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		authorID.UUID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectComments(rows)
}

func (r *CommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE comments SET text = $1, updated_at = $2 WHERE id = $3`,
		comment.Text, comment.UpdatedAt, comment.ID)
	return err
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return err
}

func collectComments(rows pgx.Rows) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var comment domain.Comment
	err := row.Scan(&comment.ID, &comment.TicketID.UUID, &comment.AuthorID.UUID,
		&comment.Text, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

var _ ports.CommentRepository = (*CommentRepository)(nil)
