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

type RequestRepository struct {
	pool *pgxpool.Pool
}

func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

func (r *RequestRepository) Create(ctx context.Context, request *domain.RoleRequest) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO requests (id, author_id, role, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		request.ID, request.AuthorID.UUID, string(request.Role), request.CreatedAt, request.UpdatedAt)
	if isUniqueViolation(err) {
		return domerrors.ErrRequestPending
	}
	return err
}

func (r *RequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RoleRequest, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, author_id, role, created_at, updated_at FROM requests WHERE id = $1`, id)
	request, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return request, err
}

func (r *RequestRepository) GetByAuthor(ctx context.Context, authorID domain.UserID) (*domain.RoleRequest, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, author_id, role, created_at, updated_at FROM requests WHERE author_id = $1`, authorID.UUID)
	request, err := scanRequest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return request, err
}

func (r *RequestRepository) List(ctx context.Context, limit, offset int) ([]*domain.RoleRequest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, author_id, role, created_at, updated_at FROM requests ORDER BY created_at LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var requests []*domain.RoleRequest
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

func (r *RequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM requests WHERE id = $1`, id)
	return err
}

func scanRequest(row pgx.Row) (*domain.RoleRequest, error) {
	var (
		request domain.RoleRequest
		role    string
	)
	err := row.Scan(&request.ID, &request.AuthorID.UUID, &role, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return nil, err
	}
	request.Role = domain.Role(role)
	return &request, nil
}

var _ ports.RequestRepository = (*RequestRepository)(nil)
