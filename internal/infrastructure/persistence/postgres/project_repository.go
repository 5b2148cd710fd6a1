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

const projectColumns = `id, name, description, created_by, created_at, updated_at`

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	_, err = tx.Exec(ctx,
		`INSERT INTO projects (`+projectColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		project.ID.UUID, project.Name, project.Description, project.CreatedByID.UUID, project.CreatedAt, project.UpdatedAt)
	if isUniqueViolation(err) {
		return domerrors.ErrProjectExists
	}
	if err != nil {
		return err
	}
	for _, member := range project.MemberIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO project_members (project_id, user_id) VALUES ($1, $2)`,
			project.ID.UUID, member.UUID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *ProjectRepository) GetByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id.UUID)
	project, err := scanProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadMembers(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (r *ProjectRepository) GetByName(ctx context.Context, owner domain.UserID, name string) (*domain.Project, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE name = $1 AND created_by = $2`, name, owner.UUID)
	project, err := scanProject(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadMembers(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (r *ProjectRepository) List(ctx context.Context, limit, offset int) ([]*domain.Project, error) {
	return r.list(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *ProjectRepository) ListForUser(ctx context.Context, userID domain.UserID) ([]*domain.Project, error) {
	return r.list(ctx,
		`SELECT p.id, p.name, p.description, p.created_by, p.created_at, p.updated_at
		 FROM projects p JOIN project_members m ON m.project_id = p.id
		 WHERE m.user_id = $1 ORDER BY p.created_at`, userID.UUID)
}

func (r *ProjectRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Project, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var projects []*domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, project := range projects {
		if err := r.loadMembers(ctx, project); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE projects SET name = $1, description = $2, updated_at = $3 WHERE id = $4`,
		project.Name, project.Description, project.UpdatedAt, project.ID.UUID)
	if isUniqueViolation(err) {
		return domerrors.ErrProjectExists
	}
	return err
}

func (r *ProjectRepository) Delete(ctx context.Context, id domain.ProjectID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id.UUID)
	return err
}

func (r *ProjectRepository) AddMember(ctx context.Context, projectID domain.ProjectID, userID domain.UserID) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO project_members (project_id, user_id) VALUES ($1, $2)`,
		projectID.UUID, userID.UUID)
	if isUniqueViolation(err) {
		return domerrors.ErrAlreadyMember
	}
	return err
}

func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID domain.ProjectID, userID domain.UserID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`,
		projectID.UUID, userID.UUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrTargetNotMember
	}
	return nil
}

func (r *ProjectRepository) TransferOwnership(ctx context.Context, projectID domain.ProjectID, newOwner domain.UserID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if _, err := tx.Exec(ctx,
		`UPDATE projects SET created_by = $1, updated_at = NOW() WHERE id = $2`,
		newOwner.UUID, projectID.UUID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO project_members (project_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		projectID.UUID, newOwner.UUID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *ProjectRepository) ReassignOwned(ctx context.Context, from, to domain.UserID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if _, err := tx.Exec(ctx,
		`INSERT INTO project_members (project_id, user_id)
		 SELECT id, $1 FROM projects WHERE created_by = $2
		 ON CONFLICT DO NOTHING`, to.UUID, from.UUID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE projects SET created_by = $1, updated_at = NOW() WHERE created_by = $2`,
		to.UUID, from.UUID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *ProjectRepository) CountOwnedBy(ctx context.Context, userID domain.UserID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM projects WHERE created_by = $1`, userID.UUID).Scan(&count)
	return count, err
}

// NextTicketNumber increments the per-project counter atomically, so two
// concurrent ticket creates can never observe the same number.
func (r *ProjectRepository) NextTicketNumber(ctx context.Context, projectID domain.ProjectID) (int, error) {
	var number int
	err := r.pool.QueryRow(ctx,
		`UPDATE projects SET next_ticket_number = next_ticket_number + 1 WHERE id = $1 RETURNING next_ticket_number`,
		projectID.UUID).Scan(&number)
	return number, err
}

func (r *ProjectRepository) loadMembers(ctx context.Context, project *domain.Project) error {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id FROM project_members WHERE project_id = $1`, project.ID.UUID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return err
		}
		project.MemberIDs = append(project.MemberIDs, domain.NewUserID(id))
	}
	return rows.Err()
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var project domain.Project
	err := row.Scan(&project.ID.UUID, &project.Name, &project.Description, &project.CreatedByID.UUID, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)
