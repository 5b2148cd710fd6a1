package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JustAGhost23/issue-tracker-backend/internal/application/ports"
	"github.com/JustAGhost23/issue-tracker-backend/internal/domain"
	domerrors "github.com/JustAGhost23/issue-tracker-backend/internal/domain/errors"
)

const userColumns = `id, username, email, name, password_hash, providers, role, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	providers := make([]string, len(user.Providers))
	for i, p := range user.Providers {
		providers[i] = string(p)
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.ID.UUID, user.Username, user.Email, user.Name, user.PasswordHash, providers, string(user.Role), user.CreatedAt, user.UpdatedAt)
	if isUniqueViolation(err) {
		return domerrors.ErrUserExists
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return r.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id.UUID)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) getBy(ctx context.Context, query string, arg any) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY username LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET email = $1, name = $2, password_hash = $3, updated_at = $4 WHERE id = $5`,
		user.Email, user.Name, user.PasswordHash, user.UpdatedAt, user.ID.UUID)
	if isUniqueViolation(err) {
		return domerrors.ErrUserExists
	}
	return err
}

func (r *UserRepository) UpdateRole(ctx context.Context, id domain.UserID, role domain.Role) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, string(role), id.UUID)
	return err
}

func (r *UserRepository) Delete(ctx context.Context, id domain.UserID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id.UUID)
	return err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user      domain.User
		providers []string
		role      string
	)
	err := row.Scan(&user.ID.UUID, &user.Username, &user.Email, &user.Name, &user.PasswordHash, &providers, &role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	user.Role = domain.Role(role)
	for _, p := range providers {
		user.Providers = append(user.Providers, domain.Provider(p))
	}
	return &user, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
