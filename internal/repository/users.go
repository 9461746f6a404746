package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/cinecraze/internal/domain"
)

// UsersRepository provides persistence helpers for accounts.
type UsersRepository struct {
	pool *pgxpool.Pool
}

const userColumns = `id, name, email, password_hash, avatar, role, created_at, updated_at`

// UserCreateParams bundles the fields required to create an account.
type UserCreateParams struct {
	Name         string
	Email        string
	PasswordHash string
	Avatar       string
	Role         string
}

// Create inserts a user. Emails are stored lowercased; a taken email returns
// ErrDuplicate.
func (r *UsersRepository) Create(ctx context.Context, params UserCreateParams) (domain.User, error) {
	role := params.Role
	if role == "" {
		role = domain.RoleUser
	}
	const query = `
        INSERT INTO users (id, name, email, password_hash, avatar, role)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query,
		uuid.NewString(),
		params.Name,
		normalizeEmail(params.Email),
		params.PasswordHash,
		params.Avatar,
		role,
	)
	return scanUser(row)
}

// GetByEmail looks an account up by its email, case-insensitively.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = $1`
	return scanUser(r.pool.QueryRow(ctx, query, normalizeEmail(email)))
}

// GetByID returns the account with the given id.
func (r *UsersRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.User{}, ErrNotFound
	}
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Avatar,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, translate(err)
	}
	return u, nil
}
