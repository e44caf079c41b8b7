package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/user"
	"blog-backend/internal/infrastructure/database"
)

// Unique index names from migrations/000001_init.up.sql
const (
	constraintEmail          = "ix_users_email"
	constraintActivationCode = "ix_users_activation_code"
)

const userColumns = `id, email, name, password, is_active, activation_code`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) user.Repository {
	return &postgresRepository{
		pool: pool,
	}
}

// ========================================
// BASIC CRUD OPERATIONS
// ========================================

func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (email, name, password, is_active, activation_code)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		u.Email, u.Name, u.Password, u.IsActive, u.ActivationCode,
	).Scan(&u.ID)
	if err != nil {
		if name, ok := database.ConstraintViolation(err, database.CodeUniqueViolation); ok {
			switch name {
			case constraintEmail:
				return user.ErrEmailAlreadyExists
			case constraintActivationCode:
				return user.ErrActivationCodeTaken
			}
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.queryOne(ctx, query, email)
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *postgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

// ========================================
// ACTIVATION
// ========================================

func (r *postgresRepository) Activate(ctx context.Context, code string) (*user.User, error) {
	// The empty-code guard lives in SQL too: consumed codes are stored as ''.
	query := `
		UPDATE users
		SET is_active = TRUE, activation_code = ''
		WHERE activation_code = $1 AND activation_code <> ''
		RETURNING ` + userColumns

	return r.queryOne(ctx, query, code)
}

func (r *postgresRepository) queryOne(ctx context.Context, query string, args ...any) (*user.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[user.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return u, nil
}
