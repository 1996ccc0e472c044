package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sopra/user-service/shared/apperrors"
	"github.com/sopra/user-service/shared/models"
)

const (
	uniqueViolation = "23505"

	usernameConstraint = "users_username_key"
	nameConstraint     = "users_name_key"
)

const selectUsers = `
	SELECT id, name, username, password_hash, token, status, creation_date,
		   COALESCE(birth_date, '') AS birth_date
	FROM users
`

// PostgresUserRepository is the UserStore backed by the PostgreSQL users table.
type PostgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUserRepository(db *sqlx.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Save(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == 0 {
		return r.create(ctx, user)
	}
	return r.update(ctx, user)
}

func (r *PostgresUserRepository) create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (name, username, password_hash, token, status, creation_date, birth_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query,
		user.Name, user.Username, user.PasswordHash, user.Token,
		string(user.Status), user.CreationDate, nullString(user.BirthDate),
	).Scan(&user.ID)
	if err != nil {
		return nil, translateError("failed to create user", apperrors.OpCreate, err)
	}
	return user, nil
}

// update writes the mutable columns only; id, name, token and creation_date
// are fixed at registration.
func (r *PostgresUserRepository) update(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		UPDATE users
		SET username = $2, status = $3, birth_date = $4
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, string(user.Status), nullString(user.BirthDate),
	)
	if err != nil {
		return nil, translateError("failed to update user", apperrors.OpUpdate, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (r *PostgresUserRepository) FindAll(ctx context.Context) ([]*models.User, error) {
	users := []*models.User{}
	if err := r.db.SelectContext(ctx, &users, selectUsers+`ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findOne(ctx, selectUsers+`WHERE id = $1`, id)
}

func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, selectUsers+`WHERE username = $1`, username)
}

func (r *PostgresUserRepository) FindByName(ctx context.Context, name string) (*models.User, error) {
	return r.findOne(ctx, selectUsers+`WHERE name = $1`, name)
}

func (r *PostgresUserRepository) FindByToken(ctx context.Context, token string) (*models.User, error) {
	return r.findOne(ctx, selectUsers+`WHERE token = $1`, token)
}

func (r *PostgresUserRepository) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// translateError maps unique violations onto the account conflict errors.
func translateError(msg, op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		switch pqErr.Constraint {
		case usernameConstraint:
			return &apperrors.UniquenessError{Username: true, Op: op}
		case nameConstraint:
			return &apperrors.UniquenessError{Name: true, Op: op}
		default:
			return fmt.Errorf("%s: %w: %s", msg, apperrors.ErrConflict, pqErr.Constraint)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
