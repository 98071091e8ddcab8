package users

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence operations for user accounts.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string, exclude uuid.UUID) (bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (*User, error)
	Promote(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter ListFilter) ([]User, error)
	Count(ctx context.Context) (int, error)
}

const uniqueViolation = "23505"

const userColumns = `id, full_name, email, password_hash, role, status, last_login, created_at, updated_at`

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db dbtx
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: pool}
}

// Create inserts a new user. The store fills CreatedAt and UpdatedAt.
func (r *PGRepository) Create(ctx context.Context, user *User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	const query = `INSERT INTO users (id, full_name, email, password_hash, role, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query, user.ID, user.FullName, user.Email, user.PasswordHash, string(user.Role), string(user.Status)).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

// FindByID fetches a user by primary key.
func (r *PGRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// FindByEmail fetches a user by normalized email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// EmailExists reports whether email is used by any user other than exclude.
func (r *PGRepository) EmailExists(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`, email, exclude).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("users: email exists: %w", err)
	}
	return exists, nil
}

// UpdateProfile applies the non-nil fields of update and returns the new record.
func (r *PGRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*User, error) {
	if update.Empty() {
		return r.FindByID(ctx, id)
	}
	sets := make([]string, 0, 3)
	args := []interface{}{id}
	if update.FullName != nil {
		args = append(args, *update.FullName)
		sets = append(sets, "full_name = $"+strconv.Itoa(len(args)))
	}
	if update.Email != nil {
		args = append(args, *update.Email)
		sets = append(sets, "email = $"+strconv.Itoa(len(args)))
	}
	sets = append(sets, "updated_at = NOW()")
	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + userColumns
	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapWriteError(err)
	}
	return user, nil
}

// UpdatePassword replaces the stored hash.
func (r *PGRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("users: update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordLogin stamps last_login.
func (r *PGRepository) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET last_login = $2, updated_at = NOW() WHERE id = $1`, id, at.UTC())
	if err != nil {
		return fmt.Errorf("users: record login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus activates or deactivates a user.
func (r *PGRepository) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*User, error) {
	row := r.db.QueryRow(ctx, `UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING `+userColumns, id, string(status))
	return scanUser(row)
}

// Promote grants the admin role to the user owning email and reactivates it.
func (r *PGRepository) Promote(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRow(ctx, `UPDATE users SET role = $2, status = $3, updated_at = NOW() WHERE email = $1 RETURNING `+userColumns,
		email, string(RoleAdmin), string(StatusActive))
	return scanUser(row)
}

// List returns one page of users, newest first.
func (r *PGRepository) List(ctx context.Context, filter ListFilter) ([]User, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	defer rows.Close()
	var list []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	return list, nil
}

// Count returns the total number of users.
func (r *PGRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return 0, fmt.Errorf("users: count: %w", err)
	}
	return total, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var (
		user      User
		role      string
		status    string
		lastLogin *time.Time
	)
	err := row.Scan(&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &role, &status, &lastLogin, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	user.Role = Role(role)
	user.Status = Status(status)
	user.LastLogin = lastLogin
	return &user, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateEmail
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("users: write: %w", err)
}

var _ Repository = (*PGRepository)(nil)
