// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/rota/internal/ports/secondary"
)

// UserRepository implements secondary.UserDirectory with SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UsersWithRole returns all users holding the role, sorted by ID.
func (r *UserRepository) UsersWithRole(ctx context.Context, role string) ([]*secondary.UserRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.full_name, u.email, u.enabled
		 FROM users u JOIN user_roles ur ON ur.user_id = u.id
		 WHERE ur.role = ? ORDER BY u.id`,
		role,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users with role: %w", err)
	}
	defer rows.Close()

	return scanUsers(rows)
}

// GetUser retrieves a user by ID.
func (r *UserRepository) GetUser(ctx context.Context, id string) (*secondary.UserRecord, error) {
	var email sql.NullString
	record := &secondary.UserRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, full_name, email, enabled FROM users WHERE id = ?`,
		id,
	).Scan(&record.ID, &record.FullName, &email, &record.Enabled)
	if err == sql.ErrNoRows {
		return nil, secondary.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	record.Email = email.String

	roles, err := r.RolesOf(ctx, id)
	if err != nil {
		return nil, err
	}
	record.Roles = roles
	return record, nil
}

// CreateUser persists a new user.
func (r *UserRepository) CreateUser(ctx context.Context, user *secondary.UserRecord) error {
	var email sql.NullString
	if user.Email != "" {
		email = sql.NullString{String: user.Email, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, full_name, email, enabled) VALUES (?, ?, ?, ?)`,
		user.ID, user.FullName, email, user.Enabled,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// SetEnabled flips a user's enabled flag.
func (r *UserRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET enabled = ?, updated_at = ? WHERE id = ?`,
		enabled, time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rowsAffected == 0 {
		return secondary.ErrNotFound
	}
	return nil
}

// GrantRole adds a role to a user. Idempotent.
func (r *UserRepository) GrantRole(ctx context.Context, id, role string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO user_roles (user_id, role) VALUES (?, ?)`,
		id, role,
	)
	if err != nil {
		return fmt.Errorf("failed to grant role: %w", err)
	}
	return nil
}

// RevokeRole removes a role from a user.
func (r *UserRepository) RevokeRole(ctx context.Context, id, role string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM user_roles WHERE user_id = ? AND role = ?`,
		id, role,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rowsAffected == 0 {
		return secondary.ErrNotFound
	}
	return nil
}

// RolesOf returns the roles a user holds, sorted.
func (r *UserRepository) RolesOf(ctx context.Context, id string) ([]string, error) {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE id = ?`, id,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if exists == 0 {
		return nil, secondary.ErrNotFound
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT role FROM user_roles WHERE user_id = ? ORDER BY role`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// ListUsers returns all users sorted by ID.
func (r *UserRepository) ListUsers(ctx context.Context) ([]*secondary.UserRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, full_name, email, enabled FROM users ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users, err := scanUsers(rows)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		roles, err := r.RolesOf(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		u.Roles = roles
	}
	return users, nil
}

func scanUsers(rows *sql.Rows) ([]*secondary.UserRecord, error) {
	var users []*secondary.UserRecord
	for rows.Next() {
		var email sql.NullString
		record := &secondary.UserRecord{}
		if err := rows.Scan(&record.ID, &record.FullName, &email, &record.Enabled); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		record.Email = email.String
		users = append(users, record)
	}
	return users, rows.Err()
}

// Ensure UserRepository implements the interface
var _ secondary.UserDirectory = (*UserRepository)(nil)
