package app

import (
	"context"
	"fmt"

	"github.com/example/rota/internal/config"
	"github.com/example/rota/internal/ports/primary"
	"github.com/example/rota/internal/ports/secondary"
)

// DirectoryServiceImpl implements the DirectoryService interface.
type DirectoryServiceImpl struct {
	users  secondary.UserDirectory
	notify secondary.NotificationDispatcher
	cfg    *config.Settings
}

// NewDirectoryService creates a new DirectoryService with injected dependencies.
func NewDirectoryService(users secondary.UserDirectory, notify secondary.NotificationDispatcher, cfg *config.Settings) *DirectoryServiceImpl {
	return &DirectoryServiceImpl{
		users:  users,
		notify: notify,
		cfg:    cfg,
	}
}

// AddUser creates a user.
func (s *DirectoryServiceImpl) AddUser(ctx context.Context, id, fullName, email string) error {
	if id == "" {
		return fmt.Errorf("user ID is required")
	}
	if _, err := s.users.GetUser(ctx, id); err == nil {
		return fmt.Errorf("user %s already exists", id)
	} else if err != secondary.ErrNotFound {
		return fmt.Errorf("failed to check user: %w", err)
	}

	user := &secondary.UserRecord{
		ID:       id,
		FullName: fullName,
		Email:    email,
		Enabled:  true,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// SetEnabled enables or disables a user.
func (s *DirectoryServiceImpl) SetEnabled(ctx context.Context, id string, enabled bool) error {
	if err := s.users.SetEnabled(ctx, id, enabled); err != nil {
		if err == secondary.ErrNotFound {
			return fmt.Errorf("user %s not found", id)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// GrantRole adds a role to a user. Idempotent.
func (s *DirectoryServiceImpl) GrantRole(ctx context.Context, id, role string) error {
	if role == "" {
		return fmt.Errorf("role is required")
	}
	if _, err := s.users.GetUser(ctx, id); err != nil {
		if err == secondary.ErrNotFound {
			return fmt.Errorf("user %s not found", id)
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if err := s.users.GrantRole(ctx, id, role); err != nil {
		return fmt.Errorf("failed to grant role: %w", err)
	}
	return nil
}

// RevokeRole removes a role from a user.
func (s *DirectoryServiceImpl) RevokeRole(ctx context.Context, id, role string) error {
	if err := s.users.RevokeRole(ctx, id, role); err != nil {
		if err == secondary.ErrNotFound {
			return fmt.Errorf("user %s does not hold role %s", id, role)
		}
		return fmt.Errorf("failed to revoke role: %w", err)
	}
	return nil
}

// ListUsers returns all users with their roles, sorted by ID.
func (s *DirectoryServiceImpl) ListUsers(ctx context.Context) ([]*primary.DirectoryUser, error) {
	records, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]*primary.DirectoryUser, len(records))
	for i, r := range records {
		out[i] = &primary.DirectoryUser{
			ID:       r.ID,
			FullName: r.FullName,
			Email:    r.Email,
			Enabled:  r.Enabled,
			Roles:    r.Roles,
		}
	}
	return out, nil
}

// IsAdmin reports whether the user holds an admin role or is a
// configured admin user ID.
func (s *DirectoryServiceImpl) IsAdmin(ctx context.Context, id string) (bool, error) {
	for _, adminID := range s.cfg.AdminUserIDs {
		if id == adminID {
			return true, nil
		}
	}

	roles, err := s.users.RolesOf(ctx, id)
	if err != nil {
		if err == secondary.ErrNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to load roles: %w", err)
	}
	for _, role := range roles {
		for _, adminRole := range s.cfg.AdminRoles {
			if role == adminRole {
				return true, nil
			}
		}
	}
	return false, nil
}

// Inbox returns a user's notifications, newest first.
func (s *DirectoryServiceImpl) Inbox(ctx context.Context, userID string, unreadOnly bool) ([]*primary.Notification, error) {
	records, err := s.notify.ListFor(ctx, userID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	out := make([]*primary.Notification, len(records))
	for i, r := range records {
		out[i] = &primary.Notification{
			ID:        r.ID,
			UserID:    r.UserID,
			Kind:      r.Kind,
			Message:   r.Message,
			RefType:   r.RefType,
			RefID:     r.RefID,
			Read:      r.Read,
			CreatedAt: r.CreatedAt,
		}
	}
	return out, nil
}

// Ensure DirectoryServiceImpl implements the interface
var _ primary.DirectoryService = (*DirectoryServiceImpl)(nil)
