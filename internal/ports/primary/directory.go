package primary

import "context"

// DirectoryService defines the primary port for the minimal user
// directory the engine is driven by, plus per-user notification
// inboxes. Full identity management lives outside this engine.
type DirectoryService interface {
	// AddUser creates a user. IDs are caller-chosen short handles.
	AddUser(ctx context.Context, id, fullName, email string) error

	// SetEnabled enables or disables a user.
	SetEnabled(ctx context.Context, id string, enabled bool) error

	// GrantRole adds a role to a user. Idempotent.
	GrantRole(ctx context.Context, id, role string) error

	// RevokeRole removes a role from a user.
	RevokeRole(ctx context.Context, id, role string) error

	// ListUsers returns all users with their roles, sorted by ID.
	ListUsers(ctx context.Context) ([]*DirectoryUser, error)

	// IsAdmin reports whether the user holds an admin role or is a
	// configured admin user.
	IsAdmin(ctx context.Context, id string) (bool, error)

	// Inbox returns a user's notifications, newest first.
	Inbox(ctx context.Context, userID string, unreadOnly bool) ([]*Notification, error)
}

// DirectoryUser is a user with roles at the port boundary.
type DirectoryUser struct {
	ID       string
	FullName string
	Email    string
	Enabled  bool
	Roles    []string
}

// Notification is a durable notification record at the port boundary.
type Notification struct {
	ID        string
	UserID    string
	Kind      string
	Message   string
	RefType   string
	RefID     string
	Read      bool
	CreatedAt string
}
