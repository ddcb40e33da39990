// Package secondary defines the secondary ports (driven adapters) for
// the rota engine. These are the interfaces through which the engine
// drives external systems: the datastore, the notification channel and
// the clock.
package secondary

import (
	"context"
	"errors"
	"time"

	"github.com/example/rota/internal/models"
)

// ErrNotFound is returned by repositories when a record does not
// exist, so services can branch on it without parsing messages.
var ErrNotFound = errors.New("record not found")

// UserDirectory defines the secondary port for the user directory.
type UserDirectory interface {
	// UsersWithRole returns all users holding the role, enabled or not,
	// sorted by ID.
	UsersWithRole(ctx context.Context, role string) ([]*UserRecord, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, id string) (*UserRecord, error)

	// CreateUser persists a new user.
	CreateUser(ctx context.Context, user *UserRecord) error

	// SetEnabled flips a user's enabled flag.
	SetEnabled(ctx context.Context, id string, enabled bool) error

	// GrantRole adds a role to a user. Idempotent.
	GrantRole(ctx context.Context, id, role string) error

	// RevokeRole removes a role from a user.
	RevokeRole(ctx context.Context, id, role string) error

	// RolesOf returns the roles a user holds, sorted.
	RolesOf(ctx context.Context, id string) ([]string, error)

	// ListUsers returns all users sorted by ID.
	ListUsers(ctx context.Context) ([]*UserRecord, error)
}

// UserRecord represents a user as stored in persistence.
type UserRecord struct {
	ID       string
	FullName string
	Email    string
	Enabled  bool
	Roles    []string // populated by ListUsers and GetUser
}

// TrackerRepository defines the secondary port for role tracker
// persistence. Trackers are independent per role; no cross-tracker
// coordination exists.
type TrackerRepository interface {
	// Get retrieves the tracker for a role, or ErrNotFound.
	Get(ctx context.Context, role string) (*TrackerRecord, error)

	// Create persists a new tracker.
	Create(ctx context.Context, tracker *TrackerRecord) error

	// Save writes the full tracker state in a single-document update.
	Save(ctx context.Context, tracker *TrackerRecord) error

	// Reset sets the rotation position back to zero.
	Reset(ctx context.Context, role string) error
}

// TrackerRecord represents a role tracker as stored in persistence.
// The user list and history are native containers here; JSON encoding
// happens only at the storage boundary.
type TrackerRecord struct {
	RoleName         string
	UserList         []string
	CurrentPosition  int
	LastAssignedUser string
	LastAssignedAt   string
	AssignmentCount  int
	History          []TrackerHistoryEntry
	CreatedAt        string
	UpdatedAt        string
}

// TrackerHistoryEntry is one bounded-log assignment record as stored.
type TrackerHistoryEntry struct {
	User       string `json:"user"`
	ItemType   string `json:"item_type"`
	ItemID     string `json:"item_id"`
	AssignedBy string `json:"assigned_by"`
	AssignedAt string `json:"assigned_at"`
	Position   int    `json:"position"`
}

// WorkItemRepository defines the secondary port for lead/ticket
// assignment fields. The strategy table in models maps the item type
// to its backing storage; semantics are identical for both types.
type WorkItemRepository interface {
	// Get retrieves a work item, or ErrNotFound.
	Get(ctx context.Context, itemType models.ItemType, id string) (*WorkItemRecord, error)

	// Create persists a new work item.
	Create(ctx context.Context, item *WorkItemRecord) error

	// List returns all items of a type, newest first.
	List(ctx context.Context, itemType models.ItemType) ([]*WorkItemRecord, error)

	// SetAssignment writes the current assignee, appends it to the
	// assignee set and records the role used (empty for direct).
	SetAssignment(ctx context.Context, itemType models.ItemType, id, user, role string) error

	// SetFinalOverdueTask links the exhausted task from the parent item.
	SetFinalOverdueTask(ctx context.Context, itemType models.ItemType, id, taskID string) error

	// GetNextID returns the next available ID for the item type.
	GetNextID(ctx context.Context, itemType models.ItemType) (string, error)
}

// WorkItemRecord represents a work item as stored in persistence.
type WorkItemRecord struct {
	Type             models.ItemType
	ID               string
	Title            string // lead name or ticket subject
	Extra            string // lead source or ticket customer
	AssignedRole     string
	AssignedTo       string
	Assignees        []string
	FinalOverdueTask string
	Status           string
	CreatedAt        string
	UpdatedAt        string
}

// TaskRepository defines the secondary port for follow-up task
// persistence.
type TaskRepository interface {
	// GetByID retrieves a task, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*TaskRecord, error)

	// FindOpenForItem returns the oldest non-terminal task for an item,
	// or ErrNotFound when none is open.
	FindOpenForItem(ctx context.Context, itemType models.ItemType, itemID string) (*TaskRecord, error)

	// Create persists a new task.
	Create(ctx context.Context, task *TaskRecord) error

	// UpdateAssignment rewrites the assignment fields of a task in
	// place: assignee, assignee history, due date, processed flag.
	UpdateAssignment(ctx context.Context, id, assignedTo string, assignees []string, dueAt string, processed bool) error

	// MarkFinalOverdue sets the terminal final_overdue flag.
	MarkFinalOverdue(ctx context.Context, id string) error

	// ListOverdue returns active, unexhausted tasks whose due date is
	// at or before the cutoff, oldest first.
	ListOverdue(ctx context.Context, cutoff time.Time) ([]*TaskRecord, error)

	// List returns tasks matching the filters, newest first.
	List(ctx context.Context, filters TaskListFilters) ([]*TaskRecord, error)

	// GetNextID returns the next available task ID.
	GetNextID(ctx context.Context) (string, error)
}

// TaskRecord represents a follow-up task as stored in persistence.
type TaskRecord struct {
	ID                    string
	Title                 string
	Description           string
	ItemType              models.ItemType
	ItemID                string
	AssignedTo            string
	Assignees             []string
	Priority              string
	Status                string
	DueAt                 string
	ReassignmentProcessed bool
	FinalOverdue          bool
	CreatedAt             string
	UpdatedAt             string
}

// TaskListFilters contains filter options for querying tasks.
type TaskListFilters struct {
	Status       string
	AssignedTo   string
	FinalOverdue *bool
	ItemType     models.ItemType
	ItemID       string
}

// RequestRepository defines the secondary port for assignment request
// persistence.
type RequestRepository interface {
	// Create persists a new pending request.
	Create(ctx context.Context, req *RequestRecord) error

	// GetByID retrieves a request, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*RequestRecord, error)

	// Decide writes the terminal decision fields.
	Decide(ctx context.Context, id, status, decidedBy, decidedAt, note, rejectionReason string) error

	// List returns requests matching the filters, newest first.
	List(ctx context.Context, filters RequestListFilters) ([]*RequestRecord, error)

	// GetNextID returns the next available request ID.
	GetNextID(ctx context.Context) (string, error)
}

// RequestRecord represents an assignment request as stored.
type RequestRecord struct {
	ID              string
	ItemType        models.ItemType
	ItemID          string
	RequestedUser   string
	RequestedBy     string
	Reason          string
	Status          string
	DecidedBy       string
	DecidedAt       string
	DecisionNote    string
	RejectionReason string
	CreatedAt       string
}

// RequestListFilters contains filter options for querying requests.
type RequestListFilters struct {
	Status      string
	RequestedBy string
}

// ActivityRepository defines the secondary port for timeline notes.
type ActivityRepository interface {
	// Append adds a note to an entity's timeline.
	Append(ctx context.Context, entityType, entityID, author, body string) error

	// ListFor returns an entity's notes, newest first.
	ListFor(ctx context.Context, entityType, entityID string) ([]*ActivityRecord, error)
}

// ActivityRecord represents one timeline note as stored.
type ActivityRecord struct {
	EntityType string
	EntityID   string
	Author     string
	Body       string
	CreatedAt  string
}

// NotificationDispatcher defines the secondary port for notifying
// users. The bundled adapter stores durable records; delivery
// transport beyond that is outside this engine.
type NotificationDispatcher interface {
	// Notify records a notification for a user. Failures are logged by
	// callers but never roll back the assignment that triggered them.
	Notify(ctx context.Context, n *NotificationRecord) error

	// ListFor returns a user's notifications, newest first.
	ListFor(ctx context.Context, userID string, unreadOnly bool) ([]*NotificationRecord, error)
}

// NotificationRecord represents a notification as stored.
type NotificationRecord struct {
	ID        string
	UserID    string
	Kind      string
	Message   string
	RefType   string
	RefID     string
	Read      bool
	CreatedAt string
}

// CalendarRepository defines the secondary port for office-hours data.
type CalendarRepository interface {
	// ServiceDays returns the configured workday windows.
	ServiceDays(ctx context.Context) ([]*ServiceDayRecord, error)

	// SetServiceDay creates or replaces the window for one weekday.
	SetServiceDay(ctx context.Context, day *ServiceDayRecord) error

	// IsHoliday reports whether the date is a holiday in the calendar.
	IsHoliday(ctx context.Context, day, calendar string) (bool, error)

	// AddHoliday records a holiday.
	AddHoliday(ctx context.Context, holiday *HolidayRecord) error

	// Holidays returns the holidays of a calendar ordered by date.
	Holidays(ctx context.Context, calendar string) ([]*HolidayRecord, error)
}

// ServiceDayRecord represents one weekday's window as stored.
type ServiceDayRecord struct {
	Weekday   string
	StartTime string
	EndTime   string
	Open      bool
}

// HolidayRecord represents one holiday as stored.
type HolidayRecord struct {
	Day         string
	Calendar    string
	Description string
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}
