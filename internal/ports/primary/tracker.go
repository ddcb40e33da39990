// Package primary defines the primary ports (driving interfaces) for
// the rota engine, the operations an API layer or CLI invokes.
package primary

import (
	"context"

	"github.com/example/rota/internal/models"
)

// TrackerService defines the primary port for round-robin tracker
// operations. One persistent tracker exists per role; it is created
// lazily on the first assignment request for that role.
type TrackerService interface {
	// PeekNext previews who would be assigned next for a role without
	// mutating any state.
	PeekNext(ctx context.Context, role string) (string, *TrackerStatus, error)

	// Advance performs the core rotation state transition and returns
	// the assigned user. The tracker reconciles against the live
	// eligible list before selecting.
	Advance(ctx context.Context, role string, item AdvanceItem, assignedBy string) (string, error)

	// AdvanceFromSubset performs the same transition but rotates within
	// the allowed subset, used when some eligible users are already
	// assigned to the specific item. An empty subset returns
	// PoolExhaustedError.
	AdvanceFromSubset(ctx context.Context, role string, subset []string, item AdvanceItem, assignedBy string) (string, error)

	// Status reports the tracker state for a role.
	Status(ctx context.Context, role string) (*TrackerStatus, error)

	// History returns the most recent assignment history entries,
	// newest first.
	History(ctx context.Context, role string, limit int) ([]HistoryEntry, error)

	// Reset sets the rotation position back to zero. Admin operation.
	Reset(ctx context.Context, role string) error
}

// AdvanceItem identifies the work item a rotation step is serving.
type AdvanceItem struct {
	Type models.ItemType
	ID   string
}

// TrackerStatus is the inspectable tracker state at the port boundary.
type TrackerStatus struct {
	RoleName         string
	UserList         []string
	CurrentPosition  int
	NextUser         string
	LastAssignedUser string
	LastAssignedAt   string
	AssignmentCount  int
	TotalUsers       int
}

// HistoryEntry is one bounded-log assignment record.
type HistoryEntry struct {
	User       string `json:"user"`
	ItemType   string `json:"item_type"`
	ItemID     string `json:"item_id"`
	AssignedBy string `json:"assigned_by"`
	AssignedAt string `json:"assigned_at"`
	Position   int    `json:"position"`
}
