package primary

import (
	"context"

	"github.com/example/rota/internal/models"
)

// AssignmentService defines the primary port for assigning work items.
type AssignmentService interface {
	// AssignByRole routes the item to the next user of the role by
	// round-robin, excluding users already on the item. Fails with
	// ErrNoEligibleUsers, PoolExhaustedError or ErrItemNotFound.
	AssignByRole(ctx context.Context, req AssignByRoleRequest) (*AssignmentResult, error)

	// AssignDirect assigns the item to a specific user, bypassing
	// rotation. Used for admin override and approved assignment
	// requests. Fails with ErrInvalidUser or ErrItemNotFound.
	AssignDirect(ctx context.Context, req AssignDirectRequest) (*AssignmentResult, error)
}

// AssignByRoleRequest carries the role-based assignment parameters.
type AssignByRoleRequest struct {
	ItemType   models.ItemType
	ItemID     string
	Role       string
	AssignedBy string
	// SkipTaskSync suppresses follow-up task synchronization.
	SkipTaskSync bool
}

// AssignDirectRequest carries the direct assignment parameters.
type AssignDirectRequest struct {
	ItemType     models.ItemType
	ItemID       string
	UserID       string
	AssignedBy   string
	SkipTaskSync bool
}

// AssignmentResult reports a completed assignment.
type AssignmentResult struct {
	AssignedUser string
	Role         string // empty for direct assignment
	TaskID       string // empty when task sync was skipped
	TaskDueAt    string
}

// WorkItem is a work item at the port boundary. Field semantics are
// identical for leads and tickets; the strategy table maps the storage
// differences.
type WorkItem struct {
	Type             models.ItemType
	ID               string
	Title            string
	AssignedRole     string
	AssignedTo       string
	Assignees        []string
	FinalOverdueTask string
	Status           string
	CreatedAt        string
}

// FollowUpTask is a follow-up task at the port boundary.
type FollowUpTask struct {
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
}
