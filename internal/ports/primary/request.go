package primary

import (
	"context"

	"github.com/example/rota/internal/models"
)

// RequestService defines the primary port for the assignment request
// workflow: a non-admin asks for an item to be assigned to a specific
// user, and an admin approves or rejects.
type RequestService interface {
	// Create files a pending request, posts a timeline note on the
	// item and notifies the admins and the requester.
	Create(ctx context.Context, req CreateRequestInput) (*AssignmentRequest, error)

	// Approve requires an admin; it performs the direct assignment and
	// marks the request approved. Terminal.
	Approve(ctx context.Context, requestID, approvedBy, note string) error

	// Reject requires an admin; it marks the request rejected with the
	// reason. Terminal.
	Reject(ctx context.Context, requestID, rejectedBy, reason string) error

	// List returns requests visible to the viewer: admins see all,
	// everyone else only their own.
	List(ctx context.Context, viewer string, filters RequestFilters) ([]*AssignmentRequest, error)
}

// CreateRequestInput carries the request-creation parameters.
type CreateRequestInput struct {
	ItemType      models.ItemType
	ItemID        string
	RequestedUser string
	RequestedBy   string
	Reason        string
}

// RequestFilters contains filter options for listing requests.
type RequestFilters struct {
	Status string
	// Mine restricts the listing to the viewer's own requests even for
	// admins.
	Mine bool
}

// AssignmentRequest is a request entity at the port boundary.
// Lifecycle: pending until approved or rejected, immutable afterward.
type AssignmentRequest struct {
	ID              string
	ItemType        models.ItemType
	ItemID          string
	RequestedUser   string
	RequestedBy     string
	Reason          string
	Status          string // 'pending', 'approved', 'rejected'
	DecidedBy       string // May be empty
	DecidedAt       string // May be empty
	DecisionNote    string // May be empty
	RejectionReason string // May be empty
	CreatedAt       string
}
