package primary

import (
	"context"

	"github.com/example/rota/internal/models"
)

// ItemService defines the primary port for the minimal work-item and
// task views the CLI needs. Rich entity lifecycles live outside this
// engine; only the fields the router reads and writes are surfaced.
type ItemService interface {
	// CreateLead records a new lead and returns its ID.
	CreateLead(ctx context.Context, name, source string) (string, error)

	// CreateTicket records a new ticket and returns its ID.
	CreateTicket(ctx context.Context, subject, customer string) (string, error)

	// Get returns a work item by its typed ID.
	Get(ctx context.Context, itemType models.ItemType, itemID string) (*WorkItem, error)

	// ListItems returns all items of one type, newest first.
	ListItems(ctx context.Context, itemType models.ItemType) ([]*WorkItem, error)

	// ListTasks returns follow-up tasks matching the filters.
	ListTasks(ctx context.Context, filters TaskFilters) ([]*FollowUpTask, error)

	// Activity returns the timeline notes of an item, newest first.
	Activity(ctx context.Context, itemType models.ItemType, itemID string) ([]ActivityNote, error)
}

// TaskFilters contains filter options for listing tasks.
type TaskFilters struct {
	Status       string
	AssignedTo   string
	FinalOverdue *bool
}

// ActivityNote is one timeline entry at the port boundary.
type ActivityNote struct {
	Author    string
	Body      string
	CreatedAt string
}
