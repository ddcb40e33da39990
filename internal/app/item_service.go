package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/rota/internal/ctxutil"
	"github.com/example/rota/internal/models"
	"github.com/example/rota/internal/ports/primary"
	"github.com/example/rota/internal/ports/secondary"
)

// ItemServiceImpl implements the ItemService interface.
type ItemServiceImpl struct {
	items    secondary.WorkItemRepository
	tasks    secondary.TaskRepository
	activity secondary.ActivityRepository
	clock    secondary.Clock
}

// NewItemService creates a new ItemService with injected dependencies.
func NewItemService(items secondary.WorkItemRepository, tasks secondary.TaskRepository, activity secondary.ActivityRepository, clock secondary.Clock) *ItemServiceImpl {
	return &ItemServiceImpl{
		items:    items,
		tasks:    tasks,
		activity: activity,
		clock:    clock,
	}
}

// CreateLead records a new lead and returns its ID.
func (s *ItemServiceImpl) CreateLead(ctx context.Context, name, source string) (string, error) {
	return s.create(ctx, models.ItemTypeLead, name, source)
}

// CreateTicket records a new ticket and returns its ID.
func (s *ItemServiceImpl) CreateTicket(ctx context.Context, subject, customer string) (string, error) {
	return s.create(ctx, models.ItemTypeTicket, subject, customer)
}

func (s *ItemServiceImpl) create(ctx context.Context, itemType models.ItemType, title, extra string) (string, error) {
	if title == "" {
		return "", fmt.Errorf("a title is required")
	}

	id, err := s.items.GetNextID(ctx, itemType)
	if err != nil {
		return "", fmt.Errorf("failed to allocate ID: %w", err)
	}

	now := s.clock.Now().UTC().Format(time.RFC3339)
	record := &secondary.WorkItemRecord{
		Type:      itemType,
		ID:        id,
		Title:     title,
		Extra:     extra,
		Status:    models.ItemStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.items.Create(ctx, record); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", itemType, err)
	}

	author := ctxutil.ActorFromContext(ctx)
	if author == "" {
		author = "system"
	}
	err = s.activity.Append(ctx, string(itemType), id, author, fmt.Sprintf("Created %s", itemType.Label()))
	if err != nil {
		log.Printf("warning: failed to record creation note for %s: %v", id, err)
	}

	return id, nil
}

// Get returns a work item by its typed ID.
func (s *ItemServiceImpl) Get(ctx context.Context, itemType models.ItemType, itemID string) (*primary.WorkItem, error) {
	record, err := s.items.Get(ctx, itemType, itemID)
	if err != nil {
		if err == secondary.ErrNotFound {
			return nil, fmt.Errorf("%w: %s", primary.ErrItemNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	return s.recordToItem(record), nil
}

// ListItems returns all items of one type, newest first.
func (s *ItemServiceImpl) ListItems(ctx context.Context, itemType models.ItemType) ([]*primary.WorkItem, error) {
	records, err := s.items.List(ctx, itemType)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	out := make([]*primary.WorkItem, len(records))
	for i, r := range records {
		out[i] = s.recordToItem(r)
	}
	return out, nil
}

// ListTasks returns follow-up tasks matching the filters.
func (s *ItemServiceImpl) ListTasks(ctx context.Context, filters primary.TaskFilters) ([]*primary.FollowUpTask, error) {
	records, err := s.tasks.List(ctx, secondary.TaskListFilters{
		Status:       filters.Status,
		AssignedTo:   filters.AssignedTo,
		FinalOverdue: filters.FinalOverdue,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	out := make([]*primary.FollowUpTask, len(records))
	for i, r := range records {
		out[i] = &primary.FollowUpTask{
			ID:                    r.ID,
			Title:                 r.Title,
			Description:           r.Description,
			ItemType:              r.ItemType,
			ItemID:                r.ItemID,
			AssignedTo:            r.AssignedTo,
			Assignees:             r.Assignees,
			Priority:              r.Priority,
			Status:                r.Status,
			DueAt:                 r.DueAt,
			ReassignmentProcessed: r.ReassignmentProcessed,
			FinalOverdue:          r.FinalOverdue,
			CreatedAt:             r.CreatedAt,
		}
	}
	return out, nil
}

// Activity returns the timeline notes of an item, newest first.
func (s *ItemServiceImpl) Activity(ctx context.Context, itemType models.ItemType, itemID string) ([]primary.ActivityNote, error) {
	records, err := s.activity.ListFor(ctx, string(itemType), itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	out := make([]primary.ActivityNote, len(records))
	for i, r := range records {
		out[i] = primary.ActivityNote{
			Author:    r.Author,
			Body:      r.Body,
			CreatedAt: r.CreatedAt,
		}
	}
	return out, nil
}

func (s *ItemServiceImpl) recordToItem(r *secondary.WorkItemRecord) *primary.WorkItem {
	return &primary.WorkItem{
		Type:             r.Type,
		ID:               r.ID,
		Title:            r.Title,
		AssignedRole:     r.AssignedRole,
		AssignedTo:       r.AssignedTo,
		Assignees:        r.Assignees,
		FinalOverdueTask: r.FinalOverdueTask,
		Status:           r.Status,
		CreatedAt:        r.CreatedAt,
	}
}

// Ensure ItemServiceImpl implements the interface
var _ primary.ItemService = (*ItemServiceImpl)(nil)
