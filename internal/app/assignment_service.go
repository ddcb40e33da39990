package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/rota/internal/config"
	"github.com/example/rota/internal/core/assign"
	"github.com/example/rota/internal/models"
	"github.com/example/rota/internal/ports/primary"
	"github.com/example/rota/internal/ports/secondary"
)

// AssignmentServiceImpl implements the AssignmentService interface.
// Round-robin routing goes through the tracker service; direct
// assignment bypasses it and leaves the rotation pointer untouched.
type AssignmentServiceImpl struct {
	items    secondary.WorkItemRepository
	tasks    secondary.TaskRepository
	users    secondary.UserDirectory
	activity secondary.ActivityRepository
	notify   secondary.NotificationDispatcher
	tracker  primary.TrackerService
	resolver *EligibilityResolver
	clock    secondary.Clock
	cfg      *config.Settings
}

// NewAssignmentService creates a new AssignmentService with injected dependencies.
func NewAssignmentService(
	items secondary.WorkItemRepository,
	tasks secondary.TaskRepository,
	users secondary.UserDirectory,
	activity secondary.ActivityRepository,
	notify secondary.NotificationDispatcher,
	tracker primary.TrackerService,
	resolver *EligibilityResolver,
	clock secondary.Clock,
	cfg *config.Settings,
) *AssignmentServiceImpl {
	return &AssignmentServiceImpl{
		items:    items,
		tasks:    tasks,
		users:    users,
		activity: activity,
		notify:   notify,
		tracker:  tracker,
		resolver: resolver,
		clock:    clock,
		cfg:      cfg,
	}
}

// AssignByRole routes the item to the next user of the role by
// round-robin, excluding users already attached to the item.
func (s *AssignmentServiceImpl) AssignByRole(ctx context.Context, req primary.AssignByRoleRequest) (*primary.AssignmentResult, error) {
	item, err := s.items.Get(ctx, req.ItemType, req.ItemID)
	if err != nil {
		if err == secondary.ErrNotFound {
			return nil, fmt.Errorf("%w: %s", primary.ErrItemNotFound, req.ItemID)
		}
		return nil, fmt.Errorf("failed to load item: %w", err)
	}

	eligible, err := s.resolver.Resolve(ctx, req.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve eligible users: %w", err)
	}
	if len(eligible) == 0 {
		return nil, fmt.Errorf("%w: %s", primary.ErrNoEligibleUsers, req.Role)
	}

	tried, err := s.triedUsers(ctx, item)
	if err != nil {
		return nil, err
	}
	candidates := subtract(eligible, tried)
	if len(candidates) == 0 {
		return nil, &primary.PoolExhaustedError{
			Role:     req.Role,
			Eligible: eligible,
			Tried:    sortedKeys(tried),
		}
	}

	user, err := s.tracker.AdvanceFromSubset(ctx, req.Role, candidates,
		primary.AdvanceItem{Type: req.ItemType, ID: req.ItemID}, req.AssignedBy)
	if err != nil {
		return nil, err
	}

	if err := s.items.SetAssignment(ctx, req.ItemType, req.ItemID, user, req.Role); err != nil {
		return nil, fmt.Errorf("failed to record assignment: %w", err)
	}

	s.note(ctx, string(req.ItemType), req.ItemID, req.AssignedBy,
		fmt.Sprintf("Assigned to %s via %s rotation", user, req.Role))

	result := &primary.AssignmentResult{AssignedUser: user, Role: req.Role}
	if !req.SkipTaskSync {
		taskID, dueAt, err := s.syncTask(ctx, item, user, s.cfg.RoleAssignmentDue())
		if err != nil {
			return nil, err
		}
		result.TaskID = taskID
		result.TaskDueAt = dueAt
	}

	s.send(ctx, user, models.NotifyKindAssignment,
		fmt.Sprintf("%s %s has been assigned to you", req.ItemType.Label(), req.ItemID),
		string(req.ItemType), req.ItemID)

	return result, nil
}

// AssignDirect assigns the item to a specific user, bypassing rotation.
func (s *AssignmentServiceImpl) AssignDirect(ctx context.Context, req primary.AssignDirectRequest) (*primary.AssignmentResult, error) {
	item, itemErr := s.items.Get(ctx, req.ItemType, req.ItemID)
	if itemErr != nil && itemErr != secondary.ErrNotFound {
		return nil, fmt.Errorf("failed to load item: %w", itemErr)
	}

	user, userErr := s.users.GetUser(ctx, req.UserID)
	if userErr != nil && userErr != secondary.ErrNotFound {
		return nil, fmt.Errorf("failed to load user: %w", userErr)
	}

	guardCtx := assign.DirectAssignContext{
		ItemID:     req.ItemID,
		ItemExists: itemErr == nil,
		UserID:     req.UserID,
	}
	if userErr == nil {
		guardCtx.UserExists = true
		guardCtx.UserEnabled = user.Enabled
	}
	if result := assign.CanAssignDirect(guardCtx); !result.Allowed {
		if !guardCtx.ItemExists {
			return nil, fmt.Errorf("%w: %s", primary.ErrItemNotFound, req.ItemID)
		}
		return nil, fmt.Errorf("%w: %s", primary.ErrInvalidUser, result.Reason)
	}

	if err := s.items.SetAssignment(ctx, req.ItemType, req.ItemID, req.UserID, ""); err != nil {
		return nil, fmt.Errorf("failed to record assignment: %w", err)
	}

	s.note(ctx, string(req.ItemType), req.ItemID, req.AssignedBy,
		fmt.Sprintf("Assigned directly to %s", req.UserID))

	result := &primary.AssignmentResult{AssignedUser: req.UserID}
	if !req.SkipTaskSync {
		taskID, dueAt, err := s.syncTask(ctx, item, req.UserID, s.cfg.RoleAssignmentDue())
		if err != nil {
			return nil, err
		}
		result.TaskID = taskID
		result.TaskDueAt = dueAt
	}

	s.send(ctx, req.UserID, models.NotifyKindAssignment,
		fmt.Sprintf("%s %s has been assigned to you", req.ItemType.Label(), req.ItemID),
		string(req.ItemType), req.ItemID)

	return result, nil
}

// triedUsers collects everyone already attached to the item: its
// assignee set plus the assignee history of its open follow-up task.
func (s *AssignmentServiceImpl) triedUsers(ctx context.Context, item *secondary.WorkItemRecord) (map[string]struct{}, error) {
	tried := toSet(item.Assignees...)
	task, err := s.tasks.FindOpenForItem(ctx, item.Type, item.ID)
	if err != nil {
		if err == secondary.ErrNotFound {
			return tried, nil
		}
		return nil, fmt.Errorf("failed to load follow-up task: %w", err)
	}
	for _, u := range task.Assignees {
		tried[u] = struct{}{}
	}
	if task.AssignedTo != "" {
		tried[task.AssignedTo] = struct{}{}
	}
	return tried, nil
}

// syncTask keeps the follow-up task in step with the item assignment:
// the open task is moved to the new user with a pushed-out due date,
// or a fresh one is created when none is open.
func (s *AssignmentServiceImpl) syncTask(ctx context.Context, item *secondary.WorkItemRecord, user string, dueIn time.Duration) (string, string, error) {
	now := s.clock.Now().UTC()
	dueAt := now.Add(dueIn).Format(time.RFC3339)

	task, err := s.tasks.FindOpenForItem(ctx, item.Type, item.ID)
	if err == nil {
		assignees := appendUnique(task.Assignees, user)
		if err := s.tasks.UpdateAssignment(ctx, task.ID, user, assignees, dueAt, false); err != nil {
			return "", "", fmt.Errorf("failed to update follow-up task: %w", err)
		}
		s.note(ctx, "task", task.ID, user, fmt.Sprintf("Reassigned to %s", user))
		return task.ID, dueAt, nil
	}
	if err != secondary.ErrNotFound {
		return "", "", fmt.Errorf("failed to load follow-up task: %w", err)
	}

	id, err := s.tasks.GetNextID(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to allocate task ID: %w", err)
	}

	dueAt = now.Add(s.cfg.DefaultTaskDue()).Format(time.RFC3339)
	task = &secondary.TaskRecord{
		ID:          id,
		Title:       taskTitle(item),
		Description: fmt.Sprintf("Auto-created for %s %s", item.Type.Label(), item.ID),
		ItemType:    item.Type,
		ItemID:      item.ID,
		AssignedTo:  user,
		Assignees:   []string{user},
		Priority:    models.TaskPriorityMedium,
		Status:      models.TaskStatusOpen,
		DueAt:       dueAt,
		CreatedAt:   now.Format(time.RFC3339),
		UpdatedAt:   now.Format(time.RFC3339),
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return "", "", fmt.Errorf("failed to create follow-up task: %w", err)
	}
	s.note(ctx, "task", id, user, fmt.Sprintf("Created and assigned to %s", user))
	return id, dueAt, nil
}

// taskTitle builds the follow-up task title for a work item.
func taskTitle(item *secondary.WorkItemRecord) string {
	switch item.Type {
	case models.ItemTypeLead:
		return fmt.Sprintf("Follow up on lead: %s", item.Title)
	default:
		return fmt.Sprintf("Handle ticket: %s", item.Title)
	}
}

// note appends a timeline entry; failures are logged, never fatal.
func (s *AssignmentServiceImpl) note(ctx context.Context, entityType, entityID, author, body string) {
	if err := s.activity.Append(ctx, entityType, entityID, author, body); err != nil {
		log.Printf("warning: failed to record activity for %s %s: %v", entityType, entityID, err)
	}
}

// send dispatches a notification; failures are logged, never fatal.
func (s *AssignmentServiceImpl) send(ctx context.Context, userID, kind, message, refType, refID string) {
	err := s.notify.Notify(ctx, &secondary.NotificationRecord{
		UserID:    userID,
		Kind:      kind,
		Message:   message,
		RefType:   refType,
		RefID:     refID,
		CreatedAt: s.clock.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("warning: failed to notify %s: %v", userID, err)
	}
}

// Ensure AssignmentServiceImpl implements the interface
var _ primary.AssignmentService = (*AssignmentServiceImpl)(nil)
