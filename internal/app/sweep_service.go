package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/rota/internal/config"
	"github.com/example/rota/internal/models"
	"github.com/example/rota/internal/ports/primary"
	"github.com/example/rota/internal/ports/secondary"
)

// sweepActor is recorded as the author of sweep-generated activity.
const sweepActor = "rota-sweep"

// SweepServiceImpl implements the SweepService interface. One Run is a
// single bounded pass: collect overdue unprocessed tasks, then either
// reassign each to a not-yet-tried eligible user or mark it final
// overdue and escalate. Tasks are independent; one failure never
// aborts the pass.
type SweepServiceImpl struct {
	tasks    secondary.TaskRepository
	items    secondary.WorkItemRepository
	activity secondary.ActivityRepository
	notify   secondary.NotificationDispatcher
	users    secondary.UserDirectory
	tracker  primary.TrackerService
	hours    primary.OfficeHoursService
	resolver *EligibilityResolver
	clock    secondary.Clock
	cfg      *config.Settings
}

// NewSweepService creates a new SweepService with injected dependencies.
func NewSweepService(
	tasks secondary.TaskRepository,
	items secondary.WorkItemRepository,
	activity secondary.ActivityRepository,
	notify secondary.NotificationDispatcher,
	users secondary.UserDirectory,
	tracker primary.TrackerService,
	hours primary.OfficeHoursService,
	resolver *EligibilityResolver,
	clock secondary.Clock,
	cfg *config.Settings,
) *SweepServiceImpl {
	return &SweepServiceImpl{
		tasks:    tasks,
		items:    items,
		activity: activity,
		notify:   notify,
		users:    users,
		tracker:  tracker,
		hours:    hours,
		resolver: resolver,
		clock:    clock,
		cfg:      cfg,
	}
}

// Run executes one sweep pass.
func (s *SweepServiceImpl) Run(ctx context.Context) (*primary.SweepResult, error) {
	open, err := s.hours.IsOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check office hours: %w", err)
	}
	if !open {
		return &primary.SweepResult{Skipped: true}, nil
	}

	start := s.clock.Now()
	deadline := start.Add(s.cfg.SweepBudget())
	cutoff := start.Add(-s.cfg.GracePeriod())

	candidates, err := s.tasks.ListOverdue(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue tasks: %w", err)
	}

	result := &primary.SweepResult{}
	for _, task := range candidates {
		// Budget check: finish the task in flight, start no new one.
		if s.clock.Now().After(deadline) {
			log.Printf("sweep budget exhausted after %d of %d tasks", result.Checked, len(candidates))
			break
		}
		result.Checked++

		exhausted, err := s.processTask(ctx, task)
		if err != nil {
			log.Printf("warning: sweep failed on task %s: %v", task.ID, err)
			continue
		}
		if exhausted {
			result.Exhausted++
		} else {
			result.Reassigned++
		}
	}
	return result, nil
}

// processTask handles one overdue task: reassign if an untried
// eligible user remains, otherwise mark final overdue and escalate.
// Returns true when the task was exhausted.
func (s *SweepServiceImpl) processTask(ctx context.Context, task *secondary.TaskRecord) (bool, error) {
	role := task.ItemType.Role()

	eligible, err := s.resolver.Resolve(ctx, role)
	if err != nil {
		return false, fmt.Errorf("failed to resolve eligible users: %w", err)
	}

	tried := toSet(task.Assignees...)
	if task.AssignedTo != "" {
		tried[task.AssignedTo] = struct{}{}
	}
	remaining := subtract(eligible, tried)

	if len(remaining) == 0 {
		return true, s.exhaust(ctx, task)
	}
	return false, s.reassign(ctx, task, role, remaining)
}

// reassign moves the task (and its parent item) to the next untried
// user in rotation order and pushes the due date out.
func (s *SweepServiceImpl) reassign(ctx context.Context, task *secondary.TaskRecord, role string, remaining []string) error {
	previous := task.AssignedTo

	user, err := s.tracker.AdvanceFromSubset(ctx, role, remaining,
		primary.AdvanceItem{Type: task.ItemType, ID: task.ItemID}, sweepActor)
	if err != nil {
		return err
	}

	now := s.clock.Now().UTC()
	dueAt := now.Add(s.cfg.ReassignmentDue()).Format(time.RFC3339)
	assignees := appendUnique(task.Assignees, user)

	if err := s.tasks.UpdateAssignment(ctx, task.ID, user, assignees, dueAt, true); err != nil {
		return fmt.Errorf("failed to update task assignment: %w", err)
	}
	if err := s.items.SetAssignment(ctx, task.ItemType, task.ItemID, user, role); err != nil {
		return fmt.Errorf("failed to mirror assignment on item: %w", err)
	}

	s.note(ctx, "task", task.ID,
		fmt.Sprintf("Overdue: reassigned from %s to %s", previous, user))
	s.note(ctx, string(task.ItemType), task.ItemID,
		fmt.Sprintf("Overdue follow-up reassigned from %s to %s", previous, user))

	if previous != "" {
		s.send(ctx, previous, models.NotifyKindReassignment,
			fmt.Sprintf("Task %s was taken over by %s after going overdue", task.ID, user), task.ID)
	}
	s.send(ctx, user, models.NotifyKindReassignment,
		fmt.Sprintf("Overdue task %s has been reassigned to you", task.ID), task.ID)
	return nil
}

// exhaust marks the task final overdue, links it from the parent item
// and notifies the administrators. Terminal: the task never re-enters
// the sweep.
func (s *SweepServiceImpl) exhaust(ctx context.Context, task *secondary.TaskRecord) error {
	if err := s.tasks.MarkFinalOverdue(ctx, task.ID); err != nil {
		return fmt.Errorf("failed to mark task final overdue: %w", err)
	}
	if err := s.items.SetFinalOverdueTask(ctx, task.ItemType, task.ItemID, task.ID); err != nil {
		return fmt.Errorf("failed to link final overdue task: %w", err)
	}

	s.note(ctx, "task", task.ID,
		"All eligible users exhausted; marked final overdue")
	s.note(ctx, string(task.ItemType), task.ItemID,
		fmt.Sprintf("Follow-up %s exhausted the eligible pool and needs manual intervention", task.ID))

	admins, err := adminUsers(ctx, s.users, s.cfg)
	if err != nil {
		log.Printf("warning: failed to resolve admins for task %s: %v", task.ID, err)
		return nil
	}
	for _, admin := range admins {
		s.send(ctx, admin, models.NotifyKindFinalOverdue,
			fmt.Sprintf("Task %s (%s %s) exhausted all eligible users and needs manual intervention",
				task.ID, task.ItemType.Label(), task.ItemID), task.ID)
	}
	return nil
}

func (s *SweepServiceImpl) note(ctx context.Context, entityType, entityID, body string) {
	if err := s.activity.Append(ctx, entityType, entityID, sweepActor, body); err != nil {
		log.Printf("warning: failed to record activity for %s %s: %v", entityType, entityID, err)
	}
}

func (s *SweepServiceImpl) send(ctx context.Context, userID, kind, message, taskID string) {
	err := s.notify.Notify(ctx, &secondary.NotificationRecord{
		UserID:    userID,
		Kind:      kind,
		Message:   message,
		RefType:   "task",
		RefID:     taskID,
		CreatedAt: s.clock.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("warning: failed to notify %s: %v", userID, err)
	}
}

// Ensure SweepServiceImpl implements the interface
var _ primary.SweepService = (*SweepServiceImpl)(nil)
