package app

import (
	"context"
	"testing"
	"time"

	"github.com/example/rota/internal/config"
	"github.com/example/rota/internal/models"
	"github.com/example/rota/internal/ports/secondary"
)

type sweepFixture struct {
	svc      *SweepServiceImpl
	users    *mockUserDirectory
	items    *mockWorkItemRepository
	tasks    *mockTaskRepository
	notify   *mockNotificationDispatcher
	calendar *mockCalendarRepository
	clock    *fixedClock
	cfg      *config.Settings
}

func newSweepFixture() *sweepFixture {
	users := newMockUserDirectory()
	items := newMockWorkItemRepository()
	tasks := newMockTaskRepository()
	activity := newMockActivityRepository()
	notify := newMockNotificationDispatcher()
	calendar := newMockCalendarRepository()
	clock := newFixedClock()
	cfg := config.Default()

	resolver := NewEligibilityResolver(users, cfg.ExcludedUserIDs)
	tracker := NewTrackerService(newMockTrackerRepository(), resolver, clock)
	hours := NewOfficeHoursService(calendar, clock, cfg)
	svc := NewSweepService(tasks, items, activity, notify, users, tracker, hours, resolver, clock, cfg)

	return &sweepFixture{
		svc:      svc,
		users:    users,
		items:    items,
		tasks:    tasks,
		notify:   notify,
		calendar: calendar,
		clock:    clock,
		cfg:      cfg,
	}
}

// overdueTask seeds a task whose due date is past the grace period.
func (f *sweepFixture) overdueTask(id string, itemType models.ItemType, itemID, assignedTo string, assignees ...string) *secondary.TaskRecord {
	due := f.clock.Now().Add(-(f.cfg.GracePeriod() + time.Hour)).UTC().Format(time.RFC3339)
	task := &secondary.TaskRecord{
		ID:         id,
		ItemType:   itemType,
		ItemID:     itemID,
		AssignedTo: assignedTo,
		Assignees:  assignees,
		Status:     models.TaskStatusOpen,
		DueAt:      due,
	}
	f.tasks.tasks[id] = task
	return task
}

func TestSweep_ReassignsOverdueTask(t *testing.T) {
	f := newSweepFixture()
	f.users.addUser("ann", true, "Sales User")
	f.users.addUser("bruno", true, "Sales User")
	f.items.addItem(models.ItemTypeLead, "LEAD-001", "Acme")
	f.overdueTask("TASK-001", models.ItemTypeLead, "LEAD-001", "ann", "ann")
	ctx := context.Background()

	result, err := f.svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Checked != 1 || result.Reassigned != 1 || result.Exhausted != 0 {
		t.Errorf("unexpected result: %+v", result)
	}

	task, _ := f.tasks.GetByID(ctx, "TASK-001")
	if task.AssignedTo != "bruno" {
		t.Errorf("expected bruno after reassignment, got %s", task.AssignedTo)
	}
	if !task.ReassignmentProcessed {
		t.Error("expected the processed flag set")
	}

	due, err := time.Parse(time.RFC3339, task.DueAt)
	if err != nil {
		t.Fatalf("bad due date: %v", err)
	}
	want := f.clock.Now().Add(f.cfg.ReassignmentDue()).UTC()
	if !due.Equal(want) {
		t.Errorf("expected due date pushed to %v, got %v", want, due)
	}

	// Parent item mirrors the new assignee.
	item, _ := f.items.Get(ctx, models.ItemTypeLead, "LEAD-001")
	if item.AssignedTo != "bruno" {
		t.Errorf("expected item mirrored to bruno, got %s", item.AssignedTo)
	}

	// Old and new user both hear about it.
	if kinds := f.notify.sentTo("ann"); len(kinds) != 1 || kinds[0] != models.NotifyKindReassignment {
		t.Errorf("expected reassignment notice for ann, got %v", kinds)
	}
	if kinds := f.notify.sentTo("bruno"); len(kinds) != 1 || kinds[0] != models.NotifyKindReassignment {
		t.Errorf("expected reassignment notice for bruno, got %v", kinds)
	}
}

func TestSweep_SecondRunIsIdempotent(t *testing.T) {
	f := newSweepFixture()
	f.users.addUser("ann", true, "Sales User")
	f.users.addUser("bruno", true, "Sales User")
	f.items.addItem(models.ItemTypeLead, "LEAD-001", "Acme")
	f.overdueTask("TASK-001", models.ItemTypeLead, "LEAD-001", "ann", "ann")
	ctx := context.Background()

	if _, err := f.svc.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// The pushed-out due date keeps the task out of the next pass.
	result, err := f.svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Checked != 0 {
		t.Errorf("expected no candidates on the second run, got %d", result.Checked)
	}
}

func TestSweep_ExhaustionIsTerminal(t *testing.T) {
	f := newSweepFixture()
	f.users.addUser("ann", true, "Sales User")
	f.users.addUser("bruno", true, "Sales User")
	f.users.addUser("root", true, "System Manager")
	f.items.addItem(models.ItemTypeLead, "LEAD-001", "Acme")
	f.overdueTask("TASK-001", models.ItemTypeLead, "LEAD-001", "bruno", "ann", "bruno")
	ctx := context.Background()

	result, err := f.svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Exhausted != 1 || result.Reassigned != 0 {
		t.Errorf("unexpected result: %+v", result)
	}

	task, _ := f.tasks.GetByID(ctx, "TASK-001")
	if !task.FinalOverdue {
		t.Error("expected the task marked final overdue")
	}
	if task.AssignedTo != "bruno" {
		t.Errorf("exhaustion must not move the task, got %s", task.AssignedTo)
	}

	item, _ := f.items.Get(ctx, models.ItemTypeLead, "LEAD-001")
	if item.FinalOverdueTask != "TASK-001" {
		t.Errorf("expected final overdue task linked, got %q", item.FinalOverdueTask)
	}

	// Admin role holder is notified.
	if kinds := f.notify.sentTo("root"); len(kinds) != 1 || kinds[0] != models.NotifyKindFinalOverdue {
		t.Errorf("expected final overdue notice for root, got %v", kinds)
	}

	// Once terminal, later sweeps ignore the task.
	result, err = f.svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Checked != 0 {
		t.Errorf("expected final overdue task excluded from later runs, got %d checked", result.Checked)
	}
}

func TestSweep_SkippedWhenOfficeClosed(t *testing.T) {
	f := newSweepFixture()
	f.cfg.EnforceOfficeHours = true // no service days configured
	f.users.addUser("ann", true, "Sales User")
	f.items.addItem(models.ItemTypeLead, "LEAD-001", "Acme")
	f.overdueTask("TASK-001", models.ItemTypeLead, "LEAD-001", "ann", "ann")
	ctx := context.Background()

	result, err := f.svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.Skipped {
		t.Error("expected the pass skipped with the office closed")
	}
	if result.Checked != 0 {
		t.Errorf("expected no tasks examined, got %d", result.Checked)
	}

	task, _ := f.tasks.GetByID(ctx, "TASK-001")
	if task.AssignedTo != "ann" {
		t.Errorf("skipped pass must not touch tasks, got %s", task.AssignedTo)
	}
}

func TestSweep_GracePeriodRespected(t *testing.T) {
	f := newSweepFixture()
	f.users.addUser("ann", true, "Sales User")
	f.users.addUser("bruno", true, "Sales User")
	f.items.addItem(models.ItemTypeLead, "LEAD-001", "Acme")

	// Overdue, but still inside the grace period.
	due := f.clock.Now().Add(-(f.cfg.GracePeriod() - 5*time.Minute)).UTC().Format(time.RFC3339)
	f.tasks.tasks["TASK-001"] = &secondary.TaskRecord{
		ID: "TASK-001", ItemType: models.ItemTypeLead, ItemID: "LEAD-001",
		AssignedTo: "ann", Assignees: []string{"ann"},
		Status: models.TaskStatusOpen, DueAt: due,
	}

	result, err := f.svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Checked != 0 {
		t.Errorf("expected grace period to hold the task back, got %d checked", result.Checked)
	}
}

func TestSweep_FullHandoffChain(t *testing.T) {
	f := newSweepFixture()
	f.users.addUser("ann", true, "Sales User")
	f.users.addUser("bruno", true, "Sales User")
	f.users.addUser("carla", true, "Sales User")
	f.items.addItem(models.ItemTypeLead, "LEAD-001", "Acme")
	f.overdueTask("TASK-001", models.ItemTypeLead, "LEAD-001", "ann", "ann")
	ctx := context.Background()

	seen := map[string]bool{"ann": true}
	for i := 0; i < 2; i++ {
		// Make the task overdue again for the next pass.
		task, _ := f.tasks.GetByID(ctx, "TASK-001")
		task.DueAt = f.clock.Now().Add(-(f.cfg.GracePeriod() + time.Hour)).UTC().Format(time.RFC3339)

		result, err := f.svc.Run(ctx)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if result.Reassigned != 1 {
			t.Fatalf("pass %d: expected a reassignment, got %+v", i+1, result)
		}
		task, _ = f.tasks.GetByID(ctx, "TASK-001")
		if seen[task.AssignedTo] {
			t.Fatalf("pass %d: %s already had the task", i+1, task.AssignedTo)
		}
		seen[task.AssignedTo] = true
	}

	// Everyone has had a turn; the next pass exhausts.
	task, _ := f.tasks.GetByID(ctx, "TASK-001")
	task.DueAt = f.clock.Now().Add(-(f.cfg.GracePeriod() + time.Hour)).UTC().Format(time.RFC3339)
	result, err := f.svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Exhausted != 1 {
		t.Errorf("expected exhaustion after every user was tried, got %+v", result)
	}
}
