package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/rota/internal/adapters/sqlite"
	"github.com/example/rota/internal/models"
	"github.com/example/rota/internal/ports/secondary"
)

func TestWorkItemRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewWorkItemRepository(db)
	ctx := context.Background()

	lead := &secondary.WorkItemRecord{
		Type:      models.ItemTypeLead,
		ID:        "LEAD-001",
		Title:     "Acme Corp",
		Extra:     "webform",
		Status:    models.ItemStatusOpen,
		CreatedAt: "2025-06-02T10:00:00Z",
	}
	if err := repo.Create(ctx, lead); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.Get(ctx, models.ItemTypeLead, "LEAD-001")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "Acme Corp" || got.Extra != "webform" {
		t.Errorf("unexpected item: %+v", got)
	}
	if len(got.Assignees) != 0 {
		t.Errorf("expected empty assignee set, got %v", got.Assignees)
	}

	// The same ID in the other table does not collide.
	ticket := &secondary.WorkItemRecord{
		Type:   models.ItemTypeTicket,
		ID:     "TICK-001",
		Title:  "Printer down",
		Status: models.ItemStatusOpen,
	}
	if err := repo.Create(ctx, ticket); err != nil {
		t.Fatalf("Create ticket failed: %v", err)
	}
	if _, err := repo.Get(ctx, models.ItemTypeTicket, "LEAD-001"); err != secondary.ErrNotFound {
		t.Errorf("expected ErrNotFound across tables, got %v", err)
	}
}

func TestWorkItemRepository_SetAssignmentAccumulates(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewWorkItemRepository(db)
	ctx := context.Background()
	seedLead(t, db, "LEAD-001", "Acme")

	if err := repo.SetAssignment(ctx, models.ItemTypeLead, "LEAD-001", "ann", "Sales User"); err != nil {
		t.Fatalf("SetAssignment failed: %v", err)
	}
	if err := repo.SetAssignment(ctx, models.ItemTypeLead, "LEAD-001", "bruno", "Sales User"); err != nil {
		t.Fatalf("SetAssignment failed: %v", err)
	}
	// Re-assigning the same user does not duplicate.
	if err := repo.SetAssignment(ctx, models.ItemTypeLead, "LEAD-001", "ann", ""); err != nil {
		t.Fatalf("SetAssignment failed: %v", err)
	}

	got, err := repo.Get(ctx, models.ItemTypeLead, "LEAD-001")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.AssignedTo != "ann" {
		t.Errorf("expected current assignee ann, got %s", got.AssignedTo)
	}
	if got.AssignedRole != "" {
		t.Errorf("expected role cleared on direct assignment, got %q", got.AssignedRole)
	}
	if len(got.Assignees) != 2 {
		t.Errorf("expected 2 distinct assignees, got %v", got.Assignees)
	}
}

func TestWorkItemRepository_SetFinalOverdueTask(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewWorkItemRepository(db)
	ctx := context.Background()
	seedLead(t, db, "LEAD-001", "Acme")

	if err := repo.SetFinalOverdueTask(ctx, models.ItemTypeLead, "LEAD-001", "TASK-007"); err != nil {
		t.Fatalf("SetFinalOverdueTask failed: %v", err)
	}
	got, _ := repo.Get(ctx, models.ItemTypeLead, "LEAD-001")
	if got.FinalOverdueTask != "TASK-007" {
		t.Errorf("expected TASK-007 linked, got %q", got.FinalOverdueTask)
	}

	if err := repo.SetFinalOverdueTask(ctx, models.ItemTypeLead, "LEAD-999", "TASK-007"); err != secondary.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestWorkItemRepository_GetNextID(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewWorkItemRepository(db)
	ctx := context.Background()

	id, err := repo.GetNextID(ctx, models.ItemTypeLead)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "LEAD-001" {
		t.Errorf("expected LEAD-001 on empty table, got %s", id)
	}

	seedLead(t, db, "LEAD-007", "Acme")
	id, err = repo.GetNextID(ctx, models.ItemTypeLead)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "LEAD-008" {
		t.Errorf("expected LEAD-008, got %s", id)
	}

	// Tickets count independently.
	id, err = repo.GetNextID(ctx, models.ItemTypeTicket)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "TICK-001" {
		t.Errorf("expected TICK-001, got %s", id)
	}
}
