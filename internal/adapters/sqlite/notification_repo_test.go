package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/rota/internal/adapters/sqlite"
	"github.com/example/rota/internal/models"
	"github.com/example/rota/internal/ports/secondary"
)

func TestNotificationRepository_NotifyAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewNotificationRepository(db)
	ctx := context.Background()

	notices := []*secondary.NotificationRecord{
		{UserID: "ann", Kind: models.NotifyKindAssignment, Message: "Lead LEAD-001 assigned", RefType: "lead", RefID: "LEAD-001"},
		{UserID: "ann", Kind: models.NotifyKindReassignment, Message: "Task TASK-001 reassigned", RefType: "task", RefID: "TASK-001"},
		{UserID: "bruno", Kind: models.NotifyKindAssignment, Message: "Lead LEAD-002 assigned"},
	}
	for _, n := range notices {
		if err := repo.Notify(ctx, n); err != nil {
			t.Fatalf("Notify failed: %v", err)
		}
	}

	got, err := repo.ListFor(ctx, "ann", false)
	if err != nil {
		t.Fatalf("ListFor failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 notifications for ann, got %d", len(got))
	}
	// Newest first.
	if got[0].Kind != models.NotifyKindReassignment {
		t.Errorf("expected newest first, got %s", got[0].Kind)
	}
	if got[0].ID == "" || got[0].ID == got[1].ID {
		t.Errorf("expected distinct allocated IDs, got %q and %q", got[0].ID, got[1].ID)
	}
}

func TestNotificationRepository_UnreadFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewNotificationRepository(db)
	ctx := context.Background()

	if err := repo.Notify(ctx, &secondary.NotificationRecord{UserID: "ann", Kind: models.NotifyKindAssignment, Message: "one"}); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if err := repo.Notify(ctx, &secondary.NotificationRecord{UserID: "ann", Kind: models.NotifyKindAssignment, Message: "two", Read: true}); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	unread, err := repo.ListFor(ctx, "ann", true)
	if err != nil {
		t.Fatalf("ListFor failed: %v", err)
	}
	if len(unread) != 1 || unread[0].Message != "one" {
		t.Errorf("unexpected unread list: %+v", unread)
	}
}
