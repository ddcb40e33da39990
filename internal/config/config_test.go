package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.EnforceOfficeHours {
		t.Error("enforce_office_hours should default to false")
	}
	if cfg.OverdueGraceMinutes != 30 {
		t.Errorf("overdue_grace_minutes = %d, want 30", cfg.OverdueGraceMinutes)
	}
	if cfg.HolidayCalendarID != "default" {
		t.Errorf("holiday_calendar_id = %q, want default", cfg.HolidayCalendarID)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.EnforceOfficeHours = true
	cfg.OverdueGraceMinutes = 10
	cfg.ExcludedUserIDs = []string{"svc-bot"}

	if err := Save(dir, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !got.EnforceOfficeHours {
		t.Error("enforce_office_hours not persisted")
	}
	if got.OverdueGraceMinutes != 10 {
		t.Errorf("overdue_grace_minutes = %d, want 10", got.OverdueGraceMinutes)
	}
	if len(got.ExcludedUserIDs) != 1 || got.ExcludedUserIDs[0] != "svc-bot" {
		t.Errorf("excluded_user_ids = %v, want [svc-bot]", got.ExcludedUserIDs)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	partial := "enforce_office_hours: true\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(partial), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.EnforceOfficeHours {
		t.Error("explicit value not applied")
	}
	if cfg.SweepBudgetMinutes != 3 {
		t.Errorf("sweep_budget_minutes = %d, want default 3", cfg.SweepBudgetMinutes)
	}
}

func TestLoadMalformedFileFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("malformed config should fail to load")
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := Default()
	if cfg.GracePeriod() != 30*time.Minute {
		t.Errorf("GracePeriod = %v", cfg.GracePeriod())
	}
	if cfg.RoleAssignmentDue() != 2*time.Hour {
		t.Errorf("RoleAssignmentDue = %v", cfg.RoleAssignmentDue())
	}
	if cfg.ReassignmentDue() != 24*time.Hour {
		t.Errorf("ReassignmentDue = %v", cfg.ReassignmentDue())
	}
}
