// Package config loads and saves the engine settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is the operator-edited engine configuration, stored as YAML
// at ~/.rota/config.yaml. Workday windows and holidays live in the
// database; these are the knobs around them.
type Settings struct {
	EnforceOfficeHours        bool     `yaml:"enforce_office_hours"`
	EnforceOnManualAssignment bool     `yaml:"enforce_on_manual_assignment"`
	HolidayCalendarID         string   `yaml:"holiday_calendar_id"`
	OverdueGraceMinutes       int      `yaml:"overdue_grace_minutes"`
	RoleAssignmentDueHours    int      `yaml:"role_assignment_due_hours"`
	ReassignmentDueHours      int      `yaml:"reassignment_due_hours"`
	DefaultTaskDueHours       int      `yaml:"default_task_due_hours"`
	SweepBudgetMinutes        int      `yaml:"sweep_budget_minutes"`
	ExcludedUserIDs           []string `yaml:"excluded_user_ids"`
	AdminRoles                []string `yaml:"admin_roles"`
	AdminUserIDs              []string `yaml:"admin_user_ids"`
}

// Default returns the settings used when no config file exists.
func Default() *Settings {
	return &Settings{
		EnforceOfficeHours:        false,
		EnforceOnManualAssignment: false,
		HolidayCalendarID:         "default",
		OverdueGraceMinutes:       30,
		RoleAssignmentDueHours:    2,
		ReassignmentDueHours:      24,
		DefaultTaskDueHours:       2,
		SweepBudgetMinutes:        3,
		ExcludedUserIDs:           nil,
		AdminRoles:                []string{"System Manager"},
		AdminUserIDs:              []string{"admin"},
	}
}

// GracePeriod returns the overdue grace period as a duration.
func (s *Settings) GracePeriod() time.Duration {
	return time.Duration(s.OverdueGraceMinutes) * time.Minute
}

// RoleAssignmentDue returns the due extension applied on role
// assignment.
func (s *Settings) RoleAssignmentDue() time.Duration {
	return time.Duration(s.RoleAssignmentDueHours) * time.Hour
}

// ReassignmentDue returns the due extension applied when the sweep
// reassigns an overdue task.
func (s *Settings) ReassignmentDue() time.Duration {
	return time.Duration(s.ReassignmentDueHours) * time.Hour
}

// DefaultTaskDue returns the due window for newly created tasks.
func (s *Settings) DefaultTaskDue() time.Duration {
	return time.Duration(s.DefaultTaskDueHours) * time.Hour
}

// SweepBudget returns the wall-clock budget for one sweep pass.
func (s *Settings) SweepBudget() time.Duration {
	return time.Duration(s.SweepBudgetMinutes) * time.Minute
}

// ConfigDir returns the rota dot-directory. The ROTA_HOME environment
// variable overrides the default ~/.rota.
func ConfigDir() (string, error) {
	if d := os.Getenv("ROTA_HOME"); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".rota"), nil
}

// Load reads config.yaml from the given directory. A missing file
// yields the defaults; a malformed file is an error.
func Load(dir string) (*Settings, error) {
	path := filepath.Join(dir, "config.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Save writes config.yaml to the given directory.
func Save(dir string, cfg *Settings) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
