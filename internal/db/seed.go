package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures:
// a small sales and support team, default office hours, and a few
// unassigned work items to route.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().Format(time.RFC3339)

	users := []struct {
		id, name, email string
		enabled         int
	}{
		{"ann", "Ann Blake", "ann@example.com", 1},
		{"bruno", "Bruno Costa", "bruno@example.com", 1},
		{"carla", "Carla Diaz", "carla@example.com", 1},
		{"dev", "Dev Iyer", "dev@example.com", 1},
		{"elif", "Elif Kaya", "elif@example.com", 1},
		{"root", "Root Admin", "root@example.com", 1},
	}
	for _, u := range users {
		if _, err := database.Exec(
			"INSERT INTO users (id, full_name, email, enabled, created_at) VALUES (?, ?, ?, ?, ?)",
			u.id, u.name, u.email, u.enabled, now,
		); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}

	roles := []struct{ user, role string }{
		{"ann", "Sales User"},
		{"bruno", "Sales User"},
		{"carla", "Sales User"},
		{"dev", "Support User"},
		{"elif", "Support User"},
		{"root", "System Manager"},
	}
	for _, r := range roles {
		if _, err := database.Exec(
			"INSERT INTO user_roles (user_id, role) VALUES (?, ?)",
			r.user, r.role,
		); err != nil {
			return fmt.Errorf("seed roles: %w", err)
		}
	}

	// Monday through Friday, 09:00-18:00
	for _, day := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"} {
		if _, err := database.Exec(
			"INSERT INTO service_days (weekday, start_time, end_time, open) VALUES (?, '09:00', '18:00', 1)",
			day,
		); err != nil {
			return fmt.Errorf("seed service days: %w", err)
		}
	}

	leads := []struct{ id, name, source string }{
		{"LEAD-001", "Hollis Freight", "referral"},
		{"LEAD-002", "Marigold Labs", "webform"},
	}
	for _, l := range leads {
		if _, err := database.Exec(
			"INSERT INTO leads (id, name, source, status, created_at) VALUES (?, ?, ?, 'open', ?)",
			l.id, l.name, l.source, now,
		); err != nil {
			return fmt.Errorf("seed leads: %w", err)
		}
	}

	tickets := []struct{ id, subject, customer string }{
		{"TICK-001", "Login loops back to sign-in page", "Hollis Freight"},
	}
	for _, tk := range tickets {
		if _, err := database.Exec(
			"INSERT INTO tickets (id, subject, customer, status, created_at) VALUES (?, ?, ?, 'open', ?)",
			tk.id, tk.subject, tk.customer, now,
		); err != nil {
			return fmt.Errorf("seed tickets: %w", err)
		}
	}

	return nil
}
