// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for
// tests. All test setup functions use db.GetSchemaSQL() so tests run
// against the authoritative schema, preventing drift between test and
// production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use
// setupTestDB() and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/rota/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedUser inserts a test user with the given roles.
func seedUser(t *testing.T, db *sql.DB, id string, enabled bool, roles ...string) {
	t.Helper()
	_, err := db.Exec("INSERT INTO users (id, full_name, enabled) VALUES (?, ?, ?)", id, id, enabled)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	for _, role := range roles {
		if _, err := db.Exec("INSERT INTO user_roles (user_id, role) VALUES (?, ?)", id, role); err != nil {
			t.Fatalf("failed to seed role: %v", err)
		}
	}
}

// seedLead inserts a test lead and returns its ID.
func seedLead(t *testing.T, db *sql.DB, id, name string) string {
	t.Helper()
	if id == "" {
		id = "LEAD-001"
	}
	if name == "" {
		name = "Test Lead"
	}
	_, err := db.Exec("INSERT INTO leads (id, name, status) VALUES (?, ?, 'open')", id, name)
	if err != nil {
		t.Fatalf("failed to seed lead: %v", err)
	}
	return id
}

// seedTask inserts a test task and returns its ID.
func seedTask(t *testing.T, db *sql.DB, id, itemID, assignedTo, status, dueAt string) string {
	t.Helper()
	if id == "" {
		id = "TASK-001"
	}
	_, err := db.Exec(
		`INSERT INTO tasks (id, title, item_type, item_id, assigned_to, assignees, status, due_at)
		 VALUES (?, 'Test Task', 'lead', ?, ?, ?, ?, ?)`,
		id, itemID, assignedTo, `["`+assignedTo+`"]`, status, dueAt,
	)
	if err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
	return id
}
