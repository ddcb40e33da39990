package db

// SchemaSQL is the complete schema for fresh rota installs.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests
// load it via GetSchemaSQL(); test files must not hardcode CREATE TABLE
// statements. If repository code references a column missing here,
// tests fail immediately with "no such column" instead of drifting.
const SchemaSQL = `
-- Users (the directory the eligibility resolver reads)
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	full_name TEXT NOT NULL,
	email TEXT,
	enabled INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS user_roles (
	user_id TEXT NOT NULL,
	role TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
	UNIQUE(user_id, role)
);

-- Role trackers (one persistent round-robin record per role)
CREATE TABLE IF NOT EXISTS role_trackers (
	role_name TEXT PRIMARY KEY,
	user_list TEXT NOT NULL DEFAULT '[]',
	current_position INTEGER NOT NULL DEFAULT 0,
	last_assigned_user TEXT,
	last_assigned_at DATETIME,
	assignment_count INTEGER NOT NULL DEFAULT 0,
	assignment_history TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Leads (work items routed to the Sales User role)
CREATE TABLE IF NOT EXISTS leads (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	source TEXT,
	assigned_role TEXT,
	assigned_to TEXT,
	assignees TEXT NOT NULL DEFAULT '[]',
	final_overdue_task TEXT,
	status TEXT NOT NULL CHECK(status IN ('open', 'closed')) DEFAULT 'open',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Tickets (work items routed to the Support User role)
CREATE TABLE IF NOT EXISTS tickets (
	id TEXT PRIMARY KEY,
	subject TEXT NOT NULL,
	customer TEXT,
	assigned_role TEXT,
	assigned_to TEXT,
	assignees TEXT NOT NULL DEFAULT '[]',
	final_overdue_task TEXT,
	status TEXT NOT NULL CHECK(status IN ('open', 'closed')) DEFAULT 'open',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Follow-up tasks (one active task per work item while unresolved)
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	item_type TEXT NOT NULL CHECK(item_type IN ('lead', 'ticket')),
	item_id TEXT NOT NULL,
	assigned_to TEXT,
	assignees TEXT NOT NULL DEFAULT '[]',
	priority TEXT NOT NULL CHECK(priority IN ('low', 'medium', 'high')) DEFAULT 'medium',
	status TEXT NOT NULL CHECK(status IN ('open', 'in_progress', 'done', 'canceled')) DEFAULT 'open',
	due_at DATETIME,
	reassignment_processed INTEGER NOT NULL DEFAULT 0,
	final_overdue INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tasks_item ON tasks(item_type, item_id);
CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(status, due_at, final_overdue);

-- Assignment requests (human-in-the-loop approval workflow)
CREATE TABLE IF NOT EXISTS assignment_requests (
	id TEXT PRIMARY KEY,
	item_type TEXT NOT NULL CHECK(item_type IN ('lead', 'ticket')),
	item_id TEXT NOT NULL,
	requested_user TEXT NOT NULL,
	requested_by TEXT NOT NULL,
	reason TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('pending', 'approved', 'rejected')) DEFAULT 'pending',
	decided_by TEXT,
	decided_at DATETIME,
	decision_note TEXT,
	rejection_reason TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Activity timeline notes on items and tasks
CREATE TABLE IF NOT EXISTS activity (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	entity_type TEXT NOT NULL CHECK(entity_type IN ('lead', 'ticket', 'task')),
	entity_id TEXT NOT NULL,
	author TEXT NOT NULL,
	body TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_activity_entity ON activity(entity_type, entity_id);

-- Notifications (durable records; delivery transport is out of scope)
CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	message TEXT NOT NULL,
	ref_type TEXT,
	ref_id TEXT,
	read INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, read);

-- Office hours (one row per weekday)
CREATE TABLE IF NOT EXISTS service_days (
	weekday TEXT PRIMARY KEY CHECK(weekday IN ('Sunday','Monday','Tuesday','Wednesday','Thursday','Friday','Saturday')),
	start_time TEXT,
	end_time TEXT,
	open INTEGER NOT NULL DEFAULT 1
);

-- Holidays (per calendar)
CREATE TABLE IF NOT EXISTS holidays (
	day TEXT NOT NULL,
	calendar TEXT NOT NULL DEFAULT 'default',
	description TEXT,
	PRIMARY KEY (day, calendar)
);
`

// GetSchemaSQL returns the authoritative schema. Tests use this instead
// of hardcoding CREATE TABLE statements.
func GetSchemaSQL() string {
	return SchemaSQL
}
