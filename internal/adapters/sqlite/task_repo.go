package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/rota/internal/models"
	"github.com/example/rota/internal/ports/secondary"
)

const taskColumns = `id, title, description, item_type, item_id, assigned_to, assignees, priority, status, due_at, reassignment_processed, final_overdue, created_at, updated_at`

// TaskRepository implements secondary.TaskRepository with SQLite.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new SQLite task repository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*secondary.TaskRecord, error) {
	record, err := scanTask(r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, secondary.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return record, nil
}

// FindOpenForItem returns the oldest non-terminal task for an item.
func (r *TaskRepository) FindOpenForItem(ctx context.Context, itemType models.ItemType, itemID string) (*secondary.TaskRecord, error) {
	record, err := scanTask(r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE item_type = ? AND item_id = ? AND status IN (?, ?)
		 ORDER BY id LIMIT 1`,
		itemType, itemID, models.TaskStatusOpen, models.TaskStatusInProgress,
	))
	if err == sql.ErrNoRows {
		return nil, secondary.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find open task: %w", err)
	}
	return record, nil
}

// Create persists a new task.
func (r *TaskRepository) Create(ctx context.Context, task *secondary.TaskRecord) error {
	assignees := task.Assignees
	if assignees == nil {
		assignees = []string{}
	}
	assigneesJSON, err := json.Marshal(assignees)
	if err != nil {
		return fmt.Errorf("failed to encode assignees: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID,
		task.Title,
		nullString(task.Description),
		task.ItemType,
		task.ItemID,
		nullString(task.AssignedTo),
		string(assigneesJSON),
		task.Priority,
		task.Status,
		nullString(task.DueAt),
		task.ReassignmentProcessed,
		task.FinalOverdue,
		nullString(task.CreatedAt),
		nullString(task.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// UpdateAssignment rewrites the assignment fields of a task in place.
func (r *TaskRepository) UpdateAssignment(ctx context.Context, id, assignedTo string, assignees []string, dueAt string, processed bool) error {
	if assignees == nil {
		assignees = []string{}
	}
	assigneesJSON, err := json.Marshal(assignees)
	if err != nil {
		return fmt.Errorf("failed to encode assignees: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET assigned_to = ?, assignees = ?, due_at = ?, reassignment_processed = ?, updated_at = ? WHERE id = ?`,
		assignedTo,
		string(assigneesJSON),
		nullString(dueAt),
		processed,
		time.Now().UTC().Format(time.RFC3339),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update task assignment: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rowsAffected == 0 {
		return secondary.ErrNotFound
	}
	return nil
}

// MarkFinalOverdue sets the terminal final_overdue flag.
func (r *TaskRepository) MarkFinalOverdue(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET final_overdue = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark task final overdue: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rowsAffected == 0 {
		return secondary.ErrNotFound
	}
	return nil
}

// ListOverdue returns active, unexhausted tasks whose due date is at
// or before the cutoff, oldest first.
func (r *TaskRepository) ListOverdue(ctx context.Context, cutoff time.Time) ([]*secondary.TaskRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE status IN (?, ?) AND final_overdue = 0 AND due_at IS NOT NULL AND due_at <= ?
		 ORDER BY due_at`,
		models.TaskStatusOpen, models.TaskStatusInProgress,
		cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// List returns tasks matching the filters, newest first.
func (r *TaskRepository) List(ctx context.Context, filters secondary.TaskListFilters) ([]*secondary.TaskRecord, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.AssignedTo != "" {
		query += " AND assigned_to = ?"
		args = append(args, filters.AssignedTo)
	}
	if filters.FinalOverdue != nil {
		query += " AND final_overdue = ?"
		args = append(args, *filters.FinalOverdue)
	}
	if filters.ItemType != "" {
		query += " AND item_type = ?"
		args = append(args, filters.ItemType)
	}
	if filters.ItemID != "" {
		query += " AND item_id = ?"
		args = append(args, filters.ItemID)
	}

	query += " ORDER BY id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// GetNextID returns the next available task ID.
func (r *TaskRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("TASK-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM tasks", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next task ID: %w", err)
	}

	return fmt.Sprintf("TASK-%03d", maxID+1), nil
}

func collectTasks(rows *sql.Rows) ([]*secondary.TaskRecord, error) {
	var tasks []*secondary.TaskRecord
	for rows.Next() {
		record, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, record)
	}
	return tasks, rows.Err()
}

func scanTask(row scanner) (*secondary.TaskRecord, error) {
	var (
		description sql.NullString
		itemType    string
		assignedTo  sql.NullString
		assignees   string
		dueAt       sql.NullTime
		createdAt   sql.NullTime
		updatedAt   sql.NullTime
	)

	record := &secondary.TaskRecord{}
	err := row.Scan(&record.ID, &record.Title, &description, &itemType, &record.ItemID, &assignedTo, &assignees, &record.Priority, &record.Status, &dueAt, &record.ReassignmentProcessed, &record.FinalOverdue, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(assignees), &record.Assignees); err != nil {
		return nil, fmt.Errorf("failed to decode assignees: %w", err)
	}
	record.ItemType = models.ItemType(itemType)
	record.Description = description.String
	record.AssignedTo = assignedTo.String
	if dueAt.Valid {
		record.DueAt = dueAt.Time.UTC().Format(time.RFC3339)
	}
	if createdAt.Valid {
		record.CreatedAt = createdAt.Time.UTC().Format(time.RFC3339)
	}
	if updatedAt.Valid {
		record.UpdatedAt = updatedAt.Time.UTC().Format(time.RFC3339)
	}
	return record, nil
}

// Ensure TaskRepository implements the interface
var _ secondary.TaskRepository = (*TaskRepository)(nil)
