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

// itemColumns maps an item type to the column names its table uses for
// the human-facing fields. Everything else is identical between leads
// and tickets.
type itemColumns struct {
	title string
	extra string
}

var itemTables = map[models.ItemType]itemColumns{
	models.ItemTypeLead:   {title: "name", extra: "source"},
	models.ItemTypeTicket: {title: "subject", extra: "customer"},
}

// WorkItemRepository implements secondary.WorkItemRepository with
// SQLite, dispatching to the leads or tickets table per item type.
type WorkItemRepository struct {
	db *sql.DB
}

// NewWorkItemRepository creates a new SQLite work item repository.
func NewWorkItemRepository(db *sql.DB) *WorkItemRepository {
	return &WorkItemRepository{db: db}
}

func itemQueryParts(itemType models.ItemType) (string, itemColumns, error) {
	cols, ok := itemTables[itemType]
	if !ok {
		return "", itemColumns{}, fmt.Errorf("unknown item type: %q", itemType)
	}
	return itemType.Table(), cols, nil
}

// Get retrieves a work item.
func (r *WorkItemRepository) Get(ctx context.Context, itemType models.ItemType, id string) (*secondary.WorkItemRecord, error) {
	table, cols, err := itemQueryParts(itemType)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`SELECT id, %s, %s, assigned_role, assigned_to, assignees, final_overdue_task, status, created_at, updated_at FROM %s WHERE id = ?`,
		cols.title, cols.extra, table,
	)
	record, err := scanItem(r.db.QueryRowContext(ctx, query, id), itemType)
	if err == sql.ErrNoRows {
		return nil, secondary.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", itemType, err)
	}
	return record, nil
}

// Create persists a new work item.
func (r *WorkItemRepository) Create(ctx context.Context, item *secondary.WorkItemRecord) error {
	table, cols, err := itemQueryParts(item.Type)
	if err != nil {
		return err
	}

	assignees := item.Assignees
	if assignees == nil {
		assignees = []string{}
	}
	assigneesJSON, err := json.Marshal(assignees)
	if err != nil {
		return fmt.Errorf("failed to encode assignees: %w", err)
	}

	status := item.Status
	if status == "" {
		status = models.ItemStatusOpen
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (id, %s, %s, assigned_role, assigned_to, assignees, final_overdue_task, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		table, cols.title, cols.extra,
	)
	_, err = r.db.ExecContext(ctx, query,
		item.ID,
		item.Title,
		nullString(item.Extra),
		nullString(item.AssignedRole),
		nullString(item.AssignedTo),
		string(assigneesJSON),
		nullString(item.FinalOverdueTask),
		status,
		nullString(item.CreatedAt),
		nullString(item.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", item.Type, err)
	}
	return nil
}

// List returns all items of a type, newest first.
func (r *WorkItemRepository) List(ctx context.Context, itemType models.ItemType) ([]*secondary.WorkItemRecord, error) {
	table, cols, err := itemQueryParts(itemType)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`SELECT id, %s, %s, assigned_role, assigned_to, assignees, final_overdue_task, status, created_at, updated_at FROM %s ORDER BY id DESC`,
		cols.title, cols.extra, table,
	)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", itemType, err)
	}
	defer rows.Close()

	var items []*secondary.WorkItemRecord
	for rows.Next() {
		record, err := scanItem(rows, itemType)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", itemType, err)
		}
		items = append(items, record)
	}
	return items, rows.Err()
}

// SetAssignment writes the current assignee, appends it to the
// assignee set and records the role used (empty for direct).
func (r *WorkItemRepository) SetAssignment(ctx context.Context, itemType models.ItemType, id, user, role string) error {
	item, err := r.Get(ctx, itemType, id)
	if err != nil {
		return err
	}

	assignees := item.Assignees
	found := false
	for _, a := range assignees {
		if a == user {
			found = true
			break
		}
	}
	if !found {
		assignees = append(assignees, user)
	}
	assigneesJSON, err := json.Marshal(assignees)
	if err != nil {
		return fmt.Errorf("failed to encode assignees: %w", err)
	}

	table := itemType.Table()
	query := fmt.Sprintf(
		`UPDATE %s SET assigned_to = ?, assigned_role = ?, assignees = ?, updated_at = ? WHERE id = ?`,
		table,
	)
	_, err = r.db.ExecContext(ctx, query,
		user, nullString(role), string(assigneesJSON),
		time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set assignment: %w", err)
	}
	return nil
}

// SetFinalOverdueTask links the exhausted task from the parent item.
func (r *WorkItemRepository) SetFinalOverdueTask(ctx context.Context, itemType models.ItemType, id, taskID string) error {
	table, _, err := itemQueryParts(itemType)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(
		`UPDATE %s SET final_overdue_task = ?, updated_at = ? WHERE id = ?`,
		table,
	)
	result, err := r.db.ExecContext(ctx, query,
		taskID, time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("failed to link final overdue task: %w", err)
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

// GetNextID returns the next available ID for the item type.
func (r *WorkItemRepository) GetNextID(ctx context.Context, itemType models.ItemType) (string, error) {
	table, _, err := itemQueryParts(itemType)
	if err != nil {
		return "", err
	}

	var maxID int
	prefixLen := len(itemType.IDPrefix()) + 1
	err = r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM %s", prefixLen, table),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next %s ID: %w", itemType, err)
	}

	return fmt.Sprintf("%s%03d", itemType.IDPrefix(), maxID+1), nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner, itemType models.ItemType) (*secondary.WorkItemRecord, error) {
	var (
		extra            sql.NullString
		assignedRole     sql.NullString
		assignedTo       sql.NullString
		assignees        string
		finalOverdueTask sql.NullString
		createdAt        sql.NullTime
		updatedAt        sql.NullTime
	)

	record := &secondary.WorkItemRecord{Type: itemType}
	err := row.Scan(&record.ID, &record.Title, &extra, &assignedRole, &assignedTo, &assignees, &finalOverdueTask, &record.Status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(assignees), &record.Assignees); err != nil {
		return nil, fmt.Errorf("failed to decode assignees: %w", err)
	}
	record.Extra = extra.String
	record.AssignedRole = assignedRole.String
	record.AssignedTo = assignedTo.String
	record.FinalOverdueTask = finalOverdueTask.String
	if createdAt.Valid {
		record.CreatedAt = createdAt.Time.UTC().Format(time.RFC3339)
	}
	if updatedAt.Valid {
		record.UpdatedAt = updatedAt.Time.UTC().Format(time.RFC3339)
	}
	return record, nil
}

// Ensure WorkItemRepository implements the interface
var _ secondary.WorkItemRepository = (*WorkItemRepository)(nil)
