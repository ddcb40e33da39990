package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/rota/internal/models"
	"github.com/example/rota/internal/ports/secondary"
)

const requestColumns = `id, item_type, item_id, requested_user, requested_by, reason, status, decided_by, decided_at, decision_note, rejection_reason, created_at`

// RequestRepository implements secondary.RequestRepository with SQLite.
type RequestRepository struct {
	db *sql.DB
}

// NewRequestRepository creates a new SQLite request repository.
func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create persists a new pending request.
func (r *RequestRepository) Create(ctx context.Context, req *secondary.RequestRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO assignment_requests (id, item_type, item_id, requested_user, requested_by, reason, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID,
		req.ItemType,
		req.ItemID,
		req.RequestedUser,
		req.RequestedBy,
		req.Reason,
		req.Status,
		nullString(req.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

// GetByID retrieves a request by its ID.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*secondary.RequestRecord, error) {
	record, err := scanRequest(r.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM assignment_requests WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, secondary.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return record, nil
}

// Decide writes the terminal decision fields.
func (r *RequestRepository) Decide(ctx context.Context, id, status, decidedBy, decidedAt, note, rejectionReason string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE assignment_requests SET status = ?, decided_by = ?, decided_at = ?, decision_note = ?, rejection_reason = ? WHERE id = ?`,
		status,
		decidedBy,
		nullString(decidedAt),
		nullString(note),
		nullString(rejectionReason),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
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

// List returns requests matching the filters, newest first.
func (r *RequestRepository) List(ctx context.Context, filters secondary.RequestListFilters) ([]*secondary.RequestRecord, error) {
	query := `SELECT ` + requestColumns + ` FROM assignment_requests WHERE 1=1`
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.RequestedBy != "" {
		query += " AND requested_by = ?"
		args = append(args, filters.RequestedBy)
	}

	query += " ORDER BY id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var requests []*secondary.RequestRecord
	for rows.Next() {
		record, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, record)
	}
	return requests, rows.Err()
}

// GetNextID returns the next available request ID.
func (r *RequestRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("REQ-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM assignment_requests", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next request ID: %w", err)
	}

	return fmt.Sprintf("REQ-%03d", maxID+1), nil
}

func scanRequest(row scanner) (*secondary.RequestRecord, error) {
	var (
		itemType        string
		decidedBy       sql.NullString
		decidedAt       sql.NullTime
		decisionNote    sql.NullString
		rejectionReason sql.NullString
		createdAt       sql.NullTime
	)

	record := &secondary.RequestRecord{}
	err := row.Scan(&record.ID, &itemType, &record.ItemID, &record.RequestedUser, &record.RequestedBy, &record.Reason, &record.Status, &decidedBy, &decidedAt, &decisionNote, &rejectionReason, &createdAt)
	if err != nil {
		return nil, err
	}

	record.ItemType = models.ItemType(itemType)
	record.DecidedBy = decidedBy.String
	record.DecisionNote = decisionNote.String
	record.RejectionReason = rejectionReason.String
	if decidedAt.Valid {
		record.DecidedAt = decidedAt.Time.UTC().Format(time.RFC3339)
	}
	if createdAt.Valid {
		record.CreatedAt = createdAt.Time.UTC().Format(time.RFC3339)
	}
	return record, nil
}

// Ensure RequestRepository implements the interface
var _ secondary.RequestRepository = (*RequestRepository)(nil)
