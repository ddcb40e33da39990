package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/rota/internal/ports/secondary"
)

// TrackerRepository implements secondary.TrackerRepository with SQLite.
// The user list and assignment history are stored as JSON documents in
// the tracker row; this is the only place they are encoded or decoded.
type TrackerRepository struct {
	db *sql.DB
}

// NewTrackerRepository creates a new SQLite tracker repository.
func NewTrackerRepository(db *sql.DB) *TrackerRepository {
	return &TrackerRepository{db: db}
}

// Get retrieves the tracker for a role.
func (r *TrackerRepository) Get(ctx context.Context, role string) (*secondary.TrackerRecord, error) {
	var (
		userList       string
		history        string
		lastAssigned   sql.NullString
		lastAssignedAt sql.NullTime
		createdAt      sql.NullTime
		updatedAt      sql.NullTime
	)

	record := &secondary.TrackerRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT role_name, user_list, current_position, last_assigned_user, last_assigned_at, assignment_count, assignment_history, created_at, updated_at
		 FROM role_trackers WHERE role_name = ?`,
		role,
	).Scan(&record.RoleName, &userList, &record.CurrentPosition, &lastAssigned, &lastAssignedAt, &record.AssignmentCount, &history, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, secondary.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tracker: %w", err)
	}

	if err := json.Unmarshal([]byte(userList), &record.UserList); err != nil {
		return nil, fmt.Errorf("failed to decode user list: %w", err)
	}
	if err := json.Unmarshal([]byte(history), &record.History); err != nil {
		return nil, fmt.Errorf("failed to decode assignment history: %w", err)
	}
	record.LastAssignedUser = lastAssigned.String
	if lastAssignedAt.Valid {
		record.LastAssignedAt = lastAssignedAt.Time.UTC().Format(time.RFC3339)
	}
	if createdAt.Valid {
		record.CreatedAt = createdAt.Time.UTC().Format(time.RFC3339)
	}
	if updatedAt.Valid {
		record.UpdatedAt = updatedAt.Time.UTC().Format(time.RFC3339)
	}
	return record, nil
}

// Create persists a new tracker.
func (r *TrackerRepository) Create(ctx context.Context, tracker *secondary.TrackerRecord) error {
	userList, history, err := encodeTracker(tracker)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO role_trackers (role_name, user_list, current_position, last_assigned_user, last_assigned_at, assignment_count, assignment_history, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tracker.RoleName,
		userList,
		tracker.CurrentPosition,
		nullString(tracker.LastAssignedUser),
		nullString(tracker.LastAssignedAt),
		tracker.AssignmentCount,
		history,
		nullString(tracker.CreatedAt),
		nullString(tracker.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create tracker: %w", err)
	}
	return nil
}

// Save writes the full tracker state in a single-document update.
func (r *TrackerRepository) Save(ctx context.Context, tracker *secondary.TrackerRecord) error {
	userList, history, err := encodeTracker(tracker)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE role_trackers
		 SET user_list = ?, current_position = ?, last_assigned_user = ?, last_assigned_at = ?, assignment_count = ?, assignment_history = ?, updated_at = ?
		 WHERE role_name = ?`,
		userList,
		tracker.CurrentPosition,
		nullString(tracker.LastAssignedUser),
		nullString(tracker.LastAssignedAt),
		tracker.AssignmentCount,
		history,
		nullString(tracker.UpdatedAt),
		tracker.RoleName,
	)
	if err != nil {
		return fmt.Errorf("failed to save tracker: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check save result: %w", err)
	}
	if rowsAffected == 0 {
		return secondary.ErrNotFound
	}
	return nil
}

// Reset sets the rotation position back to zero.
func (r *TrackerRepository) Reset(ctx context.Context, role string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE role_trackers SET current_position = 0, updated_at = ? WHERE role_name = ?`,
		time.Now().UTC().Format(time.RFC3339), role,
	)
	if err != nil {
		return fmt.Errorf("failed to reset tracker: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check reset result: %w", err)
	}
	if rowsAffected == 0 {
		return secondary.ErrNotFound
	}
	return nil
}

func encodeTracker(tracker *secondary.TrackerRecord) (string, string, error) {
	userList := tracker.UserList
	if userList == nil {
		userList = []string{}
	}
	listJSON, err := json.Marshal(userList)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode user list: %w", err)
	}

	history := tracker.History
	if history == nil {
		history = []secondary.TrackerHistoryEntry{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode assignment history: %w", err)
	}
	return string(listJSON), string(historyJSON), nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Ensure TrackerRepository implements the interface
var _ secondary.TrackerRepository = (*TrackerRepository)(nil)
