package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/rota/internal/ports/secondary"
)

// ActivityRepository implements secondary.ActivityRepository with SQLite.
type ActivityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new SQLite activity repository.
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append adds a note to an entity's timeline.
func (r *ActivityRepository) Append(ctx context.Context, entityType, entityID, author, body string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activity (entity_type, entity_id, author, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		entityType, entityID, author, body,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return nil
}

// ListFor returns an entity's notes, newest first.
func (r *ActivityRepository) ListFor(ctx context.Context, entityType, entityID string) ([]*secondary.ActivityRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT entity_type, entity_id, author, body, created_at
		 FROM activity WHERE entity_type = ? AND entity_id = ?
		 ORDER BY id DESC`,
		entityType, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var records []*secondary.ActivityRecord
	for rows.Next() {
		var createdAt sql.NullTime
		record := &secondary.ActivityRecord{}
		if err := rows.Scan(&record.EntityType, &record.EntityID, &record.Author, &record.Body, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if createdAt.Valid {
			record.CreatedAt = createdAt.Time.UTC().Format(time.RFC3339)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Ensure ActivityRepository implements the interface
var _ secondary.ActivityRepository = (*ActivityRepository)(nil)
