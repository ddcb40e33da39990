package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/rota/internal/ports/secondary"
)

// NotificationRepository implements secondary.NotificationDispatcher
// with SQLite: notifications are durable rows a user reads via their
// inbox. Delivery transport beyond the database is out of scope.
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new SQLite notification repository.
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Notify records a notification for a user.
func (r *NotificationRepository) Notify(ctx context.Context, n *secondary.NotificationRecord) error {
	id := n.ID
	if id == "" {
		var err error
		id, err = r.nextID(ctx)
		if err != nil {
			return err
		}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (id, user_id, kind, message, ref_type, ref_id, read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		n.UserID,
		n.Kind,
		n.Message,
		nullString(n.RefType),
		nullString(n.RefID),
		n.Read,
		nullString(n.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}
	return nil
}

// ListFor returns a user's notifications, newest first.
func (r *NotificationRepository) ListFor(ctx context.Context, userID string, unreadOnly bool) ([]*secondary.NotificationRecord, error) {
	query := `SELECT id, user_id, kind, message, ref_type, ref_id, read, created_at
		 FROM notifications WHERE user_id = ?`
	if unreadOnly {
		query += " AND read = 0"
	}
	query += " ORDER BY id DESC"

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var records []*secondary.NotificationRecord
	for rows.Next() {
		var (
			refType   sql.NullString
			refID     sql.NullString
			createdAt sql.NullTime
		)
		record := &secondary.NotificationRecord{}
		if err := rows.Scan(&record.ID, &record.UserID, &record.Kind, &record.Message, &refType, &refID, &record.Read, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		record.RefType = refType.String
		record.RefID = refID.String
		if createdAt.Valid {
			record.CreatedAt = createdAt.Time.UTC().Format(time.RFC3339)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *NotificationRepository) nextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("NOTIF-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM notifications", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next notification ID: %w", err)
	}

	return fmt.Sprintf("NOTIF-%03d", maxID+1), nil
}

// Ensure NotificationRepository implements the interface
var _ secondary.NotificationDispatcher = (*NotificationRepository)(nil)
