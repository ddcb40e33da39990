package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/rota/internal/ports/secondary"
)

// CalendarRepository implements secondary.CalendarRepository with SQLite.
type CalendarRepository struct {
	db *sql.DB
}

// NewCalendarRepository creates a new SQLite calendar repository.
func NewCalendarRepository(db *sql.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// ServiceDays returns the configured workday windows.
func (r *CalendarRepository) ServiceDays(ctx context.Context) ([]*secondary.ServiceDayRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT weekday, start_time, end_time, open FROM service_days`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list service days: %w", err)
	}
	defer rows.Close()

	var days []*secondary.ServiceDayRecord
	for rows.Next() {
		var startTime, endTime sql.NullString
		record := &secondary.ServiceDayRecord{}
		if err := rows.Scan(&record.Weekday, &startTime, &endTime, &record.Open); err != nil {
			return nil, fmt.Errorf("failed to scan service day: %w", err)
		}
		record.StartTime = startTime.String
		record.EndTime = endTime.String
		days = append(days, record)
	}
	return days, rows.Err()
}

// SetServiceDay creates or replaces the window for one weekday.
func (r *CalendarRepository) SetServiceDay(ctx context.Context, day *secondary.ServiceDayRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO service_days (weekday, start_time, end_time, open) VALUES (?, ?, ?, ?)
		 ON CONFLICT(weekday) DO UPDATE SET start_time = excluded.start_time, end_time = excluded.end_time, open = excluded.open`,
		day.Weekday, day.StartTime, day.EndTime, day.Open,
	)
	if err != nil {
		return fmt.Errorf("failed to set service day: %w", err)
	}
	return nil
}

// IsHoliday reports whether the date is a holiday in the calendar.
func (r *CalendarRepository) IsHoliday(ctx context.Context, day, calendar string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM holidays WHERE day = ? AND calendar = ?`,
		day, calendar,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check holiday: %w", err)
	}
	return count > 0, nil
}

// AddHoliday records a holiday.
func (r *CalendarRepository) AddHoliday(ctx context.Context, holiday *secondary.HolidayRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO holidays (day, calendar, description) VALUES (?, ?, ?)`,
		holiday.Day, holiday.Calendar, nullString(holiday.Description),
	)
	if err != nil {
		return fmt.Errorf("failed to add holiday: %w", err)
	}
	return nil
}

// Holidays returns the holidays of a calendar ordered by date.
func (r *CalendarRepository) Holidays(ctx context.Context, calendar string) ([]*secondary.HolidayRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT day, calendar, description FROM holidays WHERE calendar = ? ORDER BY day`,
		calendar,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []*secondary.HolidayRecord
	for rows.Next() {
		var description sql.NullString
		record := &secondary.HolidayRecord{}
		if err := rows.Scan(&record.Day, &record.Calendar, &description); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		record.Description = description.String
		holidays = append(holidays, record)
	}
	return holidays, rows.Err()
}

// Ensure CalendarRepository implements the interface
var _ secondary.CalendarRepository = (*CalendarRepository)(nil)
