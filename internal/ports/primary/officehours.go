package primary

import "context"

// OfficeHoursService defines the primary port for the office-hours
// gate consulted before automatic assignment.
type OfficeHoursService interface {
	// IsOpen reports whether the office is open right now. Always true
	// when enforcement is disabled; false on holidays or when the
	// window data cannot be read (fail safe, not fail open).
	IsOpen(ctx context.Context) (bool, error)

	// AssertOpen returns ErrOfficeClosed when the office is closed.
	// With allowManualOverride set, the check is bypassed if the
	// configuration says manual actions need not respect office hours.
	AssertOpen(ctx context.Context, allowManualOverride bool) error

	// Schedule returns the configured workday windows ordered by
	// weekday, and the holidays of the active calendar.
	Schedule(ctx context.Context) ([]ServiceDay, []Holiday, error)

	// SetServiceDay creates or replaces the window for one weekday.
	SetServiceDay(ctx context.Context, day ServiceDay) error

	// AddHoliday records a holiday in the active calendar.
	AddHoliday(ctx context.Context, day, description string) error
}

// ServiceDay is one weekday's window at the port boundary.
type ServiceDay struct {
	Weekday   string // "Monday" ... "Sunday"
	StartTime string // "HH:MM"
	EndTime   string // "HH:MM"
	Open      bool
}

// Holiday is one holiday entry at the port boundary.
type Holiday struct {
	Day         string // "2006-01-02"
	Calendar    string
	Description string
}
