package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/rota/internal/config"
	"github.com/example/rota/internal/core/officehours"
	"github.com/example/rota/internal/ports/primary"
	"github.com/example/rota/internal/ports/secondary"
)

// OfficeHoursServiceImpl implements the OfficeHoursService interface.
// The window evaluation itself is pure (core/officehours); this layer
// reads the configured windows and holidays and applies the
// enforcement settings.
type OfficeHoursServiceImpl struct {
	calendar secondary.CalendarRepository
	clock    secondary.Clock
	cfg      *config.Settings
}

// NewOfficeHoursService creates a new OfficeHoursService with injected dependencies.
func NewOfficeHoursService(calendar secondary.CalendarRepository, clock secondary.Clock, cfg *config.Settings) *OfficeHoursServiceImpl {
	return &OfficeHoursServiceImpl{
		calendar: calendar,
		clock:    clock,
		cfg:      cfg,
	}
}

// IsOpen reports whether the office is open right now. When window or
// holiday data cannot be read the gate reports closed, not open.
func (s *OfficeHoursServiceImpl) IsOpen(ctx context.Context) (bool, error) {
	if !s.cfg.EnforceOfficeHours {
		return true, nil
	}

	now := s.clock.Now()

	holiday, err := s.calendar.IsHoliday(ctx, now.Format("2006-01-02"), s.cfg.HolidayCalendarID)
	if err != nil {
		log.Printf("warning: holiday lookup failed, treating office as closed: %v", err)
		return false, nil
	}

	days, err := s.calendar.ServiceDays(ctx)
	if err != nil {
		log.Printf("warning: service day lookup failed, treating office as closed: %v", err)
		return false, nil
	}

	windows := make([]officehours.Window, 0, len(days))
	for _, d := range days {
		wd, err := officehours.ParseWeekday(d.Weekday)
		if err != nil {
			continue
		}
		windows = append(windows, officehours.Window{
			Weekday: wd,
			Start:   d.StartTime,
			End:     d.EndTime,
			Open:    d.Open,
		})
	}
	return officehours.Evaluate(now, windows, holiday), nil
}

// AssertOpen returns ErrOfficeClosed when automatic work must not run.
// With allowManualOverride set and manual enforcement disabled, the
// check is bypassed.
func (s *OfficeHoursServiceImpl) AssertOpen(ctx context.Context, allowManualOverride bool) error {
	if allowManualOverride && !s.cfg.EnforceOnManualAssignment {
		return nil
	}
	open, err := s.IsOpen(ctx)
	if err != nil {
		return err
	}
	if !open {
		return primary.ErrOfficeClosed
	}
	return nil
}

// Schedule returns the configured workday windows and the holidays of
// the active calendar.
func (s *OfficeHoursServiceImpl) Schedule(ctx context.Context) ([]primary.ServiceDay, []primary.Holiday, error) {
	days, err := s.calendar.ServiceDays(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load service days: %w", err)
	}
	holidays, err := s.calendar.Holidays(ctx, s.cfg.HolidayCalendarID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load holidays: %w", err)
	}

	outDays := make([]primary.ServiceDay, len(days))
	for i, d := range days {
		outDays[i] = primary.ServiceDay{
			Weekday:   d.Weekday,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
			Open:      d.Open,
		}
	}
	outHolidays := make([]primary.Holiday, len(holidays))
	for i, h := range holidays {
		outHolidays[i] = primary.Holiday{
			Day:         h.Day,
			Calendar:    h.Calendar,
			Description: h.Description,
		}
	}
	return outDays, outHolidays, nil
}

// SetServiceDay creates or replaces the window for one weekday.
func (s *OfficeHoursServiceImpl) SetServiceDay(ctx context.Context, day primary.ServiceDay) error {
	if _, err := officehours.ParseWeekday(day.Weekday); err != nil {
		return err
	}
	start, err := officehours.ToSeconds(day.StartTime)
	if err != nil {
		return fmt.Errorf("invalid start time: %w", err)
	}
	end, err := officehours.ToSeconds(day.EndTime)
	if err != nil {
		return fmt.Errorf("invalid end time: %w", err)
	}
	if end <= start {
		return fmt.Errorf("end time %s must be after start time %s", day.EndTime, day.StartTime)
	}

	record := &secondary.ServiceDayRecord{
		Weekday:   day.Weekday,
		StartTime: day.StartTime,
		EndTime:   day.EndTime,
		Open:      day.Open,
	}
	if err := s.calendar.SetServiceDay(ctx, record); err != nil {
		return fmt.Errorf("failed to save service day: %w", err)
	}
	return nil
}

// AddHoliday records a holiday in the active calendar.
func (s *OfficeHoursServiceImpl) AddHoliday(ctx context.Context, day, description string) error {
	if _, err := parseDate(day); err != nil {
		return err
	}
	record := &secondary.HolidayRecord{
		Day:         day,
		Calendar:    s.cfg.HolidayCalendarID,
		Description: description,
	}
	if err := s.calendar.AddHoliday(ctx, record); err != nil {
		return fmt.Errorf("failed to save holiday: %w", err)
	}
	return nil
}

// parseDate validates a "YYYY-MM-DD" day string.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// Ensure OfficeHoursServiceImpl implements the interface
var _ primary.OfficeHoursService = (*OfficeHoursServiceImpl)(nil)
