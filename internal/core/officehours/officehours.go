// Package officehours contains the pure business logic for evaluating
// workday windows and holidays. Reading the configured windows from
// storage is the service's job; everything here is side-effect free.
package officehours

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Window is a single workday time window. Start and End are wall-clock
// times formatted "HH:MM" or "HH:MM:SS".
type Window struct {
	Weekday time.Weekday
	Start   string
	End     string
	Open    bool
}

// Evaluate reports whether the given instant falls inside one of the
// configured windows. Holidays close the office for the whole day.
// Missing or unparseable window data evaluates to closed: the gate
// fails safe rather than open.
func Evaluate(now time.Time, windows []Window, holiday bool) bool {
	if holiday {
		return false
	}
	nowSecs := now.Hour()*3600 + now.Minute()*60 + now.Second()
	for _, w := range windows {
		if w.Weekday != now.Weekday() || !w.Open {
			continue
		}
		start, err := ToSeconds(w.Start)
		if err != nil {
			continue
		}
		end, err := ToSeconds(w.End)
		if err != nil {
			continue
		}
		if start <= nowSecs && nowSecs <= end {
			return true
		}
	}
	return false
}

// ToSeconds converts "HH:MM" or "HH:MM:SS" to seconds since midnight.
func ToSeconds(val string) (int, error) {
	parts := strings.Split(strings.TrimSpace(val), ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid time %q", val)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", val)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", val)
	}
	s := 0
	if len(parts) > 2 {
		s, err = strconv.Atoi(parts[2])
		if err != nil {
			return 0, fmt.Errorf("invalid second in %q", val)
		}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || s < 0 || s > 59 {
		return 0, fmt.Errorf("time out of range: %q", val)
	}
	return h*3600 + m*60 + s, nil
}

// ParseWeekday converts a weekday name ("Monday") to time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday: %q", name)
}
