package officehours

import (
	"testing"
	"time"
)

// tuesday10am is a Tuesday at 10:00 local time.
var tuesday10am = time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)

func weekdayWindows() []Window {
	return []Window{
		{Weekday: time.Monday, Start: "09:00", End: "18:00", Open: true},
		{Weekday: time.Tuesday, Start: "09:00", End: "18:00", Open: true},
		{Weekday: time.Wednesday, Start: "09:00", End: "18:00", Open: true},
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		windows []Window
		holiday bool
		want    bool
	}{
		{"inside window", tuesday10am, weekdayWindows(), false, true},
		{"before opening", tuesday10am.Add(-2 * time.Hour), weekdayWindows(), false, false},
		{"after closing", time.Date(2025, 6, 3, 19, 30, 0, 0, time.UTC), weekdayWindows(), false, false},
		{"boundary start inclusive", time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC), weekdayWindows(), false, true},
		{"boundary end inclusive", time.Date(2025, 6, 3, 18, 0, 0, 0, time.UTC), weekdayWindows(), false, true},
		{"no window for weekday", time.Date(2025, 6, 7, 10, 0, 0, 0, time.UTC), weekdayWindows(), false, false},
		{"holiday closes the day", tuesday10am, weekdayWindows(), true, false},
		{"no windows at all", tuesday10am, nil, false, false},
		{"closed flag wins", tuesday10am, []Window{{Weekday: time.Tuesday, Start: "09:00", End: "18:00", Open: false}}, false, false},
		{"garbage times fail closed", tuesday10am, []Window{{Weekday: time.Tuesday, Start: "morning", End: "evening", Open: true}}, false, false},
		{"seconds precision accepted", tuesday10am, []Window{{Weekday: time.Tuesday, Start: "09:30:15", End: "10:00:00", Open: true}}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.now, tt.windows, tt.holiday); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToSeconds(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"09:00", 9 * 3600, false},
		{"18:30", 18*3600 + 30*60, false},
		{"08:15:45", 8*3600 + 15*60 + 45, false},
		{" 09:00 ", 9 * 3600, false},
		{"24:00", 0, true},
		{"09", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ToSeconds(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ToSeconds(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ToSeconds(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseWeekday(t *testing.T) {
	if d, err := ParseWeekday("monday"); err != nil || d != time.Monday {
		t.Errorf("ParseWeekday(monday) = %v, %v", d, err)
	}
	if _, err := ParseWeekday("Funday"); err == nil {
		t.Error("ParseWeekday(Funday) should fail")
	}
}
