package domain

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used in search queries, file names and reports.
const DateLayout = "2006-01-02"

// DefaultWindowDays is the length of the rolling window when none is configured.
const DefaultWindowDays = 30

// ErrInvalidWindow is returned when a window starts after it ends.
var ErrInvalidWindow = errors.New("invalid date window: start is after end")

// DateWindow is an inclusive range of calendar dates.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// NewDateWindow builds a window from two instants, truncating both to their calendar date.
func NewDateWindow(start, end time.Time) (DateWindow, error) {
	w := DateWindow{Start: truncateDay(start), End: truncateDay(end)}
	if err := w.Validate(); err != nil {
		return DateWindow{}, err
	}
	return w, nil
}

// RollingWindow returns the window ending on the date of now and starting days before it.
func RollingWindow(now time.Time, days int) (DateWindow, error) {
	if days < 0 {
		return DateWindow{}, fmt.Errorf("window length must not be negative, got %d", days)
	}
	return NewDateWindow(now.AddDate(0, 0, -days), now)
}

// ParseDateWindow parses two YYYY-MM-DD dates into a window.
func ParseDateWindow(start, end string) (DateWindow, error) {
	s, err := time.ParseInLocation(DateLayout, start, time.Local)
	if err != nil {
		return DateWindow{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.ParseInLocation(DateLayout, end, time.Local)
	if err != nil {
		return DateWindow{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	return NewDateWindow(s, e)
}

// Validate checks that the window does not start after it ends.
func (w DateWindow) Validate() error {
	if w.Start.After(w.End) {
		return ErrInvalidWindow
	}
	return nil
}

// Days is the number of calendar days covered, both ends included.
func (w DateWindow) Days() int {
	// Hours are rounded to absorb DST shifts between the two midnights.
	return int(w.End.Sub(w.Start).Round(24*time.Hour)/(24*time.Hour)) + 1
}

// Dates enumerates every calendar date in the window in ascending order.
func (w DateWindow) Dates() []time.Time {
	dates := make([]time.Time, 0, w.Days())
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// StartString returns the start date as YYYY-MM-DD.
func (w DateWindow) StartString() string {
	return w.Start.Format(DateLayout)
}

// EndString returns the end date as YYYY-MM-DD.
func (w DateWindow) EndString() string {
	return w.End.Format(DateLayout)
}

// SearchRange renders the window in the search qualifier syntax, e.g. 2025-01-01..2025-01-31.
func (w DateWindow) SearchRange() string {
	return w.StartString() + ".." + w.EndString()
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
