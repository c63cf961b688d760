package models

import "time"

// Window is an inclusive time range. A zero bound is unbounded on that side.
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && t.After(w.To) {
		return false
	}
	return true
}

// StartOfDay returns 00:00:00.000 of t's date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns 23:59:59.999 of t's date in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Millisecond)
}

// DayWindow widens the optional dates to whole days: start from its first
// millisecond, end through its last. A nil date leaves that side unbounded.
func DayWindow(start, end *time.Time, loc *time.Location) Window {
	var w Window
	if start != nil {
		w.From = StartOfDay(*start, loc)
	}
	if end != nil {
		w.To = EndOfDay(*end, loc)
	}
	return w
}

// MonthWindow covers one calendar month in loc.
func MonthWindow(year int, month time.Month, loc *time.Location) Window {
	from := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Window{From: from, To: from.AddDate(0, 1, 0).Add(-time.Millisecond)}
}
