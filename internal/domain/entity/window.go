package entity

import "time"

// Window is a half-open time range [Start, End) used to scope list and
// aggregate queries. It is derived from a (month, year) or day selector and
// never stored.
type Window struct {
	Start time.Time
	End   time.Time
}

// MonthWindow returns the window covering the whole calendar month.
func MonthWindow(year int, month time.Month, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// YearWindow returns the window covering the whole calendar year.
func YearWindow(year int, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return Window{Start: start, End: start.AddDate(1, 0, 0)}
}

// DayWindow returns the window covering the calendar day containing t.
func DayWindow(t time.Time) Window {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// RangeWindow returns the window covering the calendar days from the one
// containing from through the one containing to, inclusive.
func RangeWindow(from, to time.Time) Window {
	return Window{Start: DayWindow(from).Start, End: DayWindow(to).End}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Label formats the window's month for navigation headers, e.g. "August 2026".
func (w Window) Label() string {
	return w.Start.Format("January 2006")
}
