package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthWindow(t *testing.T) {
	w := MonthWindow(2026, time.August, time.UTC)
	assert.Equal(t, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC), w.End)

	assert.True(t, w.Contains(time.Date(2026, time.August, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, w.Contains(w.End))
	assert.True(t, w.Contains(w.Start))
	assert.Equal(t, "August 2026", w.Label())
}

func TestMonthWindowDecember(t *testing.T) {
	w := MonthWindow(2025, time.December, time.UTC)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), w.End)
}

func TestDayWindow(t *testing.T) {
	at := time.Date(2026, time.August, 30, 15, 4, 5, 0, time.UTC)
	w := DayWindow(at)
	assert.Equal(t, time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC), w.End)
	assert.True(t, w.Contains(at))
}

func TestRangeWindowInclusive(t *testing.T) {
	from := time.Date(2026, time.August, 1, 10, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)
	w := RangeWindow(from, to)
	assert.Equal(t, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2026, time.August, 16, 0, 0, 0, 0, time.UTC), w.End)
	assert.True(t, w.Contains(time.Date(2026, time.August, 15, 23, 0, 0, 0, time.UTC)))
}

func TestYearWindow(t *testing.T) {
	w := YearWindow(2026, nil)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC), w.End)
}
