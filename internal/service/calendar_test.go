package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMidnightIn(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	// 03:30 UTC on Jan 2 is still the evening of Jan 1 in New York.
	ts := time.Date(2024, 1, 2, 3, 30, 0, 0, time.UTC)
	midnight := MidnightIn(ts, loc)

	assert.Equal(t, 2024, midnight.Year())
	assert.Equal(t, time.January, midnight.Month())
	assert.Equal(t, 1, midnight.Day())
	assert.Equal(t, 0, midnight.Hour())

	utcMidnight := MidnightIn(ts, time.UTC)
	assert.Equal(t, 2, utcMidnight.Day())
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		from     time.Time
		to       time.Time
		expected int
	}{
		{"Same day", date(2024, 1, 1), date(2024, 1, 1), 0},
		{"Next day", date(2024, 1, 1), date(2024, 1, 2), 1},
		{"Four day gap", date(2024, 1, 1), date(2024, 1, 5), 4},
		{"Backwards", date(2024, 1, 3), date(2024, 1, 1), -2},
		{"Across month boundary", date(2024, 1, 31), date(2024, 2, 1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysBetween(tt.from, tt.to))
		})
	}
}

func TestDaysBetween_DSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	// The March spring-forward day is only 23 hours long; it still
	// counts as one calendar day.
	before := MidnightIn(time.Date(2024, 3, 9, 12, 0, 0, 0, loc), loc)
	after := MidnightIn(time.Date(2024, 3, 10, 12, 0, 0, 0, loc), loc)

	assert.Equal(t, 1, DaysBetween(before, after))
}
