package service

import (
	"math"
	"time"
)

// MidnightIn truncates a timestamp to the start of its calendar day in
// loc. Both sides of a day comparison must pass through here, otherwise
// time-of-day variation makes day boundaries unreliable.
func MidnightIn(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// DaysBetween counts calendar days from one midnight-normalized date to
// another. Negative when to precedes from. Rounding absorbs the odd-length
// days that DST transitions produce.
func DaysBetween(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}
