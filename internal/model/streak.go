package model

import (
	"time"

	"github.com/google/uuid"
)

type StreakRecord struct {
	UserID        uuid.UUID
	StreakCount   int
	LastLoginDate time.Time
}

// StreakStatus is what a login attempt reports back: the streak after the
// advance, whether this call crossed a reward threshold, and the progress
// numbers the client renders.
type StreakStatus struct {
	StreakCount     int
	RewardEligible  bool
	ActiveSlots     int
	DaysUntilReward int
	LastLoginDate   time.Time
}
