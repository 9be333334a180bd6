package service

import (
	"context"
	"errors"
	"time"

	"marqueelz_backend/internal/model"
	"marqueelz_backend/internal/repository"
	"marqueelz_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RewardInterval is the streak length that earns a voucher: every 7th
// consecutive day.
const RewardInterval = 7

type StreakService struct {
	repo StreakRepository
	loc  *time.Location
}

func NewStreakService(repo StreakRepository, loc *time.Location) *StreakService {
	if loc == nil {
		loc = time.UTC
	}
	return &StreakService{
		repo: repo,
		loc:  loc,
	}
}

// GetStatus reports the stored streak without advancing it.
func (s *StreakService) GetStatus(ctx context.Context, userID uuid.UUID, now time.Time) (*model.StreakStatus, error) {
	rec, err := s.repo.GetStreak(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &model.StreakStatus{DaysUntilReward: RewardInterval}, nil
		}
		return nil, err
	}

	return s.status(rec, false), nil
}

// AdvanceStreak applies today's login to the user's streak. The stored
// date and "today" are both normalized to midnight before differencing:
// a diff of 0 is a same-day repeat and writes nothing, a diff of 1 extends
// the streak, and anything else (including negative diffs from client
// clock skew) resets it to 1. RewardEligible is set only when the
// consecutive-day branch lands on a multiple of RewardInterval.
func (s *StreakService) AdvanceStreak(ctx context.Context, userID uuid.UUID, now time.Time) (*model.StreakStatus, error) {
	status, err := s.advanceOnce(ctx, userID, now)
	if errors.Is(err, repository.ErrConflict) {
		// A concurrent session of the same user advanced first; the
		// re-read resolves to the same-day branch.
		return s.advanceOnce(ctx, userID, now)
	}
	return status, err
}

func (s *StreakService) advanceOnce(ctx context.Context, userID uuid.UUID, now time.Time) (*model.StreakStatus, error) {
	today := MidnightIn(now, s.loc)

	rec, err := s.repo.GetStreak(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		rec = &model.StreakRecord{
			UserID:        userID,
			StreakCount:   1,
			LastLoginDate: today,
		}
		if err := s.repo.CreateStreak(ctx, rec); err != nil {
			return nil, err
		}
		// Day one never rewards.
		return s.status(rec, false), nil
	}

	lastLogin := MidnightIn(rec.LastLoginDate, s.loc)
	diffDays := DaysBetween(lastLogin, today)

	switch {
	case diffDays == 0:
		return s.status(rec, false), nil

	case diffDays == 1:
		updated := &model.StreakRecord{
			UserID:        userID,
			StreakCount:   rec.StreakCount + 1,
			LastLoginDate: today,
		}
		if err := s.repo.UpdateStreak(ctx, updated, rec.LastLoginDate); err != nil {
			return nil, err
		}
		return s.status(updated, updated.StreakCount%RewardInterval == 0), nil

	default:
		if diffDays < 0 {
			logger.Logger().Warn("negative day diff on streak advance, treating as broken streak",
				zap.String("user_id", userID.String()),
				zap.Int("diff_days", diffDays))
		}

		updated := &model.StreakRecord{
			UserID:        userID,
			StreakCount:   1,
			LastLoginDate: today,
		}
		if err := s.repo.UpdateStreak(ctx, updated, rec.LastLoginDate); err != nil {
			return nil, err
		}
		return s.status(updated, false), nil
	}
}

func (s *StreakService) status(rec *model.StreakRecord, rewardEligible bool) *model.StreakStatus {
	return &model.StreakStatus{
		StreakCount:     rec.StreakCount,
		RewardEligible:  rewardEligible,
		ActiveSlots:     rec.StreakCount % RewardInterval,
		DaysUntilReward: RewardInterval - rec.StreakCount%RewardInterval,
		LastLoginDate:   rec.LastLoginDate,
	}
}
