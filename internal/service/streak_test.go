package service

import (
	"context"
	"testing"
	"time"

	"marqueelz_backend/internal/model"
	"marqueelz_backend/internal/repository"
	"marqueelz_backend/internal/service/mocks"
	"marqueelz_backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func init() {
	_ = logger.Initialize(logger.Config{Level: "error"})
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStreakService_AdvanceStreak(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		now            time.Time
		mockSetup      func(repo *mocks.MockStreakRepository)
		expectedCount  int
		expectedReward bool
	}{
		{
			name: "First login creates streak of 1, no reward",
			now:  date(2024, 1, 1).Add(15 * time.Hour),
			mockSetup: func(repo *mocks.MockStreakRepository) {
				repo.On("GetStreak", mock.Anything, userID).
					Return(nil, repository.ErrNotFound)
				repo.On("CreateStreak", mock.Anything, mock.MatchedBy(func(rec *model.StreakRecord) bool {
					return rec.UserID == userID &&
						rec.StreakCount == 1 &&
						rec.LastLoginDate.Equal(date(2024, 1, 1))
				})).Return(nil)
			},
			expectedCount:  1,
			expectedReward: false,
		},
		{
			name: "Consecutive day increments streak",
			now:  date(2024, 1, 2).Add(8 * time.Hour),
			mockSetup: func(repo *mocks.MockStreakRepository) {
				repo.On("GetStreak", mock.Anything, userID).
					Return(&model.StreakRecord{
						UserID:        userID,
						StreakCount:   3,
						LastLoginDate: date(2024, 1, 1),
					}, nil)
				repo.On("UpdateStreak", mock.Anything, mock.MatchedBy(func(rec *model.StreakRecord) bool {
					return rec.StreakCount == 4 && rec.LastLoginDate.Equal(date(2024, 1, 2))
				}), date(2024, 1, 1)).Return(nil)
			},
			expectedCount:  4,
			expectedReward: false,
		},
		{
			name: "Seventh consecutive day is reward eligible",
			now:  date(2024, 1, 2).Add(23 * time.Hour),
			mockSetup: func(repo *mocks.MockStreakRepository) {
				repo.On("GetStreak", mock.Anything, userID).
					Return(&model.StreakRecord{
						UserID:        userID,
						StreakCount:   6,
						LastLoginDate: date(2024, 1, 1),
					}, nil)
				repo.On("UpdateStreak", mock.Anything, mock.MatchedBy(func(rec *model.StreakRecord) bool {
					return rec.StreakCount == 7
				}), date(2024, 1, 1)).Return(nil)
			},
			expectedCount:  7,
			expectedReward: true,
		},
		{
			name: "Same-day repeat is a no-op",
			now:  date(2024, 1, 2).Add(20 * time.Hour),
			mockSetup: func(repo *mocks.MockStreakRepository) {
				repo.On("GetStreak", mock.Anything, userID).
					Return(&model.StreakRecord{
						UserID:        userID,
						StreakCount:   7,
						LastLoginDate: date(2024, 1, 2),
					}, nil)
			},
			expectedCount:  7,
			expectedReward: false,
		},
		{
			name: "Gap of several days resets streak",
			now:  date(2024, 1, 5).Add(9 * time.Hour),
			mockSetup: func(repo *mocks.MockStreakRepository) {
				repo.On("GetStreak", mock.Anything, userID).
					Return(&model.StreakRecord{
						UserID:        userID,
						StreakCount:   12,
						LastLoginDate: date(2024, 1, 1),
					}, nil)
				repo.On("UpdateStreak", mock.Anything, mock.MatchedBy(func(rec *model.StreakRecord) bool {
					return rec.StreakCount == 1 && rec.LastLoginDate.Equal(date(2024, 1, 5))
				}), date(2024, 1, 1)).Return(nil)
			},
			expectedCount:  1,
			expectedReward: false,
		},
		{
			name: "Negative diff from clock skew resets streak",
			now:  date(2024, 1, 1),
			mockSetup: func(repo *mocks.MockStreakRepository) {
				repo.On("GetStreak", mock.Anything, userID).
					Return(&model.StreakRecord{
						UserID:        userID,
						StreakCount:   5,
						LastLoginDate: date(2024, 1, 3),
					}, nil)
				repo.On("UpdateStreak", mock.Anything, mock.MatchedBy(func(rec *model.StreakRecord) bool {
					return rec.StreakCount == 1
				}), date(2024, 1, 3)).Return(nil)
			},
			expectedCount:  1,
			expectedReward: false,
		},
		{
			name: "Fourteenth day rewards again",
			now:  date(2024, 1, 15),
			mockSetup: func(repo *mocks.MockStreakRepository) {
				repo.On("GetStreak", mock.Anything, userID).
					Return(&model.StreakRecord{
						UserID:        userID,
						StreakCount:   13,
						LastLoginDate: date(2024, 1, 14),
					}, nil)
				repo.On("UpdateStreak", mock.Anything, mock.MatchedBy(func(rec *model.StreakRecord) bool {
					return rec.StreakCount == 14
				}), date(2024, 1, 14)).Return(nil)
			},
			expectedCount:  14,
			expectedReward: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockStreakRepository{}
			tt.mockSetup(mockRepo)
			service := NewStreakService(mockRepo, time.UTC)

			status, err := service.AdvanceStreak(context.Background(), userID, tt.now)

			assert.NoError(t, err)
			assert.NotNil(t, status)
			assert.Equal(t, tt.expectedCount, status.StreakCount)
			assert.Equal(t, tt.expectedReward, status.RewardEligible)
			assert.GreaterOrEqual(t, status.StreakCount, 1)

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestStreakService_AdvanceStreak_WriteFailureSurfaces(t *testing.T) {
	userID := uuid.New()
	mockRepo := &mocks.MockStreakRepository{}

	mockRepo.On("GetStreak", mock.Anything, userID).
		Return(&model.StreakRecord{
			UserID:        userID,
			StreakCount:   2,
			LastLoginDate: date(2024, 1, 1),
		}, nil)
	mockRepo.On("UpdateStreak", mock.Anything, mock.Anything, date(2024, 1, 1)).
		Return(assert.AnError)

	service := NewStreakService(mockRepo, time.UTC)
	status, err := service.AdvanceStreak(context.Background(), userID, date(2024, 1, 2))

	assert.Error(t, err)
	assert.Nil(t, status)
	mockRepo.AssertExpectations(t)
}

func TestStreakService_AdvanceStreak_ConflictRereads(t *testing.T) {
	// A duplicate tab advanced the streak first: the conditional update
	// fails, the re-read sees today's date and resolves as a same-day
	// no-op with the winner's count.
	userID := uuid.New()
	mockRepo := &mocks.MockStreakRepository{}

	mockRepo.On("GetStreak", mock.Anything, userID).
		Return(&model.StreakRecord{
			UserID:        userID,
			StreakCount:   4,
			LastLoginDate: date(2024, 1, 1),
		}, nil).Once()
	mockRepo.On("UpdateStreak", mock.Anything, mock.Anything, date(2024, 1, 1)).
		Return(repository.ErrConflict).Once()
	mockRepo.On("GetStreak", mock.Anything, userID).
		Return(&model.StreakRecord{
			UserID:        userID,
			StreakCount:   5,
			LastLoginDate: date(2024, 1, 2),
		}, nil).Once()

	service := NewStreakService(mockRepo, time.UTC)
	status, err := service.AdvanceStreak(context.Background(), userID, date(2024, 1, 2).Add(7*time.Hour))

	assert.NoError(t, err)
	assert.Equal(t, 5, status.StreakCount)
	assert.False(t, status.RewardEligible)
	mockRepo.AssertExpectations(t)
}

func TestStreakService_StatusProgress(t *testing.T) {
	userID := uuid.New()
	mockRepo := &mocks.MockStreakRepository{}

	mockRepo.On("GetStreak", mock.Anything, userID).
		Return(&model.StreakRecord{
			UserID:        userID,
			StreakCount:   7,
			LastLoginDate: date(2024, 1, 7),
		}, nil)

	service := NewStreakService(mockRepo, time.UTC)
	status, err := service.GetStatus(context.Background(), userID, date(2024, 1, 7))

	assert.NoError(t, err)
	// Right after a reward day the bar is empty and the next reward is a
	// full week away, displayed as 7 rather than 0.
	assert.Equal(t, 0, status.ActiveSlots)
	assert.Equal(t, 7, status.DaysUntilReward)
}

func TestStreakService_StatusNoRecord(t *testing.T) {
	userID := uuid.New()
	mockRepo := &mocks.MockStreakRepository{}

	mockRepo.On("GetStreak", mock.Anything, userID).
		Return(nil, repository.ErrNotFound)

	service := NewStreakService(mockRepo, time.UTC)
	status, err := service.GetStatus(context.Background(), userID, date(2024, 1, 7))

	assert.NoError(t, err)
	assert.Equal(t, 0, status.StreakCount)
	assert.Equal(t, 7, status.DaysUntilReward)
}
