package service

import (
	"context"
	"sync"
	"testing"

	"marqueelz_backend/internal/model"
	"marqueelz_backend/internal/repository"
	"marqueelz_backend/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func poolWith(available []string, claimed []model.ClaimRecord) *model.VoucherPool {
	return &model.VoucherPool{
		Available: available,
		Claimed:   claimed,
		Version:   1,
	}
}

func assertDisjoint(t *testing.T, pool *model.VoucherPool) {
	t.Helper()
	seen := map[string]bool{}
	for _, code := range pool.Available {
		seen[code] = true
	}
	for _, claim := range pool.Claimed {
		assert.False(t, seen[claim.VoucherCode],
			"code %q is both available and claimed", claim.VoucherCode)
	}
}

func TestVoucherService_ClaimVoucher(t *testing.T) {
	userID := uuid.New()

	t.Run("Claims oldest code first and records the claim", func(t *testing.T) {
		mockRepo := &mocks.MockVoucherRepository{}
		mockRepo.On("GetVoucherPool", mock.Anything).
			Return(poolWith([]string{"V1", "V2"}, nil), nil)
		mockRepo.On("SaveVoucherPool", mock.Anything, mock.MatchedBy(func(pool *model.VoucherPool) bool {
			return len(pool.Available) == 1 &&
				pool.Available[0] == "V2" &&
				len(pool.Claimed) == 1 &&
				pool.Claimed[0].VoucherCode == "V1" &&
				pool.Claimed[0].ClaimedBy == userID &&
				pool.Claimed[0].StreakAtClaim == 7
		})).Return(nil)

		service := NewVoucherService(mockRepo)
		code, err := service.ClaimVoucher(context.Background(), userID, 7)

		assert.NoError(t, err)
		assert.Equal(t, "V1", code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Empty pool returns ErrNoVoucherAvailable without writing", func(t *testing.T) {
		mockRepo := &mocks.MockVoucherRepository{}
		mockRepo.On("GetVoucherPool", mock.Anything).
			Return(poolWith([]string{}, nil), nil)

		service := NewVoucherService(mockRepo)
		_, err := service.ClaimVoucher(context.Background(), userID, 7)

		assert.ErrorIs(t, err, ErrNoVoucherAvailable)
		mockRepo.AssertNotCalled(t, "SaveVoucherPool", mock.Anything, mock.Anything)
	})

	t.Run("Conflict retries bounded then surfaces", func(t *testing.T) {
		mockRepo := &mocks.MockVoucherRepository{}
		// A fresh pool per read: the service mutates what it reads.
		for i := 0; i < maxPoolRetries; i++ {
			mockRepo.On("GetVoucherPool", mock.Anything).
				Return(poolWith([]string{"V1"}, nil), nil).Once()
		}
		mockRepo.On("SaveVoucherPool", mock.Anything, mock.Anything).
			Return(repository.ErrConflict).Times(maxPoolRetries)

		service := NewVoucherService(mockRepo)
		_, err := service.ClaimVoucher(context.Background(), userID, 7)

		assert.ErrorIs(t, err, ErrPoolContention)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Claim keeps available and claimed disjoint", func(t *testing.T) {
		var saved *model.VoucherPool
		mockRepo := &mocks.MockVoucherRepository{}
		mockRepo.On("GetVoucherPool", mock.Anything).
			Return(poolWith([]string{"V1", "V2", "V3"}, []model.ClaimRecord{
				{VoucherCode: "V0", ClaimedBy: userID, StreakAtClaim: 7},
			}), nil)
		mockRepo.On("SaveVoucherPool", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*model.VoucherPool)
			}).Return(nil)

		service := NewVoucherService(mockRepo)
		_, err := service.ClaimVoucher(context.Background(), userID, 14)

		assert.NoError(t, err)
		assert.NotNil(t, saved)
		assertDisjoint(t, saved)
	})
}

func TestVoucherService_AddVoucherCode(t *testing.T) {
	tests := []struct {
		name          string
		code          string
		pool          *model.VoucherPool
		expectedError error
		expectSave    bool
		savedCode     string
	}{
		{
			name:       "Appends trimmed code",
			code:       "  HAL-100  ",
			pool:       poolWith([]string{"HAL-001"}, nil),
			expectSave: true,
			savedCode:  "HAL-100",
		},
		{
			name:          "Rejects empty code",
			code:          "   ",
			pool:          poolWith(nil, nil),
			expectedError: ErrEmptyVoucherCode,
		},
		{
			name:          "Rejects code already available",
			code:          "HAL-001",
			pool:          poolWith([]string{"HAL-001"}, nil),
			expectedError: ErrDuplicateVoucher,
		},
		{
			name: "Rejects code already claimed",
			code: "HAL-002",
			pool: poolWith(nil, []model.ClaimRecord{
				{VoucherCode: "HAL-002"},
			}),
			expectedError: ErrDuplicateVoucher,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockVoucherRepository{}
			if tt.expectedError != ErrEmptyVoucherCode {
				mockRepo.On("GetVoucherPool", mock.Anything).Return(tt.pool, nil)
			}
			if tt.expectSave {
				mockRepo.On("SaveVoucherPool", mock.Anything, mock.MatchedBy(func(pool *model.VoucherPool) bool {
					return pool.Available[len(pool.Available)-1] == tt.savedCode
				})).Return(nil)
			}

			service := NewVoucherService(mockRepo)
			err := service.AddVoucherCode(context.Background(), tt.code)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				mockRepo.AssertNotCalled(t, "SaveVoucherPool", mock.Anything, mock.Anything)
				return
			}

			assert.NoError(t, err)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestVoucherService_RemoveVoucherCode(t *testing.T) {
	t.Run("Removes by position", func(t *testing.T) {
		mockRepo := &mocks.MockVoucherRepository{}
		mockRepo.On("GetVoucherPool", mock.Anything).
			Return(poolWith([]string{"V1", "V2", "V3"}, nil), nil)
		mockRepo.On("SaveVoucherPool", mock.Anything, mock.MatchedBy(func(pool *model.VoucherPool) bool {
			return len(pool.Available) == 2 &&
				pool.Available[0] == "V1" &&
				pool.Available[1] == "V3"
		})).Return(nil)

		service := NewVoucherService(mockRepo)
		err := service.RemoveVoucherCode(context.Background(), 1)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Out of range index", func(t *testing.T) {
		mockRepo := &mocks.MockVoucherRepository{}
		mockRepo.On("GetVoucherPool", mock.Anything).
			Return(poolWith([]string{"V1"}, nil), nil)

		service := NewVoucherService(mockRepo)

		assert.ErrorIs(t, service.RemoveVoucherCode(context.Background(), 3), ErrInvalidIndex)
		assert.ErrorIs(t, service.RemoveVoucherCode(context.Background(), -1), ErrInvalidIndex)
		mockRepo.AssertNotCalled(t, "SaveVoucherPool", mock.Anything, mock.Anything)
	})
}

// fakePoolRepo is an in-memory pool with the same version-checked save
// semantics as the real repository, for racing concurrent claims.
type fakePoolRepo struct {
	mu   sync.Mutex
	pool model.VoucherPool
}

func (f *fakePoolRepo) GetVoucherPool(ctx context.Context) (*model.VoucherPool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := model.VoucherPool{
		Available: append([]string{}, f.pool.Available...),
		Claimed:   append([]model.ClaimRecord{}, f.pool.Claimed...),
		Version:   f.pool.Version,
	}
	return &snapshot, nil
}

func (f *fakePoolRepo) SaveVoucherPool(ctx context.Context, pool *model.VoucherPool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pool.Version != f.pool.Version {
		return repository.ErrConflict
	}
	f.pool = model.VoucherPool{
		Available: append([]string{}, pool.Available...),
		Claimed:   append([]model.ClaimRecord{}, pool.Claimed...),
		Version:   pool.Version + 1,
	}
	return nil
}

func TestVoucherService_ConcurrentClaimsSingleCode(t *testing.T) {
	// Two users hit a reward at the same instant with one code left:
	// exactly one wins and the code is never handed out twice.
	repo := &fakePoolRepo{pool: model.VoucherPool{Available: []string{"LAST"}}}
	service := NewVoucherService(repo)

	userA := uuid.New()
	userB := uuid.New()

	type result struct {
		code string
		err  error
	}
	results := make(chan result, 2)

	var wg sync.WaitGroup
	for _, user := range []uuid.UUID{userA, userB} {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			code, err := service.ClaimVoucher(context.Background(), id, 7)
			results <- result{code: code, err: err}
		}(user)
	}
	wg.Wait()
	close(results)

	var successes, exhausted int
	for r := range results {
		switch {
		case r.err == nil:
			successes++
			assert.Equal(t, "LAST", r.code)
		case assert.ErrorIs(t, r.err, ErrNoVoucherAvailable):
			exhausted++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, exhausted)

	final, err := repo.GetVoucherPool(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, final.Available)
	assert.Len(t, final.Claimed, 1)
	assertDisjoint(t, final)
}
