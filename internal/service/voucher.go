package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"marqueelz_backend/internal/model"
	"marqueelz_backend/internal/repository"
	"marqueelz_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxPoolRetries bounds how often a pool read-modify-write is retried
// after losing to a concurrent writer. Silently falling back to a
// last-write-wins overwrite is forbidden: that can duplicate or destroy
// codes.
const maxPoolRetries = 3

type VoucherService struct {
	repo VoucherRepository
}

func NewVoucherService(repo VoucherRepository) *VoucherService {
	return &VoucherService{repo: repo}
}

func (s *VoucherService) GetPool(ctx context.Context) (*model.VoucherPool, error) {
	return s.repo.GetVoucherPool(ctx)
}

// ClaimVoucher pops the oldest available code and records who received it
// for which streak, as one conditional pool write. Callers invoke it only
// when AdvanceStreak reported reward eligibility.
func (s *VoucherService) ClaimVoucher(ctx context.Context, userID uuid.UUID, streakCount int) (string, error) {
	var code string
	err := s.mutatePool(ctx, func(pool *model.VoucherPool) error {
		if len(pool.Available) == 0 {
			return ErrNoVoucherAvailable
		}

		code = pool.Available[0]
		pool.Available = append([]string{}, pool.Available[1:]...)
		pool.Claimed = append(pool.Claimed, model.ClaimRecord{
			VoucherCode:   code,
			ClaimedBy:     userID,
			ClaimedAt:     time.Now().UTC(),
			StreakAtClaim: streakCount,
		})
		return nil
	})
	if err != nil {
		return "", err
	}

	logger.Logger().Info("voucher claimed",
		zap.String("user_id", userID.String()),
		zap.Int("streak", streakCount))

	return code, nil
}

// AddVoucherCode appends a trimmed code to the available queue. Codes
// already present in either list are rejected, keeping the two lists
// disjoint.
func (s *VoucherService) AddVoucherCode(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrEmptyVoucherCode
	}

	return s.mutatePool(ctx, func(pool *model.VoucherPool) error {
		for _, existing := range pool.Available {
			if existing == code {
				return ErrDuplicateVoucher
			}
		}
		for _, claim := range pool.Claimed {
			if claim.VoucherCode == code {
				return ErrDuplicateVoucher
			}
		}

		pool.Available = append(pool.Available, code)
		return nil
	})
}

// RemoveVoucherCode deletes one available code by position.
func (s *VoucherService) RemoveVoucherCode(ctx context.Context, index int) error {
	return s.mutatePool(ctx, func(pool *model.VoucherPool) error {
		if index < 0 || index >= len(pool.Available) {
			return ErrInvalidIndex
		}

		pool.Available = append(
			append([]string{}, pool.Available[:index]...),
			pool.Available[index+1:]...,
		)
		return nil
	})
}

// mutatePool funnels every pool mutation (claims and admin edits) through
// the same read-modify-write with a version-checked save, retrying a
// bounded number of times on conflict.
func (s *VoucherService) mutatePool(ctx context.Context, mutate func(pool *model.VoucherPool) error) error {
	for attempt := 0; attempt < maxPoolRetries; attempt++ {
		pool, err := s.repo.GetVoucherPool(ctx)
		if err != nil {
			return err
		}

		if err := mutate(pool); err != nil {
			return err
		}

		err = s.repo.SaveVoucherPool(ctx, pool)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrConflict) {
			return err
		}

		logger.Logger().Info("voucher pool write conflict, retrying",
			zap.Int("attempt", attempt+1))
	}

	return ErrPoolContention
}
