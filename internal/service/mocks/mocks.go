// Package mocks provides testify mocks for the service layer's
// repository and outbound-client interfaces.
package mocks

import (
	"context"
	"time"

	"marqueelz_backend/internal/model"
	"marqueelz_backend/internal/textgen"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockStreakRepository struct {
	mock.Mock
}

func (m *MockStreakRepository) GetStreak(ctx context.Context, userID uuid.UUID) (*model.StreakRecord, error) {
	args := m.Called(ctx, userID)
	if rec := args.Get(0); rec != nil {
		return rec.(*model.StreakRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStreakRepository) CreateStreak(ctx context.Context, rec *model.StreakRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockStreakRepository) UpdateStreak(ctx context.Context, rec *model.StreakRecord, prevLastLogin time.Time) error {
	args := m.Called(ctx, rec, prevLastLogin)
	return args.Error(0)
}

type MockVoucherRepository struct {
	mock.Mock
}

func (m *MockVoucherRepository) GetVoucherPool(ctx context.Context) (*model.VoucherPool, error) {
	args := m.Called(ctx)
	if pool := args.Get(0); pool != nil {
		return pool.(*model.VoucherPool), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVoucherRepository) SaveVoucherPool(ctx context.Context, pool *model.VoucherPool) error {
	args := m.Called(ctx, pool)
	return args.Error(0)
}

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) CreateChatMessage(ctx context.Context, msg *model.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockChatRepository) GetRecentChatMessages(ctx context.Context, userID uuid.UUID, limit int) ([]*model.ChatMessage, error) {
	args := m.Called(ctx, userID, limit)
	if msgs := args.Get(0); msgs != nil {
		return msgs.([]*model.ChatMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChatRepository) GetChatHistory(ctx context.Context, userID uuid.UUID) ([]*model.ChatMessage, error) {
	args := m.Called(ctx, userID)
	if msgs := args.Get(0); msgs != nil {
		return msgs.([]*model.ChatMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Complete(ctx context.Context, prompt string, opts textgen.Options) (string, error) {
	args := m.Called(ctx, prompt, opts)
	return args.String(0), args.Error(1)
}
