package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"quiz-drill/internal/domain"
)

// --- MockResultRepository ---
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) SaveRun(ctx context.Context, run *domain.RunResult) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockResultRepository) RecentRuns(ctx context.Context, limit int) ([]*domain.RunResult, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RunResult), args.Error(1)
}

func (m *MockResultRepository) MissedAnswers(ctx context.Context, limit int) ([]*domain.MissedAnswer, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MissedAnswer), args.Error(1)
}

// --- MockBankProvider ---
type MockBankProvider struct {
	mock.Mock
}

func (m *MockBankProvider) Bank(ctx context.Context) (*domain.Bank, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bank), args.Error(1)
}

func (m *MockBankProvider) Reload(ctx context.Context) (*domain.Bank, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bank), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
