package mocks

import (
	"context"
	"time"

	"github.com/segyhp/dues-engine/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Record(ctx context.Context, entry domain.LedgerEntry) (*domain.Income, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Income), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) DuesGenerated(ctx context.Context, association *domain.Association, dues []*domain.MemberDue) error {
	args := m.Called(ctx, association, dues)
	return args.Error(0)
}

func (m *MockNotifier) DuePaid(ctx context.Context, association *domain.Association, due *domain.MemberDue) error {
	args := m.Called(ctx, association, due)
	return args.Error(0)
}

func (m *MockNotifier) DueReminder(ctx context.Context, association *domain.Association, member *domain.Member, due *domain.MemberDue) error {
	args := m.Called(ctx, association, member, due)
	return args.Error(0)
}

type MockLocker struct {
	mock.Mock
}

// Acquire hands back a release func that is recorded as a "Release" call with the lock name
func (m *MockLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, error) {
	args := m.Called(ctx, name, ttl)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		return m.MethodCalled("Release", name).Error(0)
	}, nil
}
