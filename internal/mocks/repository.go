package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/dues-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockAssociationRepository struct {
	mock.Mock
}

func (m *MockAssociationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Association, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Association), args.Error(1)
}

func (m *MockAssociationRepository) ListDuesEnabled(ctx context.Context) ([]*domain.Association, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Association), args.Error(1)
}

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) GetMember(ctx context.Context, associationID, userID uuid.UUID) (*domain.Member, error) {
	args := m.Called(ctx, associationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) ListActive(ctx context.Context, associationID uuid.UUID) ([]*domain.Member, error) {
	args := m.Called(ctx, associationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Member), args.Error(1)
}

type MockDueRepository struct {
	mock.Mock
}

func (m *MockDueRepository) FindInPeriod(ctx context.Context, associationID, memberID uuid.UUID, period domain.DuesPeriod) (*domain.MemberDue, error) {
	args := m.Called(ctx, associationID, memberID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MemberDue), args.Error(1)
}

func (m *MockDueRepository) CreateIfAbsent(ctx context.Context, due *domain.MemberDue) (bool, error) {
	args := m.Called(ctx, due)
	return args.Bool(0), args.Error(1)
}

func (m *MockDueRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MemberDue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MemberDue), args.Error(1)
}

func (m *MockDueRepository) ListByAssociation(ctx context.Context, associationID uuid.UUID) ([]*domain.MemberDue, error) {
	args := m.Called(ctx, associationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MemberDue), args.Error(1)
}

func (m *MockDueRepository) ListByMember(ctx context.Context, memberID uuid.UUID) ([]*domain.MemberDue, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MemberDue), args.Error(1)
}

func (m *MockDueRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockDueRepository) MarkOverdue(ctx context.Context, associationID uuid.UUID, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, associationID, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDueRepository) UpdatePayment(ctx context.Context, due *domain.MemberDue, from []string) (bool, error) {
	args := m.Called(ctx, due, from)
	return args.Bool(0), args.Error(1)
}

func (m *MockDueRepository) LatestOutstanding(ctx context.Context, associationID, memberID uuid.UUID) (*domain.MemberDue, error) {
	args := m.Called(ctx, associationID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MemberDue), args.Error(1)
}

type MockIncomeRepository struct {
	mock.Mock
}

func (m *MockIncomeRepository) CreateForDue(ctx context.Context, income *domain.Income) (bool, error) {
	args := m.Called(ctx, income)
	return args.Bool(0), args.Error(1)
}

func (m *MockIncomeRepository) GetByDueID(ctx context.Context, dueID uuid.UUID) (*domain.Income, error) {
	args := m.Called(ctx, dueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Income), args.Error(1)
}

func (m *MockIncomeRepository) UpdateForDue(ctx context.Context, dueID uuid.UUID, amount decimal.Decimal, method string) error {
	args := m.Called(ctx, dueID, amount, method)
	return args.Error(0)
}
