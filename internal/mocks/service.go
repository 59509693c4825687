package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/segyhp/dues-engine/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockDuesService struct {
	mock.Mock
}

func (m *MockDuesService) ListAssociationDues(ctx context.Context, associationID, actorID uuid.UUID) (*domain.DuesListResponse, error) {
	args := m.Called(ctx, associationID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DuesListResponse), args.Error(1)
}

func (m *MockDuesService) GenerateDues(ctx context.Context, associationID, actorID uuid.UUID) (*domain.ReconcileReport, error) {
	args := m.Called(ctx, associationID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconcileReport), args.Error(1)
}

func (m *MockDuesService) MarkPaid(ctx context.Context, dueID, actorID uuid.UUID, request domain.MarkPaidRequest) (*domain.MemberDue, error) {
	args := m.Called(ctx, dueID, actorID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MemberDue), args.Error(1)
}

func (m *MockDuesService) RetryLedger(ctx context.Context, dueID, actorID uuid.UUID) (*domain.MemberDue, error) {
	args := m.Called(ctx, dueID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MemberDue), args.Error(1)
}

func (m *MockDuesService) MemberDuesSummary(ctx context.Context, memberID, actorID uuid.UUID) (*domain.MemberDuesResponse, error) {
	args := m.Called(ctx, memberID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MemberDuesResponse), args.Error(1)
}

func (m *MockDuesService) ConfirmGatewayPayment(ctx context.Context, request domain.GatewayPaymentRequest) (*domain.MemberDue, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MemberDue), args.Error(1)
}

func (m *MockDuesService) SendReminder(ctx context.Context, associationID, memberID, actorID uuid.UUID) (*domain.ReminderResponse, error) {
	args := m.Called(ctx, associationID, memberID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReminderResponse), args.Error(1)
}

// NewMockDuesService creates a new mock dues service instance
func NewMockDuesService() *MockDuesService {
	return &MockDuesService{}
}
