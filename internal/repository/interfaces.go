package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/dues-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// AssociationRepository reads association settings
type AssociationRepository interface {
	// GetByID retrieves an association and its dues rule
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Association, error)

	// ListDuesEnabled retrieves every association with dues switched on
	ListDuesEnabled(ctx context.Context) ([]*domain.Association, error)
}

// MemberRepository is the membership directory
type MemberRepository interface {
	// GetMember retrieves a user's membership in an association
	GetMember(ctx context.Context, associationID, userID uuid.UUID) (*domain.Member, error)

	// ListActive retrieves members with status active
	ListActive(ctx context.Context, associationID uuid.UUID) ([]*domain.Member, error)
}

// DueRepository defines the interface for member due operations
type DueRepository interface {
	// FindInPeriod finds a member's due whose due date falls inside the period
	FindInPeriod(ctx context.Context, associationID, memberID uuid.UUID, period domain.DuesPeriod) (*domain.MemberDue, error)

	// CreateIfAbsent inserts the due unless one already exists for the same period start.
	// It reports whether a row was written.
	CreateIfAbsent(ctx context.Context, due *domain.MemberDue) (bool, error)

	// GetByID retrieves a due by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MemberDue, error)

	// ListByAssociation retrieves all dues of an association, newest due date first
	ListByAssociation(ctx context.Context, associationID uuid.UUID) ([]*domain.MemberDue, error)

	// ListByMember retrieves a member's dues across associations, newest due date first
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]*domain.MemberDue, error)

	// UpdateStatus moves a due from one status to another; false when the due was not in from
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error)

	// MarkOverdue flips every pending due whose due date is at or before cutoff
	MarkOverdue(ctx context.Context, associationID uuid.UUID, cutoff time.Time) (int64, error)

	// UpdatePayment stores the status and payment fields of a due if its current
	// status is one of from. It reports whether the row was written.
	UpdatePayment(ctx context.Context, due *domain.MemberDue, from []string) (bool, error)

	// LatestOutstanding retrieves the member's newest pending or overdue due in the association
	LatestOutstanding(ctx context.Context, associationID, memberID uuid.UUID) (*domain.MemberDue, error)
}

// IncomeRepository is the ledger side of dues payments
type IncomeRepository interface {
	// CreateForDue inserts an income unless the due already has one
	CreateForDue(ctx context.Context, income *domain.Income) (bool, error)

	// GetByDueID retrieves the income recorded for a due
	GetByDueID(ctx context.Context, dueID uuid.UUID) (*domain.Income, error)

	// UpdateForDue rewrites the amount and method of the income booked for a due
	UpdateForDue(ctx context.Context, dueID uuid.UUID, amount decimal.Decimal, method string) error
}
