package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Business logic constants
const (
	DueStatusPending = "pending"
	DueStatusPaid    = "paid"
	DueStatusOverdue = "overdue"

	PaymentMethodManual   = "manual"
	PaymentMethodPaystack = "paystack"
)

// DuesPeriod is the closed date interval a due date covers
type DuesPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside [Start, End]
func (p DuesPeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// MemberDue represents one member's obligation for one period
type MemberDue struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	AssociationID    uuid.UUID        `json:"association_id" db:"association_id"`
	MemberID         uuid.UUID        `json:"member_id" db:"member_id"`
	Amount           decimal.Decimal  `json:"amount" db:"amount"`
	DueDate          time.Time        `json:"due_date" db:"due_date"`
	PeriodStart      time.Time        `json:"period_start" db:"period_start"`
	PeriodEnd        time.Time        `json:"period_end" db:"period_end"`
	Status           string           `json:"status" db:"status"` // pending, paid, overdue
	PaidDate         *time.Time       `json:"paid_date,omitempty" db:"paid_date"`
	PaidAmount       *decimal.Decimal `json:"paid_amount,omitempty" db:"paid_amount"`
	PaymentMethod    *string          `json:"payment_method,omitempty" db:"payment_method"`
	Notes            *string          `json:"notes,omitempty" db:"notes"`
	PaymentReference *string          `json:"payment_reference,omitempty" db:"payment_reference"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}

// Period returns the period the due was generated for
func (d *MemberDue) Period() DuesPeriod {
	return DuesPeriod{Start: d.PeriodStart, End: d.PeriodEnd}
}

// IsPayable reports whether the due can move to paid
func (d *MemberDue) IsPayable() bool {
	return d.Status == DueStatusPending || d.Status == DueStatusOverdue
}

// DTOs for requests and responses

type MarkPaidRequest struct {
	PaidAmount    *decimal.Decimal `json:"paid_amount,omitempty" validate:"omitempty,decimal_gte=0"`
	PaymentMethod string           `json:"payment_method,omitempty" validate:"omitempty,max=50"`
	Notes         string           `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// GatewayPaymentRequest is a confirmed charge; Amount is in minor units
type GatewayPaymentRequest struct {
	Reference string    `json:"reference" validate:"required"`
	Amount    int64     `json:"amount" validate:"gte=0"`
	PaidAt    time.Time `json:"paid_at" validate:"required"`
}

type DuesListResponse struct {
	AssociationID uuid.UUID        `json:"association_id"`
	Dues          []*MemberDue     `json:"dues"`
	Reconcile     *ReconcileReport `json:"reconcile,omitempty"`
}

type GenerateDuesResponse struct {
	Count    int          `json:"count"`
	Existing int          `json:"existing"`
	DueDate  time.Time    `json:"due_date"`
	Period   DuesPeriod   `json:"period"`
	Failures []FailureDTO `json:"failures,omitempty"`
}

type FailureDTO struct {
	MemberID uuid.UUID `json:"member_id"`
	Error    string    `json:"error"`
}

// MemberDuesStats summarises a member's dues across associations
type MemberDuesStats struct {
	Total       int             `json:"total"`
	Paid        int             `json:"paid"`
	Pending     int             `json:"pending"`
	Overdue     int             `json:"overdue"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
}

type MemberDuesResponse struct {
	MemberID uuid.UUID       `json:"member_id"`
	Dues     []*MemberDue    `json:"dues"`
	Stats    MemberDuesStats `json:"stats"`
}

// ReminderResponse reports the due a reminder was sent for
type ReminderResponse struct {
	DueID    uuid.UUID       `json:"due_id"`
	MemberID uuid.UUID       `json:"member_id"`
	Amount   decimal.Decimal `json:"amount"`
	DueDate  time.Time       `json:"due_date"`
	Status   string          `json:"status"`
	Sent     bool            `json:"sent"`
}

// MemberFailure records why generation failed for one member
type MemberFailure struct {
	MemberID uuid.UUID
	Err      error
}

// ReconcileReport is the per-member outcome of one reconciliation pass
type ReconcileReport struct {
	AssociationID uuid.UUID       `json:"association_id"`
	DueDate       time.Time       `json:"due_date"`
	Period        DuesPeriod      `json:"period"`
	Generated     []*MemberDue    `json:"generated"`
	Skipped       []uuid.UUID     `json:"skipped"`
	Failures      []MemberFailure `json:"-"`
}

// Err joins member failures, nil when every member succeeded
func (r *ReconcileReport) Err() error {
	if r == nil || len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f.Err)
	}
	return errors.Join(errs...)
}

// FailureDTOs converts failures for JSON responses
func (r *ReconcileReport) FailureDTOs() []FailureDTO {
	if r == nil {
		return nil
	}
	out := make([]FailureDTO, 0, len(r.Failures))
	for _, f := range r.Failures {
		out = append(out, FailureDTO{MemberID: f.MemberID, Error: f.Err.Error()})
	}
	return out
}
