package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	IncomeTypeDues       = "dues"
	IncomeStatusApproved = "approved"
)

// Income is a ledger entry created when a due is paid
type Income struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	AssociationID uuid.UUID       `json:"association_id" db:"association_id"`
	DueID         uuid.UUID       `json:"due_id" db:"due_id"`
	PayerID       uuid.UUID       `json:"payer_id" db:"payer_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Method        string          `json:"method" db:"method"`
	Type          string          `json:"type" db:"type"`
	Status        string          `json:"status" db:"status"`
	Description   string          `json:"description" db:"description"`
	RecordedBy    *uuid.UUID      `json:"recorded_by,omitempty" db:"recorded_by"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// LedgerEntry is what the dues engine hands to the income recorder
type LedgerEntry struct {
	AssociationID uuid.UUID
	DueID         uuid.UUID
	PayerID       uuid.UUID
	PayerName     string
	Amount        decimal.Decimal
	Method        string
	RecordedBy    *uuid.UUID
}
