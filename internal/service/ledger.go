package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/dues-engine/internal/domain"
	"github.com/segyhp/dues-engine/internal/repository"
)

// LedgerRecorder books income for a paid due. Record must be safe to call twice for
// the same due and must leave the booked amount and method matching the latest entry.
type LedgerRecorder interface {
	Record(ctx context.Context, entry domain.LedgerEntry) (*domain.Income, error)
}

// IncomeLedger records dues income in the incomes table, one row per due.
// A repeat entry with a different amount or method rewrites that row.
type IncomeLedger struct {
	incomes repository.IncomeRepository
	now     func() time.Time
}

func NewIncomeLedger(incomes repository.IncomeRepository) *IncomeLedger {
	return &IncomeLedger{incomes: incomes, now: time.Now}
}

func (l *IncomeLedger) Record(ctx context.Context, entry domain.LedgerEntry) (*domain.Income, error) {
	income := &domain.Income{
		ID:            uuid.New(),
		AssociationID: entry.AssociationID,
		DueID:         entry.DueID,
		PayerID:       entry.PayerID,
		Amount:        entry.Amount,
		Method:        entry.Method,
		Type:          domain.IncomeTypeDues,
		Status:        domain.IncomeStatusApproved,
		Description:   fmt.Sprintf("Dues payment from %s", entry.PayerName),
		RecordedBy:    entry.RecordedBy,
		CreatedAt:     l.now(),
	}

	created, err := l.incomes.CreateForDue(ctx, income)
	if err != nil {
		return nil, err
	}
	if created {
		return income, nil
	}

	existing, err := l.incomes.GetByDueID(ctx, entry.DueID)
	if err != nil {
		return nil, err
	}
	if existing.Amount.Equal(entry.Amount) && existing.Method == entry.Method {
		return existing, nil
	}

	// a reapplied payment changed what was collected
	if err := l.incomes.UpdateForDue(ctx, entry.DueID, entry.Amount, entry.Method); err != nil {
		return nil, err
	}
	existing.Amount = entry.Amount
	existing.Method = entry.Method

	return existing, nil
}
