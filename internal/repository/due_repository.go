package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/dues-engine/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type dueRepository struct {
	db *sqlx.DB
}

func NewDueRepository(db *sqlx.DB) DueRepository {
	return &dueRepository{db: db}
}

const dueColumns = `id, association_id, member_id, amount, due_date, period_start, period_end, status,
	paid_date, paid_amount, payment_method, notes, payment_reference, created_at, updated_at`

func (r *dueRepository) FindInPeriod(ctx context.Context, associationID, memberID uuid.UUID, period domain.DuesPeriod) (*domain.MemberDue, error) {
	query := `
		SELECT ` + dueColumns + `
		FROM member_dues
		WHERE association_id = $1 AND member_id = $2 AND due_date >= $3 AND due_date <= $4
		ORDER BY due_date
		LIMIT 1
	`

	var due domain.MemberDue
	if err := r.db.GetContext(ctx, &due, query, associationID, memberID, period.Start, period.End); err != nil {
		return nil, err
	}

	return &due, nil
}

func (r *dueRepository) CreateIfAbsent(ctx context.Context, due *domain.MemberDue) (bool, error) {
	query := `
		INSERT INTO member_dues (id, association_id, member_id, amount, due_date, period_start, period_end, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (association_id, member_id, period_start) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query,
		due.ID,
		due.AssociationID,
		due.MemberID,
		due.Amount,
		due.DueDate,
		due.PeriodStart,
		due.PeriodEnd,
		due.Status,
		due.CreatedAt,
		due.UpdatedAt,
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func (r *dueRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MemberDue, error) {
	query := `SELECT ` + dueColumns + ` FROM member_dues WHERE id = $1`

	var due domain.MemberDue
	if err := r.db.GetContext(ctx, &due, query, id); err != nil {
		return nil, err
	}

	return &due, nil
}

func (r *dueRepository) ListByAssociation(ctx context.Context, associationID uuid.UUID) ([]*domain.MemberDue, error) {
	query := `
		SELECT ` + dueColumns + `
		FROM member_dues
		WHERE association_id = $1
		ORDER BY due_date DESC, member_id
	`

	var dues []*domain.MemberDue
	if err := r.db.SelectContext(ctx, &dues, query, associationID); err != nil {
		return nil, err
	}

	return dues, nil
}

func (r *dueRepository) ListByMember(ctx context.Context, memberID uuid.UUID) ([]*domain.MemberDue, error) {
	query := `
		SELECT ` + dueColumns + `
		FROM member_dues
		WHERE member_id = $1
		ORDER BY due_date DESC
	`

	var dues []*domain.MemberDue
	if err := r.db.SelectContext(ctx, &dues, query, memberID); err != nil {
		return nil, err
	}

	return dues, nil
}

func (r *dueRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	query := `
		UPDATE member_dues
		SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.ExecContext(ctx, query, id, from, to, time.Now())
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func (r *dueRepository) MarkOverdue(ctx context.Context, associationID uuid.UUID, cutoff time.Time) (int64, error) {
	query := `
		UPDATE member_dues
		SET status = $2, updated_at = $4
		WHERE association_id = $1 AND status = $3 AND due_date <= $5
	`

	result, err := r.db.ExecContext(ctx, query,
		associationID,
		domain.DueStatusOverdue,
		domain.DueStatusPending,
		time.Now(),
		cutoff,
	)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *dueRepository) UpdatePayment(ctx context.Context, due *domain.MemberDue, from []string) (bool, error) {
	query := `
		UPDATE member_dues
		SET status = $2, paid_date = $3, paid_amount = $4, payment_method = $5, notes = $6,
			payment_reference = $7, updated_at = $8
		WHERE id = $1 AND status = ANY($9)
	`

	result, err := r.db.ExecContext(ctx, query,
		due.ID,
		due.Status,
		due.PaidDate,
		due.PaidAmount,
		due.PaymentMethod,
		due.Notes,
		due.PaymentReference,
		due.UpdatedAt,
		pq.Array(from),
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func (r *dueRepository) LatestOutstanding(ctx context.Context, associationID, memberID uuid.UUID) (*domain.MemberDue, error) {
	query := `
		SELECT ` + dueColumns + `
		FROM member_dues
		WHERE association_id = $1 AND member_id = $2 AND status IN ($3, $4)
		ORDER BY due_date DESC
		LIMIT 1
	`

	var due domain.MemberDue
	if err := r.db.GetContext(ctx, &due, query, associationID, memberID, domain.DueStatusPending, domain.DueStatusOverdue); err != nil {
		return nil, err
	}

	return &due, nil
}
