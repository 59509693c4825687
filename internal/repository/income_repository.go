package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/segyhp/dues-engine/internal/domain"
	"github.com/shopspring/decimal"

	"github.com/jmoiron/sqlx"
)

type incomeRepository struct {
	db *sqlx.DB
}

func NewIncomeRepository(db *sqlx.DB) IncomeRepository {
	return &incomeRepository{db: db}
}

func (r *incomeRepository) CreateForDue(ctx context.Context, income *domain.Income) (bool, error) {
	query := `
		INSERT INTO incomes (id, association_id, due_id, payer_id, amount, method, type, status, description, recorded_by, created_at)
		VALUES (:id, :association_id, :due_id, :payer_id, :amount, :method, :type, :status, :description, :recorded_by, :created_at)
		ON CONFLICT DO NOTHING
	`

	result, err := r.db.NamedExecContext(ctx, query, income)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func (r *incomeRepository) GetByDueID(ctx context.Context, dueID uuid.UUID) (*domain.Income, error) {
	query := `
		SELECT id, association_id, due_id, payer_id, amount, method, type, status, description, recorded_by, created_at
		FROM incomes
		WHERE due_id = $1
	`

	var income domain.Income
	if err := r.db.GetContext(ctx, &income, query, dueID); err != nil {
		return nil, err
	}

	return &income, nil
}

func (r *incomeRepository) UpdateForDue(ctx context.Context, dueID uuid.UUID, amount decimal.Decimal, method string) error {
	query := `
		UPDATE incomes
		SET amount = $2, method = $3
		WHERE due_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, dueID, amount, method)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
