package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/dues-engine/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type associationRepository struct {
	db *sqlx.DB
}

func NewAssociationRepository(db *sqlx.DB) AssociationRepository {
	return &associationRepository{db: db}
}

type associationRow struct {
	ID              uuid.UUID       `db:"id"`
	Name            string          `db:"name"`
	Currency        string          `db:"currency"`
	DuesEnabled     bool            `db:"dues_enabled"`
	DuesAmount      decimal.Decimal `db:"dues_amount"`
	DuesFrequency   string          `db:"dues_frequency"`
	DuesAnchorDay   int             `db:"dues_anchor_day"`
	DuesDescription string          `db:"dues_description"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

func (r associationRow) toDomain() *domain.Association {
	return &domain.Association{
		ID:       r.ID,
		Name:     r.Name,
		Currency: r.Currency,
		Dues: domain.RecurrenceRule{
			Enabled:     r.DuesEnabled,
			Amount:      r.DuesAmount,
			Frequency:   domain.Frequency(r.DuesFrequency),
			AnchorDay:   r.DuesAnchorDay,
			Description: r.DuesDescription,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

const associationColumns = `id, name, currency, dues_enabled, dues_amount, dues_frequency, dues_anchor_day, dues_description, created_at, updated_at`

func (r *associationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Association, error) {
	query := `SELECT ` + associationColumns + ` FROM associations WHERE id = $1`

	var row associationRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}

	return row.toDomain(), nil
}

func (r *associationRepository) ListDuesEnabled(ctx context.Context) ([]*domain.Association, error) {
	query := `SELECT ` + associationColumns + ` FROM associations WHERE dues_enabled = TRUE ORDER BY created_at`

	var rows []associationRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	associations := make([]*domain.Association, 0, len(rows))
	for _, row := range rows {
		associations = append(associations, row.toDomain())
	}

	return associations, nil
}
