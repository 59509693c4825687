package repository_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/segyhp/dues-engine/internal/domain"
	"github.com/segyhp/dues-engine/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to TEST_DATABASE_URL, applies the schema and clears data.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping postgres repository tests")
	}

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../scripts/init.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	_, err = db.Exec("TRUNCATE incomes, member_dues, association_members, associations CASCADE")
	require.NoError(t, err)

	return db
}

func seedAssociation(t *testing.T, db *sqlx.DB, enabled bool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(`
		INSERT INTO associations (id, name, currency, dues_enabled, dues_amount, dues_frequency, dues_anchor_day)
		VALUES ($1, 'Old Students', 'GHS', $2, 50.00, 'monthly', 1)
	`, id, enabled)
	require.NoError(t, err)

	return id
}

func seedMember(t *testing.T, db *sqlx.DB, associationID uuid.UUID, role, status string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	_, err := db.Exec(`
		INSERT INTO association_members (association_id, user_id, name, email, role, status)
		VALUES ($1, $2, 'Ama', 'ama@example.com', $3, $4)
	`, associationID, userID, role, status)
	require.NoError(t, err)

	return userID
}

func newDue(associationID, memberID uuid.UUID, dueDate time.Time) *domain.MemberDue {
	now := time.Now().UTC()
	return &domain.MemberDue{
		ID:            uuid.New(),
		AssociationID: associationID,
		MemberID:      memberID,
		Amount:        decimal.NewFromInt(50),
		DueDate:       dueDate,
		PeriodStart:   dueDate.AddDate(0, -1, 1),
		PeriodEnd:     dueDate,
		Status:        domain.DueStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestAssociationRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewAssociationRepository(db)
	ctx := context.Background()

	enabled := seedAssociation(t, db, true)
	seedAssociation(t, db, false)

	association, err := repo.GetByID(ctx, enabled)
	require.NoError(t, err)
	assert.True(t, association.Dues.Enabled)
	assert.Equal(t, domain.FrequencyMonthly, association.Dues.Frequency)
	assert.Equal(t, 1, association.Dues.AnchorDay)
	assert.True(t, association.Dues.Amount.Equal(decimal.NewFromInt(50)))

	list, err := repo.ListDuesEnabled(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, enabled, list[0].ID)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMemberRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewMemberRepository(db)
	ctx := context.Background()

	associationID := seedAssociation(t, db, true)
	admin := seedMember(t, db, associationID, domain.MemberRoleAdmin, domain.MemberStatusActive)
	seedMember(t, db, associationID, domain.MemberRoleMember, domain.MemberStatusActive)
	seedMember(t, db, associationID, domain.MemberRoleMember, domain.MemberStatusInactive)

	active, err := repo.ListActive(ctx, associationID)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	member, err := repo.GetMember(ctx, associationID, admin)
	require.NoError(t, err)
	assert.True(t, member.CanManageDues())
}

func TestDueRepository_CreateIfAbsent(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewDueRepository(db)
	ctx := context.Background()

	associationID := seedAssociation(t, db, true)
	memberID := seedMember(t, db, associationID, domain.MemberRoleMember, domain.MemberStatusActive)
	dueDate := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	created, err := repo.CreateIfAbsent(ctx, newDue(associationID, memberID, dueDate))
	require.NoError(t, err)
	assert.True(t, created)

	// same period start from a racing writer
	created, err = repo.CreateIfAbsent(ctx, newDue(associationID, memberID, dueDate))
	require.NoError(t, err)
	assert.False(t, created)

	found, err := repo.FindInPeriod(ctx, associationID, memberID, domain.DuesPeriod{
		Start: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		End:   dueDate,
	})
	require.NoError(t, err)
	assert.True(t, found.DueDate.Equal(dueDate))

	_, err = repo.FindInPeriod(ctx, associationID, memberID, domain.DuesPeriod{
		Start: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, sql.ErrNoRows)

	dues, err := repo.ListByAssociation(ctx, associationID)
	require.NoError(t, err)
	assert.Len(t, dues, 1)
}

func TestDueRepository_StatusTransitions(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewDueRepository(db)
	ctx := context.Background()

	associationID := seedAssociation(t, db, true)
	memberID := seedMember(t, db, associationID, domain.MemberRoleMember, domain.MemberStatusActive)

	past := newDue(associationID, memberID, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	future := newDue(associationID, memberID, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	for _, d := range []*domain.MemberDue{past, future} {
		_, err := repo.CreateIfAbsent(ctx, d)
		require.NoError(t, err)
	}

	flipped, err := repo.MarkOverdue(ctx, associationID, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), flipped)

	moved, err := repo.UpdateStatus(ctx, past.ID, domain.DueStatusPending, domain.DueStatusOverdue)
	require.NoError(t, err)
	assert.False(t, moved, "already overdue")

	paidAt := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	amount := decimal.NewFromInt(50)
	method := domain.PaymentMethodManual
	past.Status = domain.DueStatusPaid
	past.PaidDate = &paidAt
	past.PaidAmount = &amount
	past.PaymentMethod = &method
	past.UpdatedAt = paidAt
	payable := []string{domain.DueStatusPending, domain.DueStatusOverdue}
	written, err := repo.UpdatePayment(ctx, past, payable)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = repo.UpdatePayment(ctx, past, payable)
	require.NoError(t, err)
	assert.False(t, written, "already paid")

	stored, err := repo.GetByID(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DueStatusPaid, stored.Status)
	require.NotNil(t, stored.PaidAmount)
	assert.True(t, stored.PaidAmount.Equal(amount))
	assert.Nil(t, stored.Notes)

	byMember, err := repo.ListByMember(ctx, memberID)
	require.NoError(t, err)
	require.Len(t, byMember, 2)
	assert.True(t, byMember[0].DueDate.After(byMember[1].DueDate))
}

func TestIncomeRepository_CreateForDue(t *testing.T) {
	db := setupTestDB(t)
	dues := repository.NewDueRepository(db)
	incomes := repository.NewIncomeRepository(db)
	ctx := context.Background()

	associationID := seedAssociation(t, db, true)
	memberID := seedMember(t, db, associationID, domain.MemberRoleMember, domain.MemberStatusActive)
	due := newDue(associationID, memberID, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	_, err := dues.CreateIfAbsent(ctx, due)
	require.NoError(t, err)

	income := func() *domain.Income {
		return &domain.Income{
			ID:            uuid.New(),
			AssociationID: associationID,
			DueID:         due.ID,
			PayerID:       memberID,
			Amount:        decimal.NewFromInt(50),
			Method:        domain.PaymentMethodManual,
			Type:          domain.IncomeTypeDues,
			Status:        domain.IncomeStatusApproved,
			CreatedAt:     time.Now(),
		}
	}

	created, err := incomes.CreateForDue(ctx, income())
	require.NoError(t, err)
	assert.True(t, created)

	created, err = incomes.CreateForDue(ctx, income())
	require.NoError(t, err)
	assert.False(t, created)

	stored, err := incomes.GetByDueID(ctx, due.ID)
	require.NoError(t, err)
	assert.Equal(t, memberID, stored.PayerID)
	assert.Nil(t, stored.RecordedBy)

	require.NoError(t, incomes.UpdateForDue(ctx, due.ID, decimal.NewFromInt(60), "momo"))
	stored, err = incomes.GetByDueID(ctx, due.ID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, "momo", stored.Method)

	err = incomes.UpdateForDue(ctx, uuid.New(), decimal.NewFromInt(1), "momo")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDueRepository_LatestOutstanding(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewDueRepository(db)
	ctx := context.Background()

	associationID := seedAssociation(t, db, true)
	memberID := seedMember(t, db, associationID, domain.MemberRoleMember, domain.MemberStatusActive)

	_, err := repo.LatestOutstanding(ctx, associationID, memberID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	older := newDue(associationID, memberID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	newer := newDue(associationID, memberID, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	for _, d := range []*domain.MemberDue{older, newer} {
		_, err := repo.CreateIfAbsent(ctx, d)
		require.NoError(t, err)
	}

	latest, err := repo.LatestOutstanding(ctx, associationID, memberID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)

	moved, err := repo.UpdateStatus(ctx, newer.ID, domain.DueStatusPending, domain.DueStatusPaid)
	require.NoError(t, err)
	require.True(t, moved)

	latest, err = repo.LatestOutstanding(ctx, associationID, memberID)
	require.NoError(t, err)
	assert.Equal(t, older.ID, latest.ID)
}
