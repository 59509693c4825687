package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/segyhp/dues-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type memberRepository struct {
	db *sqlx.DB
}

func NewMemberRepository(db *sqlx.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) GetMember(ctx context.Context, associationID, userID uuid.UUID) (*domain.Member, error) {
	query := `
		SELECT association_id, user_id, name, email, phone, role, status, joined_at
		FROM association_members
		WHERE association_id = $1 AND user_id = $2
	`

	var member domain.Member
	if err := r.db.GetContext(ctx, &member, query, associationID, userID); err != nil {
		return nil, err
	}

	return &member, nil
}

func (r *memberRepository) ListActive(ctx context.Context, associationID uuid.UUID) ([]*domain.Member, error) {
	query := `
		SELECT association_id, user_id, name, email, phone, role, status, joined_at
		FROM association_members
		WHERE association_id = $1 AND status = $2
		ORDER BY joined_at
	`

	var members []*domain.Member
	if err := r.db.SelectContext(ctx, &members, query, associationID, domain.MemberStatusActive); err != nil {
		return nil, err
	}

	return members, nil
}
