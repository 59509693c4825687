package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Frequency is how often an association collects dues
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// Valid reports whether f is one of the known frequencies
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

const (
	MemberRoleAdmin     = "admin"
	MemberRoleModerator = "moderator"
	MemberRoleMember    = "member"

	MemberStatusActive   = "active"
	MemberStatusInactive = "inactive"
	MemberStatusPending  = "pending"
)

// RecurrenceRule is the dues configuration held in an association's settings.
// AnchorDay is a day-of-month for monthly, quarterly and yearly rules.
type RecurrenceRule struct {
	Enabled     bool            `json:"enabled" db:"dues_enabled"`
	Amount      decimal.Decimal `json:"amount" db:"dues_amount"`
	Frequency   Frequency       `json:"frequency" db:"dues_frequency"`
	AnchorDay   int             `json:"anchor_day" db:"dues_anchor_day"`
	Description string          `json:"description" db:"dues_description"`
}

// Association represents an association entity
type Association struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	Name      string         `json:"name" db:"name"`
	Currency  string         `json:"currency" db:"currency"`
	Dues      RecurrenceRule `json:"dues" db:"-"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// Member is a user's membership in an association
type Member struct {
	AssociationID uuid.UUID `json:"association_id" db:"association_id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	Name          string    `json:"name" db:"name"`
	Email         string    `json:"email" db:"email"`
	Phone         string    `json:"phone" db:"phone"`
	Role          string    `json:"role" db:"role"`
	Status        string    `json:"status" db:"status"`
	JoinedAt      time.Time `json:"joined_at" db:"joined_at"`
}

// CanManageDues reports whether the member may record payments
func (m *Member) CanManageDues() bool {
	return m.Role == MemberRoleAdmin || m.Role == MemberRoleModerator
}

// IsActive reports whether dues should be generated for the member
func (m *Member) IsActive() bool {
	return m.Status == MemberStatusActive
}
