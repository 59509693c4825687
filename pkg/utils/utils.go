package utils

import (
	"time"

	"github.com/segyhp/dues-engine/internal/domain"

	"github.com/shopspring/decimal"
)

// StartOfDay truncates t to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// NextDueDate calculates the next occurrence of the rule's anchor after today.
// An anchor that falls on today rolls to the following occurrence.
// Anchor days past the end of a month roll into the next month (time.Date normalisation).
// Weekly rules are not anchored to a weekday: the due date is always a week from today.
func NextDueDate(frequency domain.Frequency, anchorDay int, now time.Time) time.Time {
	today := StartOfDay(now)
	year, month, loc := today.Year(), today.Month(), today.Location()

	switch frequency {
	case domain.FrequencyMonthly:
		target := time.Date(year, month, anchorDay, 0, 0, 0, 0, loc)
		if !target.After(today) {
			target = time.Date(year, month+1, anchorDay, 0, 0, 0, 0, loc)
		}
		return target

	case domain.FrequencyQuarterly:
		quarterStart := ((month-1)/3)*3 + 1
		target := time.Date(year, quarterStart, anchorDay, 0, 0, 0, 0, loc)
		if !target.After(today) {
			target = time.Date(year, quarterStart+3, anchorDay, 0, 0, 0, 0, loc)
		}
		return target

	case domain.FrequencyYearly:
		target := time.Date(year, time.January, anchorDay, 0, 0, 0, 0, loc)
		if !target.After(today) {
			target = time.Date(year+1, time.January, anchorDay, 0, 0, 0, 0, loc)
		}
		return target

	default:
		return today.AddDate(0, 0, 7)
	}
}

// PeriodRange returns the closed period that ends on dueDate
func PeriodRange(frequency domain.Frequency, dueDate time.Time) domain.DuesPeriod {
	var start time.Time

	switch frequency {
	case domain.FrequencyMonthly:
		start = dueDate.AddDate(0, -1, 0)
	case domain.FrequencyQuarterly:
		start = dueDate.AddDate(0, -3, 0)
	case domain.FrequencyYearly:
		start = dueDate.AddDate(-1, 0, 0)
	default:
		start = dueDate.AddDate(0, 0, -7)
	}

	return domain.DuesPeriod{
		Start: start.AddDate(0, 0, 1),
		End:   dueDate,
	}
}

// IsOverdue reports whether the whole due day has passed at now. This is
// stricter than a plain dueDate < now comparison, which would flag a midnight
// due date as soon as its own day starts. The bulk sweep uses the matching
// cutoff of now minus one day.
func IsOverdue(dueDate time.Time, now time.Time) bool {
	return !now.Before(dueDate.AddDate(0, 0, 1))
}

// InitialStatus is the status a freshly generated due starts in
func InitialStatus(dueDate time.Time, now time.Time) string {
	if IsOverdue(dueDate, now) {
		return domain.DueStatusOverdue
	}
	return domain.DueStatusPending
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// FromMinorUnits converts a gateway amount in kobo/pesewas to major units
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
