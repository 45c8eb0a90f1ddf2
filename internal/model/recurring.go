package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the recurrence cadence of a definition.
type Frequency string

const (
	// FrequencyWeekly recurs on a fixed day of the week.
	FrequencyWeekly Frequency = "weekly"
	// FrequencyMonthly recurs on a fixed day of the month.
	FrequencyMonthly Frequency = "monthly"
	// FrequencyQuarterly recurs on a fixed day of the first month of each
	// calendar quarter (Jan/Apr/Jul/Oct).
	FrequencyQuarterly Frequency = "quarterly"
	// FrequencyYearly recurs once a year on a fixed day of the start month.
	FrequencyYearly Frequency = "yearly"
)

// Valid reports whether the frequency is one of the known values.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	default:
		return false
	}
}

// RecurringDefinition is a user-scoped schedule template for automatic
// transactions. Exactly one of DayOfWeek/DayOfMonth is meaningful: the
// former when Frequency is weekly, the latter otherwise.
type RecurringDefinition struct {
	StartDate   time.Time
	NextDue     time.Time
	CreatedAt   time.Time
	EndDate     *time.Time
	LastRun     *time.Time
	DayOfWeek   *int // 0 (Sunday) through 6 (Saturday); weekly only
	DayOfMonth  *int // 1 through 31; clamped to shorter months
	ID          string
	OwnerID     string
	Description string
	CategoryID  string
	Kind        TransactionKind
	Frequency   Frequency
	Amount      decimal.Decimal
	Active      bool
}

// Materialize builds the concrete transaction this definition posts.
// The occurrence date is the processing date, not the originally scheduled
// one: late processing posts at today's date rather than back-dating.
func (d *RecurringDefinition) Materialize(now time.Time) Transaction {
	description := d.Description
	if description == "" {
		description = "Recurring Transaction"
	}
	return Transaction{
		OwnerID:     d.OwnerID,
		Amount:      d.Amount,
		Description: description,
		CategoryID:  d.CategoryID,
		Kind:        d.Kind,
		Date:        time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		CreatedAt:   now,
	}
}
