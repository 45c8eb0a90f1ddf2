package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings target. Progress is the sum of its GoalSaving entries;
// the goal row itself never stores a running total.
type Goal struct {
	CreatedAt    time.Time
	Deadline     *time.Time
	ID           string
	OwnerID      string
	Name         string
	TargetAmount decimal.Decimal
}

// GoalSaving is one contribution toward a goal. Entries are append-only.
type GoalSaving struct {
	CreatedAt time.Time
	ID        string
	OwnerID   string
	GoalID    string
	Amount    decimal.Decimal
}
