package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes money going out from money coming in.
type TransactionKind string

const (
	// KindExpense represents money spent.
	KindExpense TransactionKind = "expense"
	// KindIncome represents money received.
	KindIncome TransactionKind = "income"
)

// Valid reports whether the kind is one of the known values.
func (k TransactionKind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

// Transaction is a posted expense or income entry. Records created by the
// recurring processor carry no back-reference to their definition, so
// deleting a definition never touches history.
type Transaction struct {
	Date        time.Time // calendar date; time-of-day carries no meaning
	CreatedAt   time.Time
	ID          string
	OwnerID     string
	Description string
	CategoryID  string
	Kind        TransactionKind
	Amount      decimal.Decimal
}
