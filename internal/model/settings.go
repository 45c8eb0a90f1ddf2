package model

import "github.com/shopspring/decimal"

// UserSettings holds per-user preferences. InitialBalance seeds the balance
// shown to the assistant alongside posted transactions.
type UserSettings struct {
	OwnerID              string
	InitialBalance       decimal.Decimal
	NotificationsEnabled bool
}
