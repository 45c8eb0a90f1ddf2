package model

import "time"

// Category is a user-defined label for grouping transactions.
type Category struct {
	CreatedAt time.Time
	ID        string
	OwnerID   string
	Name      string
	Color     string // hex color used by clients when rendering
}
