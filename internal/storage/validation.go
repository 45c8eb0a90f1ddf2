// Package storage provides the data persistence layer for the BatVault application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Harxhith/BatVault/internal/model"
	"github.com/shopspring/decimal"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrNilParameter      = errors.New("parameter cannot be nil")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidKind       = errors.New("invalid transaction kind")
	ErrInvalidDefinition = errors.New("invalid recurring definition")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateAmount ensures a money amount is strictly positive.
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}
	return nil
}

// validateTransaction validates a transaction before persisting.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.OwnerID == "" {
		return fmt.Errorf("%w: owner_id", ErrEmptyString)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("transaction missing date")
	}
	if !txn.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, txn.Kind)
	}
	return validateAmount(txn.Amount)
}

// validateDefinition validates a recurring definition before persisting.
// Schedule-specific range checks (anchor, frequency) belong to the
// schedule package; this covers the record-level invariants.
func validateDefinition(def *model.RecurringDefinition) error {
	if def == nil {
		return fmt.Errorf("%w: definition", ErrNilParameter)
	}
	if def.OwnerID == "" {
		return fmt.Errorf("%w: owner_id", ErrEmptyString)
	}
	if !def.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, def.Kind)
	}
	if !def.Frequency.Valid() {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidDefinition, def.Frequency)
	}
	if def.StartDate.IsZero() || def.NextDue.IsZero() {
		return fmt.Errorf("%w: missing start or next due date", ErrInvalidDefinition)
	}
	if def.NextDue.Before(def.StartDate) {
		return fmt.Errorf("%w: next due %s before start date %s", ErrInvalidDefinition, def.NextDue, def.StartDate)
	}
	return validateAmount(def.Amount)
}
