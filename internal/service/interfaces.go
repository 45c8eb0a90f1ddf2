// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Harxhith/BatVault/internal/model"
	"github.com/shopspring/decimal"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Kind      *model.TransactionKind
	Limit     int
}

// Storage defines the contract for the record store. All reads and writes
// are scoped to a single owning user; no operation crosses owners.
type Storage interface {
	// Transaction records
	CreateTransaction(ctx context.Context, txn *model.Transaction) (string, error)
	GetTransactions(ctx context.Context, ownerID string, filter TransactionFilter) ([]model.Transaction, error)
	DeleteTransaction(ctx context.Context, ownerID, id string) error

	// Recurring definitions
	CreateRecurringDefinition(ctx context.Context, def *model.RecurringDefinition) (string, error)
	GetRecurringDefinitions(ctx context.Context, ownerID string) ([]model.RecurringDefinition, error)
	GetActiveRecurringDefinitions(ctx context.Context, ownerID string) ([]model.RecurringDefinition, error)
	UpdateRecurringSchedule(ctx context.Context, id string, nextDue, lastRun time.Time, active bool) error
	SetRecurringActive(ctx context.Context, ownerID, id string, active bool) error
	DeleteRecurringDefinition(ctx context.Context, ownerID, id string) error

	// Categories
	CreateCategory(ctx context.Context, category *model.Category) (string, error)
	GetCategories(ctx context.Context, ownerID string) ([]model.Category, error)
	GetCategoryByID(ctx context.Context, ownerID, id string) (*model.Category, error)
	DeleteCategory(ctx context.Context, ownerID, id string) error

	// Savings goals
	CreateGoal(ctx context.Context, goal *model.Goal) (string, error)
	GetGoals(ctx context.Context, ownerID string) ([]model.Goal, error)
	DeleteGoal(ctx context.Context, ownerID, id string) error
	AddGoalSaving(ctx context.Context, saving *model.GoalSaving) (string, error)
	GetGoalProgress(ctx context.Context, ownerID string) (map[string]decimal.Decimal, error)

	// User settings
	GetUserSettings(ctx context.Context, ownerID string) (*model.UserSettings, error)
	SaveUserSettings(ctx context.Context, settings *model.UserSettings) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// OutcomeStatus reports how processing one definition ended.
type OutcomeStatus string

const (
	// StatusSuccess means a record was posted and the schedule advanced.
	StatusSuccess OutcomeStatus = "success"
	// StatusError means the definition was skipped or only partially
	// processed; the batch continues regardless.
	StatusError OutcomeStatus = "error"
)

// DefinitionOutcome is the per-definition result of a processor pass.
type DefinitionOutcome struct {
	Err          error
	DefinitionID string
	Status       OutcomeStatus
}

// ProcessResult aggregates one processor invocation. Processed counts
// successful definitions only; Results carries every due definition.
type ProcessResult struct {
	Results   []DefinitionOutcome
	Processed int
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
