package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Harxhith/BatVault/internal/common"
	"github.com/Harxhith/BatVault/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const recurringColumns = `id, owner_id, amount, description, category_id, kind, frequency,
	day_of_week, day_of_month, start_date, end_date, next_due, last_run, active, created_at`

// CreateRecurringDefinition persists a new recurring definition and
// returns its id.
func (s *SQLiteStorage) CreateRecurringDefinition(ctx context.Context, def *model.RecurringDefinition) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateDefinition(def); err != nil {
		return "", err
	}

	id := def.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := def.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recurring_transactions (
			id, owner_id, amount, description, category_id, kind, frequency,
			day_of_week, day_of_month, start_date, end_date, next_due, last_run, active, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		def.OwnerID,
		def.Amount.String(),
		def.Description,
		def.CategoryID,
		string(def.Kind),
		string(def.Frequency),
		nullableInt(def.DayOfWeek),
		nullableInt(def.DayOfMonth),
		def.StartDate,
		nullableTime(def.EndDate),
		def.NextDue,
		nullableTime(def.LastRun),
		def.Active,
		createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("%w: failed to insert recurring definition: %v", common.ErrStoreUnavailable, err)
	}

	slog.Debug("created recurring definition",
		"id", id,
		"owner_id", def.OwnerID,
		"frequency", def.Frequency,
		"next_due", def.NextDue)
	return id, nil
}

// GetRecurringDefinitions returns all of an owner's definitions ordered by
// next due date, paused ones included.
func (s *SQLiteStorage) GetRecurringDefinitions(ctx context.Context, ownerID string) ([]model.RecurringDefinition, error) {
	return s.queryRecurring(ctx, ownerID, false)
}

// GetActiveRecurringDefinitions returns only the definitions the processor
// should consider.
func (s *SQLiteStorage) GetActiveRecurringDefinitions(ctx context.Context, ownerID string) ([]model.RecurringDefinition, error) {
	return s.queryRecurring(ctx, ownerID, true)
}

func (s *SQLiteStorage) queryRecurring(ctx context.Context, ownerID string, activeOnly bool) ([]model.RecurringDefinition, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}

	query := `SELECT ` + recurringColumns + `
		FROM recurring_transactions
		WHERE owner_id = ?`
	if activeOnly {
		query += ` AND active = 1`
	}
	query += ` ORDER BY next_due ASC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query recurring definitions: %v", common.ErrStoreUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var defs []model.RecurringDefinition
	for rows.Next() {
		def, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring definitions: %w", err)
	}

	return defs, nil
}

// UpdateRecurringSchedule advances a definition after processing: new next
// due date, last run stamp, and the recomputed active flag, in one write.
func (s *SQLiteStorage) UpdateRecurringSchedule(ctx context.Context, id string, nextDue, lastRun time.Time, active bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE recurring_transactions
		SET next_due = ?, last_run = ?, active = ?
		WHERE id = ?`,
		nextDue, lastRun, active, id)
	if err != nil {
		return fmt.Errorf("%w: failed to update recurring schedule: %v", common.ErrStoreUnavailable, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: recurring definition %s", common.ErrNotFound, id)
	}
	return nil
}

// SetRecurringActive pauses or resumes a definition by explicit user action.
func (s *SQLiteStorage) SetRecurringActive(ctx context.Context, ownerID, id string, active bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE recurring_transactions SET active = ? WHERE id = ? AND owner_id = ?`,
		active, id, ownerID)
	if err != nil {
		return fmt.Errorf("%w: failed to toggle recurring definition: %v", common.ErrStoreUnavailable, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: recurring definition %s", common.ErrNotFound, id)
	}
	return nil
}

// DeleteRecurringDefinition removes a definition. Transactions it already
// materialized are untouched.
func (s *SQLiteStorage) DeleteRecurringDefinition(ctx context.Context, ownerID, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM recurring_transactions WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("%w: failed to delete recurring definition: %v", common.ErrStoreUnavailable, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: recurring definition %s", common.ErrNotFound, id)
	}
	return nil
}

func scanRecurring(rows *sql.Rows) (model.RecurringDefinition, error) {
	var (
		def         model.RecurringDefinition
		amount      string
		description sql.NullString
		categoryID  sql.NullString
		kind        string
		frequency   string
		dayOfWeek   sql.NullInt64
		dayOfMonth  sql.NullInt64
		endDate     sql.NullTime
		lastRun     sql.NullTime
	)
	if err := rows.Scan(
		&def.ID, &def.OwnerID, &amount, &description, &categoryID, &kind, &frequency,
		&dayOfWeek, &dayOfMonth, &def.StartDate, &endDate, &def.NextDue, &lastRun,
		&def.Active, &def.CreatedAt,
	); err != nil {
		return model.RecurringDefinition{}, fmt.Errorf("failed to scan recurring definition: %w", err)
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return model.RecurringDefinition{}, fmt.Errorf("corrupt amount %q on definition %s: %w", amount, def.ID, err)
	}
	def.Amount = parsed
	def.Description = description.String
	def.CategoryID = categoryID.String
	def.Kind = model.TransactionKind(kind)
	def.Frequency = model.Frequency(frequency)
	if dayOfWeek.Valid {
		v := int(dayOfWeek.Int64)
		def.DayOfWeek = &v
	}
	if dayOfMonth.Valid {
		v := int(dayOfMonth.Int64)
		def.DayOfMonth = &v
	}
	if endDate.Valid {
		v := endDate.Time
		def.EndDate = &v
	}
	if lastRun.Valid {
		v := lastRun.Time
		def.LastRun = &v
	}
	return def, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return *v
}
