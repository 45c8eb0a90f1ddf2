package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Harxhith/BatVault/internal/common"
	"github.com/Harxhith/BatVault/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateGoal persists a new savings goal and returns its id.
func (s *SQLiteStorage) CreateGoal(ctx context.Context, goal *model.Goal) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if goal == nil {
		return "", fmt.Errorf("%w: goal", ErrNilParameter)
	}
	if err := validateString(goal.OwnerID, "ownerID"); err != nil {
		return "", err
	}
	if err := validateString(goal.Name, "name"); err != nil {
		return "", err
	}
	if err := validateAmount(goal.TargetAmount); err != nil {
		return "", err
	}

	id := goal.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := goal.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (id, owner_id, name, target_amount, deadline, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, goal.OwnerID, goal.Name, goal.TargetAmount.String(), nullableTime(goal.Deadline), createdAt)
	if err != nil {
		return "", fmt.Errorf("%w: failed to insert goal: %v", common.ErrStoreUnavailable, err)
	}

	return id, nil
}

// GetGoals returns all of an owner's goals, oldest first.
func (s *SQLiteStorage) GetGoals(ctx context.Context, ownerID string) ([]model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, name, target_amount, deadline, created_at
		FROM goals
		WHERE owner_id = ?
		ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query goals: %v", common.ErrStoreUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var goals []model.Goal
	for rows.Next() {
		var (
			goal     model.Goal
			target   string
			deadline sql.NullTime
		)
		if err := rows.Scan(&goal.ID, &goal.OwnerID, &goal.Name, &target, &deadline, &goal.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		parsed, err := decimal.NewFromString(target)
		if err != nil {
			return nil, fmt.Errorf("corrupt target amount %q on goal %s: %w", target, goal.ID, err)
		}
		goal.TargetAmount = parsed
		if deadline.Valid {
			v := deadline.Time
			goal.Deadline = &v
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	return goals, nil
}

// DeleteGoal removes a goal and its savings entries.
func (s *SQLiteStorage) DeleteGoal(ctx context.Context, ownerID, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM goals WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("%w: failed to delete goal: %v", common.ErrStoreUnavailable, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: goal %s", common.ErrNotFound, id)
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM goal_savings WHERE goal_id = ? AND owner_id = ?`, id, ownerID); err != nil {
		return fmt.Errorf("%w: failed to delete goal savings: %v", common.ErrStoreUnavailable, err)
	}
	return nil
}

// AddGoalSaving appends a savings contribution toward a goal.
func (s *SQLiteStorage) AddGoalSaving(ctx context.Context, saving *model.GoalSaving) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if saving == nil {
		return "", fmt.Errorf("%w: saving", ErrNilParameter)
	}
	if err := validateString(saving.OwnerID, "ownerID"); err != nil {
		return "", err
	}
	if err := validateString(saving.GoalID, "goalID"); err != nil {
		return "", err
	}
	if err := validateAmount(saving.Amount); err != nil {
		return "", err
	}

	id := saving.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := saving.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goal_savings (id, owner_id, goal_id, amount, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, saving.OwnerID, saving.GoalID, saving.Amount.String(), createdAt)
	if err != nil {
		return "", fmt.Errorf("%w: failed to insert goal saving: %v", common.ErrStoreUnavailable, err)
	}

	return id, nil
}

// GetGoalProgress returns the total saved per goal id for an owner.
func (s *SQLiteStorage) GetGoalProgress(ctx context.Context, ownerID string) (map[string]decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT goal_id, amount
		FROM goal_savings
		WHERE owner_id = ?`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query goal savings: %v", common.ErrStoreUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	// Amounts are stored as decimal strings, so the sum happens here
	// rather than in SQL.
	progress := make(map[string]decimal.Decimal)
	for rows.Next() {
		var goalID, amount string
		if err := rows.Scan(&goalID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan goal saving: %w", err)
		}
		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("corrupt amount %q on goal saving for goal %s: %w", amount, goalID, err)
		}
		progress[goalID] = progress[goalID].Add(parsed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goal savings: %w", err)
	}

	return progress, nil
}
