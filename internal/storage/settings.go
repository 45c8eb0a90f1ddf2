package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Harxhith/BatVault/internal/common"
	"github.com/Harxhith/BatVault/internal/model"
	"github.com/shopspring/decimal"
)

// GetUserSettings returns the owner's settings, or defaults when the owner
// has never saved any.
func (s *SQLiteStorage) GetUserSettings(ctx context.Context, ownerID string) (*model.UserSettings, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}

	var (
		settings model.UserSettings
		balance  string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT owner_id, initial_balance, notifications_enabled
		FROM user_settings
		WHERE owner_id = ?`, ownerID).
		Scan(&settings.OwnerID, &balance, &settings.NotificationsEnabled)
	if errors.Is(err, sql.ErrNoRows) {
		return &model.UserSettings{OwnerID: ownerID, InitialBalance: decimal.Zero}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query user settings: %v", common.ErrStoreUnavailable, err)
	}

	parsed, err := decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("corrupt initial balance %q for owner %s: %w", balance, ownerID, err)
	}
	settings.InitialBalance = parsed
	return &settings, nil
}

// SaveUserSettings creates or replaces the owner's settings row.
func (s *SQLiteStorage) SaveUserSettings(ctx context.Context, settings *model.UserSettings) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if settings == nil {
		return fmt.Errorf("%w: settings", ErrNilParameter)
	}
	if err := validateString(settings.OwnerID, "ownerID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_settings (owner_id, initial_balance, notifications_enabled)
		VALUES (?, ?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET
			initial_balance = excluded.initial_balance,
			notifications_enabled = excluded.notifications_enabled`,
		settings.OwnerID, settings.InitialBalance.String(), settings.NotificationsEnabled)
	if err != nil {
		return fmt.Errorf("%w: failed to save user settings: %v", common.ErrStoreUnavailable, err)
	}
	return nil
}
