package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Harxhith/BatVault/internal/common"
	"github.com/Harxhith/BatVault/internal/model"
	"github.com/Harxhith/BatVault/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTransaction persists a new transaction record and returns its id.
// A fresh id is assigned when the record carries none.
func (s *SQLiteStorage) CreateTransaction(ctx context.Context, txn *model.Transaction) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateTransaction(txn); err != nil {
		return "", err
	}

	id := txn.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := txn.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, owner_id, amount, description, category_id, kind, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		txn.OwnerID,
		txn.Amount.String(),
		txn.Description,
		txn.CategoryID,
		string(txn.Kind),
		txn.Date,
		createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("%w: failed to insert transaction: %v", common.ErrStoreUnavailable, err)
	}

	slog.Debug("created transaction", "id", id, "owner_id", txn.OwnerID, "kind", txn.Kind)
	return id, nil
}

// GetTransactions returns an owner's transactions, newest first, applying
// the optional filter fields.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, ownerID string, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}

	var conditions []string
	args := []any{ownerID}
	conditions = append(conditions, "owner_id = ?")

	if filter.StartDate != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, *filter.EndDate)
	}
	if filter.Kind != nil {
		conditions = append(conditions, "kind = ?")
		args = append(args, string(*filter.Kind))
	}

	query := `
		SELECT id, owner_id, amount, description, category_id, kind, date, created_at
		FROM transactions
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY date DESC, created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query transactions: %v", common.ErrStoreUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// DeleteTransaction removes a single transaction owned by the given user.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("%w: failed to delete transaction: %v", common.ErrStoreUnavailable, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}
	return nil
}

func scanTransaction(rows *sql.Rows) (model.Transaction, error) {
	var (
		txn         model.Transaction
		amount      string
		description sql.NullString
		categoryID  sql.NullString
		kind        string
	)
	if err := rows.Scan(&txn.ID, &txn.OwnerID, &amount, &description, &categoryID, &kind, &txn.Date, &txn.CreatedAt); err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan transaction: %w", err)
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("corrupt amount %q on transaction %s: %w", amount, txn.ID, err)
	}
	txn.Amount = parsed
	txn.Description = description.String
	txn.CategoryID = categoryID.String
	txn.Kind = model.TransactionKind(kind)
	return txn, nil
}
