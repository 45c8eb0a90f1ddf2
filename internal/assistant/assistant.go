// Package assistant builds financial context for the AI helper features:
// the conversational assistant and the daily smart notification.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Harxhith/BatVault/internal/llm"
	"github.com/Harxhith/BatVault/internal/model"
	"github.com/Harxhith/BatVault/internal/service"
	"github.com/shopspring/decimal"
)

// recentTransactionLimit caps how much history goes into the model context.
const recentTransactionLimit = 50

const chatSystemPrompt = `You are Alfred, the trusted butler and financial advisor inside BatVault, a personal finance tracker.
Address the user respectfully and occasionally with dry wit. You have access to their
financial data below. Give specific, actionable advice grounded in their actual numbers.
Keep answers concise. Never invent transactions or balances that are not in the data.`

// Assistant answers questions about an owner's finances.
type Assistant struct {
	store  service.Storage
	client llm.Client
}

// New creates an assistant backed by the given storage and LLM client.
func New(store service.Storage, client llm.Client) *Assistant {
	return &Assistant{store: store, client: client}
}

// Chat sends one user message with conversation history and returns the
// assistant's reply. The owner's recent transactions, goals, and balance are
// folded into the system context on every call so the model always sees
// current data.
func (a *Assistant) Chat(ctx context.Context, ownerID string, history []llm.Message, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("message cannot be empty")
	}

	snapshot, err := a.buildSnapshot(ctx, ownerID)
	if err != nil {
		return "", fmt.Errorf("failed to build financial context: %w", err)
	}

	system := chatSystemPrompt + "\n\n" + snapshot.render()
	reply, err := a.client.Complete(ctx, system, history, message)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// snapshot is the owner's financial state formatted for a model prompt.
type snapshot struct {
	categories   map[string]string
	progress     map[string]decimal.Decimal
	transactions []model.Transaction
	goals        []model.Goal
	balance      decimal.Decimal
}

func (a *Assistant) buildSnapshot(ctx context.Context, ownerID string) (*snapshot, error) {
	settings, err := a.store.GetUserSettings(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	transactions, err := a.store.GetTransactions(ctx, ownerID, service.TransactionFilter{
		Limit: recentTransactionLimit,
	})
	if err != nil {
		return nil, err
	}

	categories, err := a.store.GetCategories(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	goals, err := a.store.GetGoals(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	progress, err := a.store.GetGoalProgress(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	balance := settings.InitialBalance
	for _, txn := range transactions {
		if txn.Kind == model.KindIncome {
			balance = balance.Add(txn.Amount)
		} else {
			balance = balance.Sub(txn.Amount)
		}
	}

	return &snapshot{
		transactions: transactions,
		categories:   names,
		goals:        goals,
		progress:     progress,
		balance:      balance,
	}, nil
}

// render formats the snapshot as plain text for the system prompt.
func (s *snapshot) render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Current balance: %s\n", s.balance.StringFixed(2))

	b.WriteString("\nRecent transactions (newest first):\n")
	if len(s.transactions) == 0 {
		b.WriteString("  none\n")
	}
	for _, txn := range s.transactions {
		fmt.Fprintf(&b, "  %s | %s | %s | %s | %s\n",
			txn.Date.Format("2006-01-02"),
			txn.Kind,
			txn.Amount.StringFixed(2),
			s.categoryName(txn.CategoryID),
			txn.Description)
	}

	b.WriteString("\nSavings goals:\n")
	if len(s.goals) == 0 {
		b.WriteString("  none\n")
	}
	for _, goal := range s.goals {
		saved := s.progress[goal.ID]
		fmt.Fprintf(&b, "  %s: %s saved of %s target",
			goal.Name, saved.StringFixed(2), goal.TargetAmount.StringFixed(2))
		if goal.Deadline != nil {
			fmt.Fprintf(&b, " (deadline %s)", goal.Deadline.Format("2006-01-02"))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (s *snapshot) categoryName(id string) string {
	if id == "" {
		return "Uncategorized"
	}
	if name, ok := s.categories[id]; ok {
		return name
	}
	return "Unknown"
}

// windowTotals sums expenses between two dates (inclusive start, exclusive
// end) and tallies per-category expense totals.
func windowTotals(transactions []model.Transaction, start, end time.Time) (decimal.Decimal, map[string]decimal.Decimal) {
	total := decimal.Zero
	perCategory := make(map[string]decimal.Decimal)
	for _, txn := range transactions {
		if txn.Kind != model.KindExpense {
			continue
		}
		if txn.Date.Before(start) || !txn.Date.Before(end) {
			continue
		}
		total = total.Add(txn.Amount)
		perCategory[txn.CategoryID] = perCategory[txn.CategoryID].Add(txn.Amount)
	}
	return total, perCategory
}
