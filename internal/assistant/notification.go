package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Harxhith/BatVault/internal/model"
	"github.com/Harxhith/BatVault/internal/service"
	"github.com/shopspring/decimal"
)

// averageWindowDays is the lookback used for the daily spending baseline.
const averageWindowDays = 30

// maxNotificationLength is the character budget for one notification line.
const maxNotificationLength = 120

const notificationSystemPrompt = `You are Alfred, the witty butler of BatVault, a personal finance tracker.
Write a single short notification line about the user's spending today. Be specific to
the numbers given, lightly humorous, never preachy. Maximum 120 characters. Respond
with the notification text only: no quotes, no markdown, no emoji spam.`

// SmartNotification generates a one-line spending summary for the owner's
// day so far, contrasting it with their recent daily average.
func (a *Assistant) SmartNotification(ctx context.Context, ownerID string, now time.Time) (string, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	windowStart := dayStart.AddDate(0, 0, -averageWindowDays)

	transactions, err := a.store.GetTransactions(ctx, ownerID, service.TransactionFilter{
		StartDate: &windowStart,
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch transactions: %w", err)
	}

	categories, err := a.store.GetCategories(ctx, ownerID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch categories: %w", err)
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	goals, err := a.store.GetGoals(ctx, ownerID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch goals: %w", err)
	}
	progress, err := a.store.GetGoalProgress(ctx, ownerID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch goal progress: %w", err)
	}

	todayTotal, todayByCategory := windowTotals(transactions, dayStart, dayStart.AddDate(0, 0, 1))
	windowTotal, _ := windowTotals(transactions, windowStart, dayStart)
	averageDaily := windowTotal.Div(decimal.NewFromInt(averageWindowDays))

	prompt := buildNotificationPrompt(now, todayTotal, averageDaily, topCategories(todayByCategory, names, 3), goals, progress)

	reply, err := a.client.Complete(ctx, notificationSystemPrompt, nil, prompt)
	if err != nil {
		return "", err
	}

	return tidyNotification(reply), nil
}

func buildNotificationPrompt(now time.Time, todayTotal, averageDaily decimal.Decimal, top []string, goals []model.Goal, progress map[string]decimal.Decimal) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Time of day: %s\n", timeOfDay(now))
	fmt.Fprintf(&b, "Spent today: %s\n", todayTotal.StringFixed(2))
	fmt.Fprintf(&b, "Average daily spend over the last %d days: %s\n", averageWindowDays, averageDaily.StringFixed(2))

	if len(top) > 0 {
		fmt.Fprintf(&b, "Top categories today: %s\n", strings.Join(top, ", "))
	}
	for _, goal := range goals {
		saved := progress[goal.ID]
		if goal.TargetAmount.IsPositive() {
			pct := saved.Div(goal.TargetAmount).Mul(decimal.NewFromInt(100))
			fmt.Fprintf(&b, "Goal %q: %s%% funded\n", goal.Name, pct.StringFixed(0))
		}
	}

	return b.String()
}

// topCategories returns up to n category names ordered by descending spend.
func topCategories(byCategory map[string]decimal.Decimal, names map[string]string, n int) []string {
	type entry struct {
		name  string
		total decimal.Decimal
	}
	entries := make([]entry, 0, len(byCategory))
	for id, total := range byCategory {
		name := names[id]
		if name == "" {
			name = "Uncategorized"
		}
		entries = append(entries, entry{name: name, total: total})
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].total.Equal(entries[j].total) {
			return entries[i].total.GreaterThan(entries[j].total)
		}
		return entries[i].name < entries[j].name
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	top := make([]string, len(entries))
	for i, e := range entries {
		top[i] = e.name
	}
	return top
}

func timeOfDay(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "morning"
	case h < 18:
		return "afternoon"
	default:
		return "evening"
	}
}

// tidyNotification strips wrapping quotes the model sometimes adds and
// enforces the length budget.
func tidyNotification(reply string) string {
	text := strings.TrimSpace(reply)
	text = strings.Trim(text, `"'`)
	text = strings.TrimSpace(text)
	if runes := []rune(text); len(runes) > maxNotificationLength {
		text = strings.TrimSpace(string(runes[:maxNotificationLength-1])) + "…"
	}
	return text
}
