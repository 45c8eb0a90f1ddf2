package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Harxhith/BatVault/internal/common"
	"github.com/Harxhith/BatVault/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalLifecycle(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	deadline := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	id, err := store.CreateGoal(ctx, &model.Goal{
		OwnerID:      "user-1",
		Name:         "Emergency fund",
		TargetAmount: decimal.RequireFromString("5000"),
		Deadline:     &deadline,
	})
	require.NoError(t, err)

	goals, err := store.GetGoals(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "Emergency fund", goals[0].Name)
	assert.True(t, goals[0].TargetAmount.Equal(decimal.RequireFromString("5000")))
	require.NotNil(t, goals[0].Deadline)
	assert.True(t, goals[0].Deadline.Equal(deadline))

	require.NoError(t, store.DeleteGoal(ctx, "user-1", id))

	goals, err = store.GetGoals(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, goals)

	err = store.DeleteGoal(ctx, "user-1", id)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGoalProgress(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	goalA, err := store.CreateGoal(ctx, &model.Goal{
		OwnerID: "user-1", Name: "Vacation", TargetAmount: decimal.NewFromInt(1200),
	})
	require.NoError(t, err)
	goalB, err := store.CreateGoal(ctx, &model.Goal{
		OwnerID: "user-1", Name: "New laptop", TargetAmount: decimal.NewFromInt(2000),
	})
	require.NoError(t, err)

	savings := []struct {
		goal   string
		amount string
	}{
		{goalA, "100.50"},
		{goalA, "250"},
		{goalB, "75.25"},
	}
	for _, s := range savings {
		_, err := store.AddGoalSaving(ctx, &model.GoalSaving{
			OwnerID: "user-1",
			GoalID:  s.goal,
			Amount:  decimal.RequireFromString(s.amount),
		})
		require.NoError(t, err)
	}

	progress, err := store.GetGoalProgress(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, progress, 2)
	assert.True(t, progress[goalA].Equal(decimal.RequireFromString("350.50")),
		"goal A total, got %s", progress[goalA])
	assert.True(t, progress[goalB].Equal(decimal.RequireFromString("75.25")))

	// Deleting a goal removes its savings from the progress map.
	require.NoError(t, store.DeleteGoal(ctx, "user-1", goalA))
	progress, err = store.GetGoalProgress(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.True(t, progress[goalB].Equal(decimal.RequireFromString("75.25")))
}

func TestCategoryLifecycle(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	id, err := store.CreateCategory(ctx, &model.Category{
		OwnerID: "user-1",
		Name:    "Food",
		Color:   "#22c55e",
	})
	require.NoError(t, err)

	_, err = store.CreateCategory(ctx, &model.Category{OwnerID: "user-1", Name: "Bills"})
	require.NoError(t, err)

	cats, err := store.GetCategories(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, cats, 2)
	// Sorted by name.
	assert.Equal(t, "Bills", cats[0].Name)
	assert.Equal(t, "Food", cats[1].Name)

	got, err := store.GetCategoryByID(ctx, "user-1", id)
	require.NoError(t, err)
	assert.Equal(t, "Food", got.Name)
	assert.Equal(t, "#22c55e", got.Color)

	_, err = store.GetCategoryByID(ctx, "user-2", id)
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, store.DeleteCategory(ctx, "user-1", id))
	_, err = store.GetCategoryByID(ctx, "user-1", id)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUserSettings(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	// Unsaved owners get defaults.
	settings, err := store.GetUserSettings(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, settings.InitialBalance.IsZero())
	assert.False(t, settings.NotificationsEnabled)

	require.NoError(t, store.SaveUserSettings(ctx, &model.UserSettings{
		OwnerID:              "user-1",
		InitialBalance:       decimal.RequireFromString("1500.75"),
		NotificationsEnabled: true,
	}))

	settings, err = store.GetUserSettings(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, settings.InitialBalance.Equal(decimal.RequireFromString("1500.75")))
	assert.True(t, settings.NotificationsEnabled)

	// Saving again updates in place.
	require.NoError(t, store.SaveUserSettings(ctx, &model.UserSettings{
		OwnerID:        "user-1",
		InitialBalance: decimal.NewFromInt(2000),
	}))

	settings, err = store.GetUserSettings(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, settings.InitialBalance.Equal(decimal.NewFromInt(2000)))
	assert.False(t, settings.NotificationsEnabled)
}
