package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Harxhith/BatVault/internal/common"
	"github.com/Harxhith/BatVault/internal/model"
	"github.com/Harxhith/BatVault/internal/service"
	"github.com/Harxhith/BatVault/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOwner = "user-1"

func newTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func intPtr(v int) *int { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedMonthly(t *testing.T, store service.Storage, nextDue time.Time, mutate func(*model.RecurringDefinition)) string {
	t.Helper()
	def := &model.RecurringDefinition{
		OwnerID:     testOwner,
		Amount:      decimal.RequireFromString("15.99"),
		Description: "Gym membership",
		Kind:        model.KindExpense,
		Frequency:   model.FrequencyMonthly,
		DayOfMonth:  intPtr(nextDue.Day()),
		StartDate:   nextDue.AddDate(0, -1, 0),
		NextDue:     nextDue,
		Active:      true,
	}
	if mutate != nil {
		mutate(def)
	}
	id, err := store.CreateRecurringDefinition(context.Background(), def)
	require.NoError(t, err)
	return id
}

func TestProcessDuePostsAndAdvances(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := date(2026, 3, 15)
	id := seedMonthly(t, store, now, nil)

	result, err := NewProcessor(store).ProcessDue(ctx, testOwner, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	require.Len(t, result.Results, 1)
	assert.Equal(t, id, result.Results[0].DefinitionID)
	assert.Equal(t, service.StatusSuccess, result.Results[0].Status)

	txns, err := store.GetTransactions(ctx, testOwner, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "Gym membership", txns[0].Description)
	assert.True(t, txns[0].Date.Equal(now), "occurrence posts at processing date")

	defs, err := store.GetRecurringDefinitions(ctx, testOwner)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.True(t, defs[0].NextDue.Equal(date(2026, 4, 15)))
	require.NotNil(t, defs[0].LastRun)
	assert.True(t, defs[0].Active)
}

func TestProcessDueSkipsFutureDefinitions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := date(2026, 3, 10)
	seedMonthly(t, store, date(2026, 3, 15), nil)

	result, err := NewProcessor(store).ProcessDue(ctx, testOwner, now)
	require.NoError(t, err)
	assert.Zero(t, result.Processed)
	assert.Empty(t, result.Results)

	txns, err := store.GetTransactions(ctx, testOwner, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestProcessDueSingleOccurrenceWhenFarPastDue(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Three missed months still produce exactly one posting per pass.
	seedMonthly(t, store, date(2026, 1, 15), nil)
	now := date(2026, 4, 20)

	processor := NewProcessor(store)
	result, err := processor.ProcessDue(ctx, testOwner, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	txns, err := store.GetTransactions(ctx, testOwner, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.True(t, txns[0].Date.Equal(now), "never back-dated")

	defs, err := store.GetRecurringDefinitions(ctx, testOwner)
	require.NoError(t, err)
	// Advanced one period from the stored due date, not caught up to now.
	assert.True(t, defs[0].NextDue.Equal(date(2026, 2, 15)))

	// A second pass works through the backlog one period at a time.
	result, err = processor.ProcessDue(ctx, testOwner, now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	defs, err = store.GetRecurringDefinitions(ctx, testOwner)
	require.NoError(t, err)
	assert.True(t, defs[0].NextDue.Equal(date(2026, 3, 15)))
}

func TestProcessDueIdempotentOnceCaughtUp(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := date(2026, 3, 15)
	seedMonthly(t, store, now, nil)

	processor := NewProcessor(store)
	result, err := processor.ProcessDue(ctx, testOwner, now)
	require.NoError(t, err)
	require.Equal(t, 1, result.Processed)

	// Same day, second run: the definition has advanced past today.
	result, err = processor.ProcessDue(ctx, testOwner, now)
	require.NoError(t, err)
	assert.Zero(t, result.Processed)
	assert.Empty(t, result.Results)

	txns, err := store.GetTransactions(ctx, testOwner, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

func TestProcessDueEndDateBoundary(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := date(2026, 3, 15)

	t.Run("stays active when new due date equals end date", func(t *testing.T) {
		end := date(2026, 4, 15)
		id := seedMonthly(t, store, now, func(def *model.RecurringDefinition) {
			def.EndDate = &end
		})

		_, err := NewProcessor(store).ProcessDue(ctx, testOwner, now)
		require.NoError(t, err)

		defs, err := store.GetRecurringDefinitions(ctx, testOwner)
		require.NoError(t, err)
		for _, def := range defs {
			if def.ID == id {
				assert.True(t, def.Active, "equal end date keeps the final occurrence schedulable")
			}
		}
		require.NoError(t, store.DeleteRecurringDefinition(ctx, testOwner, id))
	})

	t.Run("deactivates when new due date passes end date", func(t *testing.T) {
		end := date(2026, 3, 20)
		id := seedMonthly(t, store, now, func(def *model.RecurringDefinition) {
			def.EndDate = &end
		})

		result, err := NewProcessor(store).ProcessDue(ctx, testOwner, now)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Processed, "the due occurrence itself still posts")

		defs, err := store.GetRecurringDefinitions(ctx, testOwner)
		require.NoError(t, err)
		require.Len(t, defs, 1)
		assert.Equal(t, id, defs[0].ID)
		assert.False(t, defs[0].Active)
	})
}

func TestProcessDueInvalidScheduleOutcome(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := date(2026, 3, 15)

	goodID := seedMonthly(t, store, now, nil)
	// Monthly definition missing its anchor: the storage layer accepts it
	// (record-level fields are fine) but the schedule cannot advance.
	badID := seedMonthly(t, store, now, func(def *model.RecurringDefinition) {
		def.DayOfMonth = nil
	})

	result, err := NewProcessor(store).ProcessDue(ctx, testOwner, now)
	require.NoError(t, err, "individual failures never fail the batch")
	assert.Equal(t, 1, result.Processed, "only successes are counted")
	require.Len(t, result.Results, 2)

	byID := make(map[string]service.DefinitionOutcome, 2)
	for _, outcome := range result.Results {
		byID[outcome.DefinitionID] = outcome
	}
	assert.Equal(t, service.StatusSuccess, byID[goodID].Status)
	assert.Equal(t, service.StatusError, byID[badID].Status)
	require.Error(t, byID[badID].Err)

	// The invalid definition posted nothing.
	txns, err := store.GetTransactions(ctx, testOwner, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, txns, 1)
}

// failingStore wraps real storage and injects failures.
type failingStore struct {
	service.Storage
	fetchErr  error
	updateErr error
}

func (f *failingStore) GetActiveRecurringDefinitions(ctx context.Context, ownerID string) ([]model.RecurringDefinition, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.Storage.GetActiveRecurringDefinitions(ctx, ownerID)
}

func (f *failingStore) UpdateRecurringSchedule(ctx context.Context, id string, nextDue, lastRun time.Time, active bool) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	return f.Storage.UpdateRecurringSchedule(ctx, id, nextDue, lastRun, active)
}

func TestProcessDueFetchFailureFailsBatch(t *testing.T) {
	store := &failingStore{
		Storage:  newTestStore(t),
		fetchErr: common.ErrStoreUnavailable,
	}

	_, err := NewProcessor(store).ProcessDue(context.Background(), testOwner, date(2026, 3, 15))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
}

func TestProcessDuePartialPersistence(t *testing.T) {
	inner := newTestStore(t)
	ctx := context.Background()
	now := date(2026, 3, 15)
	seedMonthly(t, inner, now, nil)

	store := &failingStore{
		Storage:   inner,
		updateErr: errors.New("disk full"),
	}

	result, err := NewProcessor(store).ProcessDue(ctx, testOwner, now)
	require.NoError(t, err)
	assert.Zero(t, result.Processed)
	require.Len(t, result.Results, 1)
	assert.Equal(t, service.StatusError, result.Results[0].Status)
	assert.True(t, IsPartialPersistence(result.Results[0].Err))

	// The transaction was posted even though the definition never advanced.
	txns, err := inner.GetTransactions(ctx, testOwner, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, txns, 1)

	defs, err := inner.GetRecurringDefinitions(ctx, testOwner)
	require.NoError(t, err)
	assert.True(t, defs[0].NextDue.Equal(now), "schedule unchanged after persistence failure")
}

func TestOwnerGate(t *testing.T) {
	gate := NewOwnerGate()

	require.True(t, gate.TryAcquire("user-1"))
	assert.False(t, gate.TryAcquire("user-1"), "second pass for the same owner is refused")
	assert.True(t, gate.TryAcquire("user-2"), "other owners are independent")

	gate.Release("user-1")
	assert.True(t, gate.TryAcquire("user-1"))

	// Releasing an unclaimed owner must not panic.
	gate.Release("never-acquired")
}
