// Package engine orchestrates the recurring transaction processing run:
// finding due definitions, posting their transactions, and advancing their
// schedules.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Harxhith/BatVault/internal/common"
	"github.com/Harxhith/BatVault/internal/model"
	"github.com/Harxhith/BatVault/internal/schedule"
	"github.com/Harxhith/BatVault/internal/service"
)

// Processor materializes due recurring definitions into transactions.
type Processor struct {
	store service.Storage

	// OnOutcome, when set, is invoked after each due definition is handled.
	// Callers use it for progress reporting.
	OnOutcome func(service.DefinitionOutcome)
}

// NewProcessor creates a processor backed by the given storage.
func NewProcessor(store service.Storage) *Processor {
	return &Processor{store: store}
}

// ProcessDue runs one processing pass for an owner as of now. Each due
// definition posts exactly one transaction and advances one period,
// regardless of how many periods were missed; the next pass picks up any
// remaining backlog.
//
// The pass only fails wholesale when the due set cannot be fetched. Failures
// on individual definitions are recorded in the result and never stop the
// rest of the batch.
func (p *Processor) ProcessDue(ctx context.Context, ownerID string, now time.Time) (service.ProcessResult, error) {
	defs, err := p.store.GetActiveRecurringDefinitions(ctx, ownerID)
	if err != nil {
		return service.ProcessResult{}, fmt.Errorf("failed to fetch active definitions: %w", err)
	}

	today := schedule.DateOf(now)
	result := service.ProcessResult{}

	for i := range defs {
		def := &defs[i]
		if def.NextDue.After(today) {
			continue
		}

		outcome := service.DefinitionOutcome{
			DefinitionID: def.ID,
			Status:       service.StatusSuccess,
		}
		if err := p.processDefinition(ctx, def, now); err != nil {
			slog.Error("failed to process recurring definition",
				"definition_id", def.ID,
				"owner_id", ownerID,
				"error", err)
			outcome.Status = service.StatusError
			outcome.Err = err
		} else {
			result.Processed++
		}
		result.Results = append(result.Results, outcome)
		if p.OnOutcome != nil {
			p.OnOutcome(outcome)
		}
	}

	slog.Info("recurring processing pass complete",
		"owner_id", ownerID,
		"due", len(result.Results),
		"processed", result.Processed)
	return result, nil
}

// processDefinition handles a single due definition. The new due date is
// computed before anything is written: a definition whose schedule cannot
// advance posts nothing, so it cannot get stuck repeatedly posting.
func (p *Processor) processDefinition(ctx context.Context, def *model.RecurringDefinition, now time.Time) error {
	newNextDue, err := schedule.NextAfter(def, def.NextDue)
	if err != nil {
		return fmt.Errorf("cannot advance schedule: %w", err)
	}

	txn := def.Materialize(now)
	if _, err := p.store.CreateTransaction(ctx, &txn); err != nil {
		return fmt.Errorf("failed to post transaction: %w", err)
	}

	// A definition stays active when the new due date lands exactly on its
	// end date; only strictly overshooting deactivates it.
	active := def.EndDate == nil || !newNextDue.After(schedule.DateOf(*def.EndDate))

	if err := p.store.UpdateRecurringSchedule(ctx, def.ID, newNextDue, now, active); err != nil {
		// The transaction is already posted. Surface the inconsistency
		// rather than deleting it: a duplicate on the next pass is
		// recoverable, a silently lost transaction is not.
		return fmt.Errorf("%w: definition %s: %v", common.ErrPartialPersistence, def.ID, err)
	}

	slog.Debug("processed recurring definition",
		"definition_id", def.ID,
		"next_due", newNextDue,
		"active", active)
	return nil
}

// IsPartialPersistence reports whether an outcome's error left a posted
// transaction with a stale definition behind.
func IsPartialPersistence(err error) bool {
	return errors.Is(err, common.ErrPartialPersistence)
}
