package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/Harxhith/BatVault/internal/cli"
	"github.com/Harxhith/BatVault/internal/engine"
	"github.com/Harxhith/BatVault/internal/model"
	"github.com/Harxhith/BatVault/internal/schedule"
	"github.com/Harxhith/BatVault/internal/service"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// processGate serializes 'recurring process' runs per owner within this
// process. Duplicate postings from overlapping runs are worse than making
// a caller wait.
var processGate = engine.NewOwnerGate()

func recurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Manage recurring transactions",
		Long: `Define transactions that repeat on a weekly, monthly, quarterly, or yearly
schedule, and process the ones that have come due.`,
	}

	cmd.AddCommand(addRecurringCmd())
	cmd.AddCommand(listRecurringCmd())
	cmd.AddCommand(setRecurringActiveCmd("pause", false))
	cmd.AddCommand(setRecurringActiveCmd("resume", true))
	cmd.AddCommand(deleteRecurringCmd())
	cmd.AddCommand(processRecurringCmd())

	return cmd
}

func addRecurringCmd() *cobra.Command {
	var (
		frequency  string
		categoryID string
		startStr   string
		endStr     string
		dayOfWeek  int
		dayOfMonth int
		income     bool
	)

	cmd := &cobra.Command{
		Use:   "add <amount> [description]",
		Short: "Define a recurring transaction",
		Long: `Define a transaction that posts automatically when processed. Weekly
schedules anchor on --day-of-week (0=Sunday..6=Saturday); monthly, quarterly,
and yearly schedules anchor on --day-of-month, clamped in shorter months.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			description := ""
			if len(args) > 1 {
				description = args[1]
			}

			start := schedule.DateOf(time.Now().UTC())
			if startStr != "" {
				if start, err = parseDate(startStr); err != nil {
					return err
				}
			}

			kind := model.KindExpense
			if income {
				kind = model.KindIncome
			}

			def := &model.RecurringDefinition{
				OwnerID:     currentOwner(),
				Amount:      amount,
				Description: description,
				CategoryID:  categoryID,
				Kind:        kind,
				Frequency:   model.Frequency(frequency),
				StartDate:   start,
				Active:      true,
			}
			if cmd.Flags().Changed("day-of-week") {
				def.DayOfWeek = &dayOfWeek
			}
			if cmd.Flags().Changed("day-of-month") {
				def.DayOfMonth = &dayOfMonth
			}
			if endStr != "" {
				end, err := parseDate(endStr)
				if err != nil {
					return err
				}
				def.EndDate = &end
			}

			// The first due date also validates the schedule fields.
			nextDue, err := schedule.NextDue(def, start)
			if err != nil {
				return err
			}
			def.NextDue = nextDue

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			id, err := store.CreateRecurringDefinition(ctx, def)
			if err != nil {
				return fmt.Errorf("failed to create recurring definition: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Scheduled %s %s %s, first due %s (%s)",
				frequency, kind, amount.StringFixed(2), nextDue.Format("2006-01-02"), id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&frequency, "frequency", "monthly", "weekly, monthly, quarterly, or yearly")
	cmd.Flags().IntVar(&dayOfWeek, "day-of-week", 0, "anchor weekday for weekly schedules (0=Sunday..6=Saturday)")
	cmd.Flags().IntVar(&dayOfMonth, "day-of-month", 1, "anchor day for monthly, quarterly, and yearly schedules (1-31)")
	cmd.Flags().StringVar(&startStr, "start", "", "first eligible date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&endStr, "end", "", "last eligible date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&categoryID, "category", "", "category id for posted transactions")
	cmd.Flags().BoolVar(&income, "income", false, "post income instead of expenses")

	return cmd
}

func listRecurringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurring definitions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			defs, err := store.GetRecurringDefinitions(ctx, currentOwner())
			if err != nil {
				return fmt.Errorf("failed to list recurring definitions: %w", err)
			}

			if len(defs) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No recurring transactions. Use 'batvault recurring add' to create one."))
				return nil
			}

			fmt.Println(cli.FormatTitle("Recurring transactions"))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("Next due"),
				cli.TableHeaderStyle.Render("Amount"),
				cli.TableHeaderStyle.Render("Frequency"),
				cli.TableHeaderStyle.Render("Description"),
				cli.TableHeaderStyle.Render("Status"),
				cli.TableHeaderStyle.Render("ID"))

			for _, def := range defs {
				status := cli.SuccessStyle.Render("active")
				if !def.Active {
					status = cli.SubtleStyle.Render("paused")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					def.NextDue.Format("2006-01-02"),
					cli.FormatAmount(string(def.Kind), def.Amount.StringFixed(2)),
					def.Frequency,
					def.Description,
					status,
					cli.SubtleStyle.Render(def.ID))
			}

			return nil
		},
	}
}

func setRecurringActiveCmd(verb string, active bool) *cobra.Command {
	short := "Pause a recurring definition"
	if active {
		short = "Resume a paused recurring definition"
	}
	return &cobra.Command{
		Use:   verb + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SetRecurringActive(ctx, currentOwner(), args[0], active); err != nil {
				return fmt.Errorf("failed to %s definition: %w", verb, err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Definition %sd", verb)))
			return nil
		},
	}
}

func deleteRecurringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recurring definition",
		Long:  `Delete a definition. Transactions it already posted are kept.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteRecurringDefinition(ctx, currentOwner(), args[0]); err != nil {
				return fmt.Errorf("failed to delete definition: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Definition deleted"))
			return nil
		},
	}
}

func processRecurringCmd() *cobra.Command {
	var asOfStr string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Post all due recurring transactions",
		Long: `Run one processing pass: every active definition whose due date has
arrived posts a transaction and advances one period. Run it again to work
through further backlog.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			now := time.Now().UTC()
			if asOfStr != "" {
				asOf, err := parseDate(asOfStr)
				if err != nil {
					return err
				}
				now = asOf
			}

			owner := currentOwner()
			if !processGate.TryAcquire(owner) {
				return fmt.Errorf("a processing pass for %s is already running", owner)
			}
			defer processGate.Release(owner)

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			bar := progressbar.NewOptions(-1,
				progressbar.OptionSetDescription("Processing recurring transactions"),
				progressbar.OptionSpinnerType(14),
				progressbar.OptionSetWriter(os.Stderr))

			processor := engine.NewProcessor(store)
			processor.OnOutcome = func(_ service.DefinitionOutcome) {
				_ = bar.Add(1)
			}

			result, err := processor.ProcessDue(ctx, owner, now)
			_ = bar.Finish()
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return fmt.Errorf("processing failed: %w", err)
			}

			if len(result.Results) == 0 {
				fmt.Println(cli.SubtleStyle.Render("Nothing due."))
				return nil
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Posted %d of %d due transactions",
				result.Processed, len(result.Results))))
			for _, outcome := range result.Results {
				if outcome.Status != service.StatusError {
					continue
				}
				fmt.Println(cli.FormatError(fmt.Sprintf("%s: %v", outcome.DefinitionID, outcome.Err)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&asOfStr, "as-of", "", "process as of this date instead of today (YYYY-MM-DD)")

	return cmd
}
