package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Harxhith/BatVault/internal/cli"
	"github.com/Harxhith/BatVault/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Manage savings goals",
		Long:  `Create savings goals, contribute toward them, and track progress.`,
	}

	cmd.AddCommand(listGoalsCmd())
	cmd.AddCommand(addGoalCmd())
	cmd.AddCommand(saveTowardGoalCmd())
	cmd.AddCommand(deleteGoalCmd())

	return cmd
}

func listGoalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List goals with progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			owner := currentOwner()
			goals, err := store.GetGoals(ctx, owner)
			if err != nil {
				return fmt.Errorf("failed to list goals: %w", err)
			}

			if len(goals) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No goals yet. Use 'batvault goals add' to create one."))
				return nil
			}

			progress, err := store.GetGoalProgress(ctx, owner)
			if err != nil {
				return fmt.Errorf("failed to load goal progress: %w", err)
			}

			fmt.Println(cli.FormatTitle("Savings goals"))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("Name"),
				cli.TableHeaderStyle.Render("Saved"),
				cli.TableHeaderStyle.Render("Target"),
				cli.TableHeaderStyle.Render("Deadline"),
				cli.TableHeaderStyle.Render("ID"))

			for _, goal := range goals {
				saved := progress[goal.ID]
				savedText := saved.StringFixed(2)
				if goal.TargetAmount.IsPositive() {
					pct := saved.Div(goal.TargetAmount).Mul(decimal.NewFromInt(100))
					savedText = fmt.Sprintf("%s (%s%%)", savedText, pct.StringFixed(0))
				}
				deadline := cli.SubtleStyle.Render("none")
				if goal.Deadline != nil {
					deadline = goal.Deadline.Format("2006-01-02")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					goal.Name,
					savedText,
					goal.TargetAmount.StringFixed(2),
					deadline,
					cli.SubtleStyle.Render(goal.ID))
			}

			return nil
		},
	}
}

func addGoalCmd() *cobra.Command {
	var deadlineStr string

	cmd := &cobra.Command{
		Use:   "add <name> <target-amount>",
		Short: "Create a savings goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			target, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			goal := &model.Goal{
				OwnerID:      currentOwner(),
				Name:         args[0],
				TargetAmount: target,
			}
			if deadlineStr != "" {
				deadline, err := parseDate(deadlineStr)
				if err != nil {
					return err
				}
				goal.Deadline = &deadline
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			id, err := store.CreateGoal(ctx, goal)
			if err != nil {
				return fmt.Errorf("failed to create goal: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created goal %q targeting %s (%s)",
				args[0], target.StringFixed(2), id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&deadlineStr, "deadline", "", "target date (YYYY-MM-DD)")

	return cmd
}

func saveTowardGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <goal-id> <amount>",
		Short: "Contribute toward a goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if _, err := store.AddGoalSaving(ctx, &model.GoalSaving{
				OwnerID: currentOwner(),
				GoalID:  args[0],
				Amount:  amount,
			}); err != nil {
				return fmt.Errorf("failed to record saving: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Saved %s toward goal", amount.StringFixed(2))))
			return nil
		},
	}
}

func deleteGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a goal and its savings entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteGoal(ctx, currentOwner(), args[0]); err != nil {
				return fmt.Errorf("failed to delete goal: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Goal deleted"))
			return nil
		},
	}
}
