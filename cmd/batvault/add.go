package main

import (
	"fmt"
	"time"

	"github.com/Harxhith/BatVault/internal/cli"
	"github.com/Harxhith/BatVault/internal/model"
	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	var (
		categoryID string
		dateStr    string
		income     bool
	)

	cmd := &cobra.Command{
		Use:   "add <amount> [description]",
		Short: "Record an expense or income",
		Long: `Record a one-off transaction. Amounts are always positive; use --income
to record money coming in instead of going out.`,
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

			date := time.Now().UTC()
			if dateStr != "" {
				if date, err = parseDate(dateStr); err != nil {
					return err
				}
			}

			kind := model.KindExpense
			if income {
				kind = model.KindIncome
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			owner := currentOwner()
			if categoryID != "" {
				// Fail early on a bad category rather than storing a
				// dangling reference.
				if _, err := store.GetCategoryByID(ctx, owner, categoryID); err != nil {
					return fmt.Errorf("unknown category %q: %w", categoryID, err)
				}
			}

			id, err := store.CreateTransaction(ctx, &model.Transaction{
				OwnerID:     owner,
				Amount:      amount,
				Description: description,
				CategoryID:  categoryID,
				Kind:        kind,
				Date:        date,
			})
			if err != nil {
				return fmt.Errorf("failed to record transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s %s (%s)",
				kind, amount.StringFixed(2), id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryID, "category", "", "category id for the transaction")
	cmd.Flags().StringVar(&dateStr, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&income, "income", false, "record income instead of an expense")

	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteTransaction(ctx, currentOwner(), args[0]); err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Transaction deleted"))
			return nil
		},
	}
}
