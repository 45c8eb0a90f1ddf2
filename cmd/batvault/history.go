package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Harxhith/BatVault/internal/cli"
	"github.com/Harxhith/BatVault/internal/model"
	"github.com/Harxhith/BatVault/internal/service"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var (
		fromStr string
		toStr   string
		kindStr string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded transactions",
		Long:  `Display transactions newest first, optionally filtered by date range or kind.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			filter := service.TransactionFilter{Limit: limit}
			if fromStr != "" {
				from, err := parseDate(fromStr)
				if err != nil {
					return err
				}
				filter.StartDate = &from
			}
			if toStr != "" {
				to, err := parseDate(toStr)
				if err != nil {
					return err
				}
				filter.EndDate = &to
			}
			if kindStr != "" {
				kind := model.TransactionKind(kindStr)
				if !kind.Valid() {
					return fmt.Errorf("invalid kind %q, expected expense or income", kindStr)
				}
				filter.Kind = &kind
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			owner := currentOwner()
			transactions, err := store.GetTransactions(ctx, owner, filter)
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}

			if len(transactions) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No transactions found. Use 'batvault add' to record one."))
				return nil
			}

			categories, err := store.GetCategories(ctx, owner)
			if err != nil {
				return fmt.Errorf("failed to load categories: %w", err)
			}
			names := make(map[string]string, len(categories))
			for _, c := range categories {
				names[c.ID] = c.Name
			}

			fmt.Println(cli.FormatTitle("Transaction history"))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("Date"),
				cli.TableHeaderStyle.Render("Amount"),
				cli.TableHeaderStyle.Render("Category"),
				cli.TableHeaderStyle.Render("Description"),
				cli.TableHeaderStyle.Render("ID"))

			for _, txn := range transactions {
				category := names[txn.CategoryID]
				if txn.CategoryID == "" {
					category = cli.SubtleStyle.Render("uncategorized")
				} else if category == "" {
					category = cli.SubtleStyle.Render("unknown")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					txn.Date.Format("2006-01-02"),
					cli.FormatAmount(string(txn.Kind), txn.Amount.StringFixed(2)),
					category,
					txn.Description,
					cli.SubtleStyle.Render(txn.ID))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "earliest date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "latest date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&kindStr, "kind", "", "filter by kind (expense or income)")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of transactions to show (0 for all)")

	return cmd
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the current balance",
		Long:  `Sum the initial balance and all recorded transactions.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			owner := currentOwner()
			settings, err := store.GetUserSettings(ctx, owner)
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}

			transactions, err := store.GetTransactions(ctx, owner, service.TransactionFilter{})
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}

			balance := settings.InitialBalance
			for _, txn := range transactions {
				if txn.Kind == model.KindIncome {
					balance = balance.Add(txn.Amount)
				} else {
					balance = balance.Sub(txn.Amount)
				}
			}

			fmt.Println(cli.RenderBox("Balance", cli.BoldStyle.Render(balance.StringFixed(2))))
			return nil
		},
	}
}
