package main

import (
	"fmt"

	"github.com/Harxhith/BatVault/internal/cli"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change profile settings",
	}

	cmd.AddCommand(showSettingsCmd())
	cmd.AddCommand(setSettingsCmd())

	return cmd
}

func showSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			settings, err := store.GetUserSettings(ctx, currentOwner())
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}

			notifications := "disabled"
			if settings.NotificationsEnabled {
				notifications = "enabled"
			}
			fmt.Printf("Owner:           %s\n", currentOwner())
			fmt.Printf("Initial balance: %s\n", settings.InitialBalance.StringFixed(2))
			fmt.Printf("Notifications:   %s\n", notifications)
			return nil
		},
	}
}

func setSettingsCmd() *cobra.Command {
	var (
		initialBalance string
		notifications  bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update settings",
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

			if cmd.Flags().Changed("initial-balance") {
				balance, err := decimal.NewFromString(initialBalance)
				if err != nil {
					return fmt.Errorf("invalid balance %q: %w", initialBalance, err)
				}
				settings.InitialBalance = balance
			}
			if cmd.Flags().Changed("notifications") {
				settings.NotificationsEnabled = notifications
			}

			if err := store.SaveUserSettings(ctx, settings); err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Settings saved"))
			return nil
		},
	}

	cmd.Flags().StringVar(&initialBalance, "initial-balance", "", "starting balance before recorded transactions")
	cmd.Flags().BoolVar(&notifications, "notifications", false, "enable or disable the notify command")

	return cmd
}
