package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Harxhith/BatVault/internal/assistant"
	"github.com/Harxhith/BatVault/internal/cli"
	"github.com/Harxhith/BatVault/internal/llm"
	"github.com/spf13/cobra"
)

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message]",
		Short: "Ask the AI butler about your finances",
		Long: `Ask a one-off question, or start an interactive session by passing no
message. The assistant sees your recent transactions, goals, and balance.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			client, err := newLLMClient()
			if err != nil {
				return err
			}
			helper := assistant.New(store, client)
			owner := currentOwner()

			if len(args) == 1 {
				reply, err := helper.Chat(ctx, owner, nil, args[0])
				if err != nil {
					return err
				}
				fmt.Println(reply)
				return nil
			}

			fmt.Println(cli.FormatTitle("BatVault assistant"))
			fmt.Println(cli.SubtleStyle.Render("Type your question, or 'exit' to leave."))

			var history []llm.Message
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print(cli.BoldStyle.Render("you> "))
				if !scanner.Scan() {
					break
				}
				message := strings.TrimSpace(scanner.Text())
				if message == "" {
					continue
				}
				if message == "exit" || message == "quit" {
					break
				}

				reply, err := helper.Chat(ctx, owner, history, message)
				if err != nil {
					fmt.Println(cli.FormatError(err.Error()))
					continue
				}
				fmt.Println(reply)

				history = append(history,
					llm.Message{Role: llm.RoleUser, Content: message},
					llm.Message{Role: llm.RoleAssistant, Content: reply})
			}
			return scanner.Err()
		},
	}
}

func notifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notify",
		Short: "Generate today's spending notification",
		Long:  `Produce a one-line AI summary of today's spending against your recent average.`,
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
			if !settings.NotificationsEnabled {
				fmt.Println(cli.SubtleStyle.Render("Notifications are disabled for this profile."))
				return nil
			}

			client, err := newLLMClient()
			if err != nil {
				return err
			}

			text, err := assistant.New(store, client).SmartNotification(ctx, owner, time.Now().UTC())
			if err != nil {
				return err
			}

			fmt.Println(cli.RenderBox("Today", text))
			return nil
		},
	}
}
