package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Harxhith/BatVault/internal/common"
	"github.com/Harxhith/BatVault/internal/config"
	"github.com/Harxhith/BatVault/internal/llm"
	"github.com/Harxhith/BatVault/internal/service"
	"github.com/Harxhith/BatVault/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// initStorage initializes the storage service with proper path expansion
// and runs pending migrations.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := config.DatabasePath(viper.GetString("database.path"))

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// currentOwner resolves the owner profile all commands operate on. A single
// local database can hold several profiles side by side.
func currentOwner() string {
	if owner := viper.GetString("owner"); owner != "" {
		return owner
	}
	return "local"
}

// newLLMClient builds the LLM client from configuration.
func newLLMClient() (llm.Client, error) {
	client, err := llm.NewClient(llm.Config{
		Provider:    viper.GetString("llm.provider"),
		APIKey:      viper.GetString("llm.api_key"),
		BaseURL:     viper.GetString("llm.base_url"),
		Model:       viper.GetString("llm.model"),
		Temperature: float32(viper.GetFloat64("llm.temperature")),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
	})
	if err != nil {
		return nil, common.NewUserError(
			"AI features need llm.api_key in your config or BATVAULT_LLM_API_KEY", err)
	}
	return client, nil
}

// parseAmount parses a positive decimal money amount from user input.
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("amount must be positive, got %s", raw)
	}
	return amount, nil
}

// parseDate parses a YYYY-MM-DD date from user input.
func parseDate(raw string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", raw, err)
	}
	return date.UTC(), nil
}
