// Package llm provides the language model client used by the finance
// assistant features.
package llm

import "context"

// Message is one turn of a chat exchange.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Client defines the interface for LLM providers.
type Client interface {
	// Complete sends a system prompt, prior conversation history, and the
	// current user prompt, and returns the model's reply text.
	Complete(ctx context.Context, system string, history []Message, prompt string) (string, error)
}

// Config holds LLM provider configuration.
type Config struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}
