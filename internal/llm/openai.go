package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Harxhith/BatVault/internal/common"
	"github.com/Harxhith/BatVault/internal/service"
	openai "github.com/sashabaranov/go-openai"
)

// openAIClient implements the Client interface using the OpenAI chat
// completions API.
type openAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// newOpenAIClient creates a new OpenAI API client.
func newOpenAIClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required", common.ErrMissingConfig)
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.7
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &openAIClient{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

// Complete sends a chat completion request, retrying transient failures.
func (c *openAIClient) Complete(ctx context.Context, system string, history []Message, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	var reply string
	err := common.WithRetry(ctx, func() error {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    messages,
			Temperature: c.temperature,
			MaxTokens:   c.maxTokens,
		})
		if err != nil {
			return classifyError(err)
		}
		if len(resp.Choices) == 0 {
			return &common.RetryableError{
				Err:       errors.New("no completion choices returned"),
				Retryable: false,
			}
		}
		reply = resp.Choices[0].Message.Content
		return nil
	}, service.RetryOptions{MaxAttempts: 3})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	return reply, nil
}

// classifyError maps API errors onto retry semantics: rate limits and server
// errors retry, everything else fails fast.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", common.ErrRateLimit, err)
		case apiErr.HTTPStatusCode >= 500:
			return &common.RetryableError{Err: err, Retryable: true}
		default:
			return &common.RetryableError{Err: err, Retryable: false}
		}
	}
	// Network-level failures are worth retrying.
	return &common.RetryableError{Err: err, Retryable: true}
}
