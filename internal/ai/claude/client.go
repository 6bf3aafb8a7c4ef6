package claude

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"resume-vault/internal/shared/telemetry"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-3-5-sonnet-20241022"

// Config parameterizes the Anthropic client.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	// BaseURL overrides the API endpoint; tests point it at httptest servers.
	BaseURL string
}

// Client sends prompts to the Anthropic Messages API.
type Client struct {
	client anthropic.Client
	apiKey string
	model  string
}

// NewClient builds a client. Retries are disabled: callers decide.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{
		client: anthropic.NewClient(opts...),
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Complete sends one user text block and returns the concatenated text reply.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", c.mapError(ctx, err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", errors.New("claude response empty content")
	}
	telemetry.Info("llm.usage", map[string]any{
		"provider":      "claude",
		"model":         c.model,
		"input_tokens":  msg.Usage.InputTokens,
		"output_tokens": msg.Usage.OutputTokens,
		"stop_reason":   string(msg.StopReason),
	})
	return text, nil
}

func (c *Client) mapError(ctx context.Context, err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429:
			return errors.New("claude rate limit exceeded")
		case 401:
			return errors.New("claude authentication failed")
		default:
			return fmt.Errorf("claude api error: status %d", apiErr.StatusCode)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return fmt.Errorf("claude request timeout: %w", err)
	}
	return errors.New("claude request failed: " + c.redact(err.Error()))
}

func (c *Client) redact(s string) string {
	if c.apiKey == "" {
		return s
	}
	return strings.ReplaceAll(s, c.apiKey, "[REDACTED]")
}
