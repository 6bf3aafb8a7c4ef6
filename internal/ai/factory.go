package ai

import (
	"context"
	"strings"
	"time"

	"resume-vault/internal/ai/claude"
	"resume-vault/internal/ai/openai"
	"resume-vault/internal/render"
	"resume-vault/internal/shared/apperr"
	"resume-vault/internal/shared/config"
	"resume-vault/internal/shared/telemetry"
)

const (
	placeholderAnthropicKey = "your-anthropic-api-key-here"
	placeholderOpenAIKey    = "your-openai-api-key-here"
)

// NewProvider builds the provider selected by cfg.Provider. Call it again
// with fresh config to replace a provider; nothing is cached here.
func NewProvider(cfg config.AIConfig) (Provider, error) {
	const op = "ai.NewProvider"
	opts := Options{MaxTokens: cfg.MaxTokens, Merge: render.ParseMergeStrategy(cfg.MergeStrategy)}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "claude", "anthropic":
		if !usableKey(cfg.AnthropicAPIKey, placeholderAnthropicKey) {
			return nil, apperr.New(apperr.KindConfig, op, "ANTHROPIC_API_KEY not configured")
		}
		c, err := claude.NewClient(claude.Config{
			APIKey:  cfg.AnthropicAPIKey,
			Model:   cfg.ClaudeModel,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, apperr.Wrap(apperr.KindConfig, op, err)
		}
		logCreated("claude", c.Model(), cfg.Timeout)
		return NewLLMProvider("claude", c, opts), nil
	case "openai":
		if !usableKey(cfg.OpenAIAPIKey, placeholderOpenAIKey) {
			return nil, apperr.New(apperr.KindConfig, op, "OPENAI_API_KEY not configured")
		}
		c, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.Timeout)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindConfig, op, err)
		}
		logCreated("openai", c.Model(), cfg.Timeout)
		return NewLLMProvider("openai", c, opts), nil
	default:
		return nil, apperr.Newf(apperr.KindConfig, op, "unsupported AI_PROVIDER %q (supported: claude, openai)", cfg.Provider)
	}
}

// Validate runs the provider health check and logs the outcome. It never fails
// startup; the readiness endpoint reports the same check.
func Validate(ctx context.Context, p Provider) bool {
	if p == nil {
		telemetry.Error("ai.validate", map[string]any{"ok": false, "error": "provider not configured"})
		return false
	}
	ok := p.HealthCheck(ctx)
	fields := map[string]any{"provider": p.Name(), "ok": ok}
	if ok {
		telemetry.Info("ai.validate", fields)
	} else {
		telemetry.Warn("ai.validate", fields)
	}
	return ok
}

func usableKey(key, placeholder string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != placeholder
}

func logCreated(name, model string, timeout time.Duration) {
	telemetry.Info("ai.provider_created", map[string]any{
		"provider":   name,
		"model":      model,
		"timeout_ms": timeout.Milliseconds(),
	})
}
