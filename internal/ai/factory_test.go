package ai

import (
	"context"
	"testing"
	"time"

	"resume-vault/internal/shared/apperr"
	"resume-vault/internal/shared/config"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.AIConfig
		wantName string
		wantErr  bool
	}{
		{name: "claude default", cfg: config.AIConfig{AnthropicAPIKey: "sk-ant"}, wantName: "claude"},
		{name: "openai", cfg: config.AIConfig{Provider: "OpenAI", OpenAIAPIKey: "sk"}, wantName: "openai"},
		{name: "claude missing key", cfg: config.AIConfig{Provider: "claude"}, wantErr: true},
		{name: "claude placeholder", cfg: config.AIConfig{Provider: "claude", AnthropicAPIKey: placeholderAnthropicKey}, wantErr: true},
		{name: "openai placeholder", cfg: config.AIConfig{Provider: "openai", OpenAIAPIKey: placeholderOpenAIKey}, wantErr: true},
		{name: "unknown", cfg: config.AIConfig{Provider: "gemini", AnthropicAPIKey: "k"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Timeout = time.Second
			p, err := NewProvider(tt.cfg)
			if tt.wantErr {
				if apperr.KindOf(err) != apperr.KindConfig {
					t.Fatalf("expected config error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Fatalf("Name = %q, want %q", p.Name(), tt.wantName)
			}
		})
	}
}

func TestNewProviderReturnsFreshInstances(t *testing.T) {
	cfg := config.AIConfig{AnthropicAPIKey: "sk-ant"}
	a, _ := NewProvider(cfg)
	b, _ := NewProvider(cfg)
	if a == b {
		t.Fatalf("expected distinct providers")
	}
}

func TestValidate(t *testing.T) {
	if Validate(context.Background(), nil) {
		t.Fatalf("nil provider should not validate")
	}
	if !Validate(context.Background(), NewLLMProvider("fake", &fakeCompleter{reply: "OK"}, Options{})) {
		t.Fatalf("expected healthy provider to validate")
	}
}
