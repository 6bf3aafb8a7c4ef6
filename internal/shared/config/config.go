package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"resume-vault/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string
	DatabaseURL     string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	RenderQueueURL  string

	AI AIConfig

	RenderStrategy string
	MergeStrategy  string
	LaTeXCompiler  string
	LaTeXRemoteURL string
	LaTeXTimeout   time.Duration
	ChromePath     string

	JWKSURL            string
	JWTSecret          string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string
	RedisURL           string
}

// AIConfig selects and parameterizes the LLM backend.
type AIConfig struct {
	Provider        string
	AnthropicAPIKey string
	ClaudeModel     string
	OpenAIAPIKey    string
	OpenAIModel     string
	Timeout         time.Duration
	MaxTokens       int
	// MergeStrategy mirrors Config.MergeStrategy for provider-built documents.
	MergeStrategy string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files; real env vars win.
	for _, path := range []string{".env", "cmd/.env"} {
		_ = godotenv.Load(path)
	}

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	merge := normalizeMergeStrategy(getEnv("MERGE_STRATEGY", "positional"))

	if env == "production" && dbURL == "" {
		telemetry.Warn("config.missing", map[string]any{"key": "DATABASE_URL", "env": env})
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:             env,
		DatabaseURL:     dbURL,
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
		RenderQueueURL:  getEnv("RENDER_QUEUE_URL", ""),
		AI: AIConfig{
			Provider:        strings.ToLower(getEnv("AI_PROVIDER", "claude")),
			AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
			ClaudeModel:     getEnv("CLAUDE_MODEL", "claude-3-5-sonnet-20241022"),
			OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout:         time.Duration(getEnvInt("AI_TIMEOUT", 60)) * time.Second,
			MaxTokens:       getEnvInt("AI_MAX_TOKENS", 4096),
			MergeStrategy:   merge,
		},
		RenderStrategy:     normalizeRenderStrategy(getEnv("RENDER_STRATEGY", "template_html")),
		MergeStrategy:      merge,
		LaTeXCompiler:      strings.ToLower(getEnv("LATEX_COMPILER", "auto")),
		LaTeXRemoteURL:     getEnv("LATEX_REMOTE_URL", "https://latexonline.cc/compile"),
		LaTeXTimeout:       time.Duration(getEnvInt("LATEX_TIMEOUT", 60)) * time.Second,
		ChromePath:         getEnv("CHROME_PATH", ""),
		JWKSURL:            getEnv("AUTH_JWKS_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		UIRedirectURL:      getEnv("UI_REDIRECT_URL", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		telemetry.Warn("config.invalid_int", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeRenderStrategy(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "ai_html", "latex", "flat_pdf":
		return strings.ToLower(strings.TrimSpace(raw))
	default:
		return "template_html"
	}
}

func normalizeMergeStrategy(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "title_company":
		return "title_company"
	default:
		return "positional"
	}
}
