// Package ai wraps the LLM backends behind a capability interface. Backends
// only shape requests; prompt construction and response parsing live here.
package ai

import (
	"context"
	"strings"
	"time"

	"resume-vault/internal/profiles"
	"resume-vault/internal/render"
	"resume-vault/internal/resume"
	"resume-vault/internal/shared/apperr"
	"resume-vault/internal/shared/telemetry"
)

// Provider is the set of AI capabilities the tailoring flow depends on.
type Provider interface {
	Name() string
	TailorResume(ctx context.Context, p profiles.Profile, job resume.JobPosting) (resume.TailoredResume, error)
	GenerateCoverLetter(ctx context.Context, p profiles.Profile, job resume.JobPosting, tailored resume.TailoredResume) (string, error)
	GenerateHTMLResume(ctx context.Context, p profiles.Profile, tailored resume.TailoredResume, job resume.JobPosting) (string, error)
	RegenerateHTMLWithEdits(ctx context.Context, originalHTML string, edits resume.EditableContent, job resume.JobPosting) (string, error)
	HealthCheck(ctx context.Context) bool
}

// Completer sends a single user prompt and returns the text reply.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

const (
	healthPrompt    = "Respond with 'OK' if you can read this message."
	healthMaxTokens = 10
)

// Options tunes an LLMProvider.
type Options struct {
	MaxTokens int
	// Timeout bounds each call; zero leaves the caller's deadline alone.
	Timeout time.Duration
	Merge   render.MergeStrategy
}

// LLMProvider implements Provider on top of a Completer.
type LLMProvider struct {
	name      string
	completer Completer
	opts      Options
}

// NewLLMProvider wraps a completer. MaxTokens defaults to 4096.
func NewLLMProvider(name string, c Completer, opts Options) *LLMProvider {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 4096
	}
	return &LLMProvider{name: name, completer: c, opts: opts}
}

func (p *LLMProvider) Name() string { return p.name }

func (p *LLMProvider) TailorResume(ctx context.Context, profile profiles.Profile, job resume.JobPosting) (resume.TailoredResume, error) {
	const op = "ai.TailorResume"
	prompt, err := BuildTailorPrompt(profile, job)
	if err != nil {
		return resume.TailoredResume{}, apperr.Wrap(apperr.KindInternal, op, err)
	}
	raw, err := p.complete(ctx, op, prompt, p.opts.MaxTokens)
	if err != nil {
		return resume.TailoredResume{}, err
	}
	tailored, err := ParseTailoredResume(raw)
	if err != nil {
		telemetry.Error("ai.parse_failed", map[string]any{
			"provider":     p.name,
			"op":           op,
			"error":        err,
			"response_len": len(raw),
		})
		return resume.TailoredResume{}, &apperr.Error{Kind: apperr.KindProvider, Op: op, Message: "invalid response from AI service", Err: err}
	}
	telemetry.Info("ai.tailored", map[string]any{
		"provider":    p.name,
		"experiences": len(tailored.TailoredExperience),
		"keywords":    len(tailored.KeywordMatches),
	})
	return tailored, nil
}

func (p *LLMProvider) GenerateCoverLetter(ctx context.Context, profile profiles.Profile, job resume.JobPosting, tailored resume.TailoredResume) (string, error) {
	const op = "ai.GenerateCoverLetter"
	prompt, err := BuildCoverLetterPrompt(profile, job, tailored)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, op, err)
	}
	raw, err := p.complete(ctx, op, prompt, p.opts.MaxTokens)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resume.StripCodeFences(raw))
	if text == "" {
		return "", apperr.New(apperr.KindProvider, op, "empty cover letter from AI service")
	}
	return text, nil
}

func (p *LLMProvider) GenerateHTMLResume(ctx context.Context, profile profiles.Profile, tailored resume.TailoredResume, job resume.JobPosting) (string, error) {
	const op = "ai.GenerateHTMLResume"
	prompt, err := BuildHTMLPrompt(profile, tailored, job, p.opts.Merge)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, op, err)
	}
	return p.completeHTML(ctx, op, prompt)
}

func (p *LLMProvider) RegenerateHTMLWithEdits(ctx context.Context, originalHTML string, edits resume.EditableContent, job resume.JobPosting) (string, error) {
	const op = "ai.RegenerateHTMLWithEdits"
	prompt, err := BuildRegeneratePrompt(originalHTML, edits, job)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, op, err)
	}
	return p.completeHTML(ctx, op, prompt)
}

// HealthCheck reports whether the backend answers a trivial prompt.
func (p *LLMProvider) HealthCheck(ctx context.Context) bool {
	_, err := p.complete(ctx, "ai.HealthCheck", healthPrompt, healthMaxTokens)
	return err == nil
}

func (p *LLMProvider) completeHTML(ctx context.Context, op, prompt string) (string, error) {
	raw, err := p.complete(ctx, op, prompt, p.opts.MaxTokens)
	if err != nil {
		return "", err
	}
	html, err := CleanHTML(raw)
	if err != nil {
		return "", &apperr.Error{Kind: apperr.KindProvider, Op: op, Message: "invalid HTML from AI service", Err: err}
	}
	return html, nil
}

func (p *LLMProvider) complete(ctx context.Context, op, prompt string, maxTokens int) (string, error) {
	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}
	start := time.Now()
	out, err := p.completer.Complete(ctx, prompt, maxTokens)
	if err != nil {
		msg := "AI service error"
		if ctx.Err() != nil {
			msg = "AI service timeout"
		}
		telemetry.Error("ai.call_failed", map[string]any{
			"provider":    p.name,
			"op":          op,
			"error":       err,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return "", &apperr.Error{Kind: apperr.KindProvider, Op: op, Message: msg, Err: err}
	}
	telemetry.Info("ai.call", map[string]any{
		"provider":    p.name,
		"op":          op,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return out, nil
}

var _ Provider = (*LLMProvider)(nil)
