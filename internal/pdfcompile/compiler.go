// Package pdfcompile turns HTML or LaTeX source into verified PDF bytes.
package pdfcompile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"resume-vault/internal/shared/apperr"
	"resume-vault/internal/shared/metrics"
	"resume-vault/internal/shared/telemetry"
)

// Compiler converts document source to PDF bytes.
type Compiler interface {
	Compile(ctx context.Context, source string) ([]byte, error)
}

// Mode selects a LaTeX backend.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

// LaTeXOptions configures NewLaTeXCompiler.
type LaTeXOptions struct {
	Mode      Mode
	RemoteURL string
	Timeout   time.Duration
}

// NewLaTeXCompiler picks a LaTeX backend. Auto prefers a local pdflatex and
// falls back to the remote service.
func NewLaTeXCompiler(opts LaTeXOptions) (Compiler, error) {
	switch opts.Mode {
	case ModeLocal:
		path, err := FindPDFLaTeX()
		if err != nil {
			return nil, apperr.Wrap(apperr.KindConfig, "pdfcompile.NewLaTeXCompiler", err)
		}
		return &LocalLaTeX{Path: path, Timeout: opts.Timeout}, nil
	case ModeRemote:
		return NewRemoteLaTeX(opts.RemoteURL), nil
	case ModeAuto, "":
		if path, err := FindPDFLaTeX(); err == nil {
			return &LocalLaTeX{Path: path, Timeout: opts.Timeout}, nil
		}
		telemetry.Info("pdfcompile.latex_remote_fallback", map[string]any{"url": opts.RemoteURL})
		return NewRemoteLaTeX(opts.RemoteURL), nil
	default:
		return nil, apperr.Newf(apperr.KindConfig, "pdfcompile.NewLaTeXCompiler", "unsupported LATEX_COMPILER %q", opts.Mode)
	}
}

// Verify checks that data is a readable PDF with at least one page.
func Verify(data []byte) error {
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return fmt.Errorf("output is not a PDF")
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("read pdf: %w", err)
	}
	if r.NumPage() < 1 {
		return fmt.Errorf("pdf has no pages")
	}
	return nil
}

// Text extracts the plain text of a PDF.
func Text(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// finish verifies output, records the outcome and wraps failures as
// compilation errors.
func finish(backend string, start time.Time, out []byte, err error) ([]byte, error) {
	if err == nil {
		err = Verify(out)
	}
	metrics.IncCompile(backend, err == nil)
	fields := map[string]any{
		"backend":     backend,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		fields["error"] = err
		telemetry.Error("pdfcompile.failed", fields)
		if apperr.KindOf(err) == apperr.KindCompilation {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.KindCompilation, "pdfcompile."+backend, err)
	}
	fields["bytes"] = len(out)
	telemetry.Info("pdfcompile.ok", fields)
	return out, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}
