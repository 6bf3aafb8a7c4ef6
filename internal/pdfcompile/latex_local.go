package pdfcompile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"resume-vault/internal/shared/apperr"
)

var pdflatexFallbacks = []string{
	"/usr/bin/pdflatex",
	"/Library/TeX/texbin/pdflatex",
}

// FindPDFLaTeX locates pdflatex on PATH or in the usual install locations.
func FindPDFLaTeX() (string, error) {
	if p, err := exec.LookPath("pdflatex"); err == nil {
		return p, nil
	}
	for _, p := range pdflatexFallbacks {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", errors.New("pdflatex not found; install TeX Live or MacTeX")
}

// LocalLaTeX runs pdflatex in a fresh temp directory per call.
type LocalLaTeX struct {
	Path    string
	Timeout time.Duration
}

// Compile implements Compiler.
func (l *LocalLaTeX) Compile(ctx context.Context, source string) ([]byte, error) {
	start := time.Now()
	out, err := l.run(ctx, source)
	return finish("pdflatex", start, out, err)
}

func (l *LocalLaTeX) run(ctx context.Context, source string) ([]byte, error) {
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dir, err := os.MkdirTemp("", "resume-latex-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	texPath := filepath.Join(dir, "resume.tex")
	if err := os.WriteFile(texPath, []byte(source), 0o600); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, l.Path,
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-output-directory", dir,
		texPath,
	)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return nil, apperr.Newf(apperr.KindCompilation, "pdfcompile.pdflatex", "LaTeX compilation timed out (%s)", timeout)
	}

	data, readErr := os.ReadFile(filepath.Join(dir, "resume.pdf"))
	if readErr != nil {
		diag := Diagnostics(stdout.String())
		if diag == "" {
			diag = truncate(stderr.String(), 500)
		}
		e := apperr.New(apperr.KindCompilation, "pdfcompile.pdflatex", "LaTeX compilation failed: "+diag)
		e.Err = runErr
		return nil, e
	}
	if runErr != nil {
		return nil, fmt.Errorf("pdflatex: %w", runErr)
	}
	return data, nil
}

// Diagnostics picks the useful lines out of a pdflatex log: the first five
// error lines, or the last ten lines when none look like errors.
func Diagnostics(log string) string {
	lines := strings.Split(strings.TrimRight(log, "\n"), "\n")
	var errs []string
	for _, line := range lines {
		if strings.HasPrefix(line, "!") || strings.Contains(strings.ToLower(line), "error") {
			errs = append(errs, strings.TrimSpace(line))
			if len(errs) == 5 {
				break
			}
		}
	}
	if len(errs) > 0 {
		return strings.Join(errs, "\n")
	}
	if len(lines) > 10 {
		lines = lines[len(lines)-10:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
