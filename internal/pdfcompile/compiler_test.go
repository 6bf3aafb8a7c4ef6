package pdfcompile

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"testing"
	"time"

	"resume-vault/internal/render"
	"resume-vault/internal/shared/apperr"
)

func samplePDF(t *testing.T) []byte {
	t.Helper()
	data, err := render.RenderFlatPDF(render.Document{Name: "Ada Lovelace", Summary: "Analytical engines."})
	if err != nil {
		t.Fatalf("RenderFlatPDF: %v", err)
	}
	return data
}

func TestVerify(t *testing.T) {
	good := samplePDF(t)
	if err := Verify(good); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "not pdf", data: []byte("<html></html>")},
		{name: "truncated", data: good[:len(good)/2]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Verify(tt.data); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestText(t *testing.T) {
	text, err := Text(samplePDF(t))
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if !strings.Contains(text, "Ada Lovelace") {
		t.Fatalf("text missing name: %q", text)
	}
}

func TestRemoteLaTeXUploadsSource(t *testing.T) {
	pdf := samplePDF(t)
	var gotSource, gotCommand, gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		gotCommand = r.FormValue("command")
		f, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		gotSource = string(b)
		gotType = header.Header.Get("Content-Type")
		if header.Filename != "resume.tex" {
			t.Errorf("filename = %q", header.Filename)
		}
		_, _ = w.Write(pdf)
	}))
	defer server.Close()

	out, err := NewRemoteLaTeX(server.URL).Compile(context.Background(), `\documentclass{article}`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(out) != len(pdf) {
		t.Fatalf("got %d bytes, want %d", len(out), len(pdf))
	}
	if gotSource != `\documentclass{article}` || gotCommand != "pdflatex" || gotType != "text/x-tex" {
		t.Fatalf("unexpected upload source=%q command=%q type=%q", gotSource, gotCommand, gotType)
	}
}

func TestRemoteLaTeXFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: strings.Repeat("x", 800), want: "status 500"},
		{name: "not a pdf", status: http.StatusOK, body: "! Undefined control sequence.", want: "Undefined control sequence"},
		{name: "corrupt pdf", status: http.StatusOK, body: "%PDF-1.4 garbage", want: "read pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewRemoteLaTeX(server.URL).Compile(context.Background(), "x")
			if apperr.KindOf(err) != apperr.KindCompilation {
				t.Fatalf("expected compilation error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q missing %q", err, tt.want)
			}
			if len(err.Error()) > 600 {
				t.Fatalf("error text not truncated: %d chars", len(err.Error()))
			}
		})
	}
}

func TestDiagnostics(t *testing.T) {
	log := "This is pdfTeX\n(./resume.tex\n! Undefined control sequence.\nl.12 \\foo\n! Emergency stop.\n"
	if got := Diagnostics(log); got != "! Undefined control sequence.\n! Emergency stop." {
		t.Fatalf("got %q", got)
	}

	var lines []string
	for i := 0; i < 15; i++ {
		lines = append(lines, "line")
	}
	lines[14] = "last"
	got := Diagnostics(strings.Join(lines, "\n"))
	if n := len(strings.Split(got, "\n")); n != 10 || !strings.HasSuffix(got, "last") {
		t.Fatalf("expected last 10 lines, got %d: %q", n, got)
	}
}

func TestNewLaTeXCompiler(t *testing.T) {
	c, err := NewLaTeXCompiler(LaTeXOptions{Mode: ModeRemote, RemoteURL: "http://example.test"})
	if err != nil {
		t.Fatalf("remote: %v", err)
	}
	if r, ok := c.(*RemoteLaTeX); !ok || r.URL != "http://example.test" {
		t.Fatalf("expected remote compiler, got %T", c)
	}

	if _, err := NewLaTeXCompiler(LaTeXOptions{Mode: "xelatex"}); apperr.KindOf(err) != apperr.KindConfig {
		t.Fatalf("expected config error, got %v", err)
	}

	c, err = NewLaTeXCompiler(LaTeXOptions{Mode: ModeAuto})
	if err != nil {
		t.Fatalf("auto: %v", err)
	}
	_, findErr := FindPDFLaTeX()
	if _, local := c.(*LocalLaTeX); local != (findErr == nil) {
		t.Fatalf("auto picked %T with pdflatex available=%v", c, findErr == nil)
	}
}

func TestLocalLaTeXCompiles(t *testing.T) {
	path, err := FindPDFLaTeX()
	if err != nil {
		t.Skip("pdflatex not installed")
	}
	l := &LocalLaTeX{Path: path, Timeout: 60 * time.Second}
	out, err := l.Compile(context.Background(), "\\documentclass{article}\\begin{document}Hello\\end{document}\n")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := Verify(out); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	_, err = l.Compile(context.Background(), "\\documentclass{article}\\begin{document}\\undefinedmacro\\end{document}\n")
	if apperr.KindOf(err) != apperr.KindCompilation {
		t.Fatalf("expected compilation error, got %v", err)
	}
}

func TestHTMLCompilerPrints(t *testing.T) {
	found := false
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			found = true
			break
		}
	}
	if !found {
		t.Skip("chrome not installed")
	}
	html, err := render.RenderHTML(render.Document{Name: "Ada Lovelace"})
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	out, err := (&HTMLCompiler{Timeout: 60 * time.Second}).Compile(context.Background(), html)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := Verify(out); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}
