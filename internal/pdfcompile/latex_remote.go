package pdfcompile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"resume-vault/internal/shared/apperr"
)

// DefaultRemoteURL is the latexonline compile endpoint.
const DefaultRemoteURL = "https://latexonline.cc/compile"

// RemoteLaTeX uploads the source to a latexonline-compatible service.
type RemoteLaTeX struct {
	URL        string
	HTTPClient *http.Client
}

// NewRemoteLaTeX builds a remote compiler with a 120s timeout.
func NewRemoteLaTeX(url string) *RemoteLaTeX {
	if url == "" {
		url = DefaultRemoteURL
	}
	return &RemoteLaTeX{URL: url, HTTPClient: &http.Client{Timeout: 120 * time.Second}}
}

// Compile implements Compiler.
func (r *RemoteLaTeX) Compile(ctx context.Context, source string) ([]byte, error) {
	start := time.Now()
	out, err := r.post(ctx, source)
	return finish("latexonline", start, out, err)
}

func (r *RemoteLaTeX) post(ctx context.Context, source string) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="resume.tex"`)
	header.Set("Content-Type", "text/x-tex")
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(part, source); err != nil {
		return nil, err
	}
	if err := mw.WriteField("command", "pdflatex"); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("latex service request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.Newf(apperr.KindCompilation, "pdfcompile.latexonline",
			"LaTeX compilation failed (status %d): %s", resp.StatusCode, truncate(string(data), 500))
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return nil, apperr.Newf(apperr.KindCompilation, "pdfcompile.latexonline",
			"LaTeX compilation failed: %s", truncate(string(data), 500))
	}
	return data, nil
}
