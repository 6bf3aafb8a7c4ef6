package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	_ = w.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("read output: %v", err)
	}
	return strings.TrimSpace(buf.String())
}

func TestErrorWritesJSONLine(t *testing.T) {
	out := captureStdout(t, func() {
		Error("tailoring.failed", map[string]any{
			"user_id": "u1",
			"error":   errors.New("provider timeout"),
			"version": 2,
		})
	})

	var payload map[string]any
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode log json %q: %v", out, err)
	}
	if payload["level"] != "error" {
		t.Fatalf("level = %v", payload["level"])
	}
	if payload["msg"] != "tailoring.failed" {
		t.Fatalf("msg = %v", payload["msg"])
	}
	if payload["error"] != "provider timeout" {
		t.Fatalf("error = %v", payload["error"])
	}
	if payload["version"] != float64(2) {
		t.Fatalf("version = %v", payload["version"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("missing ts field")
	}
}
