package claude

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(Config{APIKey: "sk-ant-test", Timeout: 2 * time.Second, BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestCompleteReturnsText(t *testing.T) {
	var req map[string]any
	var apiKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("X-Api-Key")
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-sonnet-20241022",
			"content":[{"type":"text","text":"OK"}],"stop_reason":"end_turn","usage":{"input_tokens":5,"output_tokens":1}}`))
	})

	out, err := client.Complete(context.Background(), "Respond with OK", 10)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "OK" {
		t.Fatalf("text = %q", out)
	}
	if apiKey != "sk-ant-test" {
		t.Fatalf("api key header = %q", apiKey)
	}
	if req["model"] != DefaultModel {
		t.Fatalf("model = %v", req["model"])
	}
	if req["max_tokens"] != float64(10) {
		t.Fatalf("max_tokens = %v", req["max_tokens"])
	}
}

func TestCompleteMapsStatus(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{status: http.StatusTooManyRequests, want: "rate limit exceeded"},
		{status: http.StatusUnauthorized, want: "authentication failed"},
		{status: http.StatusBadRequest, want: "status 400"},
	}
	for _, tt := range tests {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(tt.status)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"nope"}}`))
		})
		_, err := client.Complete(context.Background(), "x", 10)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Fatalf("status %d: expected %q, got %v", tt.status, tt.want, err)
		}
	}
}

func TestCompleteEmptyContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"m","content":[],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":0}}`))
	})
	if _, err := client.Complete(context.Background(), "x", 10); err == nil {
		t.Fatalf("expected error for empty content")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatalf("expected error without api key")
	}
}
