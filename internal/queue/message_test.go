package queue

import (
	"context"
	"testing"
)

func TestDecodeMessage(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{name: "valid", payload: `{"jobApplicationId":"j1","userId":"u1","version":2,"enqueuedAt":"2026-01-30T22:00:00Z"}`},
		{name: "missing version", payload: `{"jobApplicationId":"j1","userId":"u1"}`, wantErr: true},
		{name: "missing user", payload: `{"jobApplicationId":"j1","version":1}`, wantErr: true},
		{name: "not json", payload: `nope`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := DecodeMessage([]byte(tt.payload))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", msg)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeMessage: %v", err)
			}
			if msg.JobApplicationID != "j1" || msg.Version != 2 {
				t.Fatalf("unexpected message: %+v", msg)
			}
		})
	}
}

func TestMemoryClientDrain(t *testing.T) {
	c := NewMemoryClient()
	_ = c.Send(context.Background(), Message{JobApplicationID: "j1", UserID: "u1", Version: 1})
	_ = c.Send(context.Background(), Message{JobApplicationID: "j1", UserID: "u1", Version: 2})

	got := c.Drain()
	if len(got) != 2 || got[1].Version != 2 {
		t.Fatalf("unexpected drain: %+v", got)
	}
	if len(c.Drain()) != 0 {
		t.Fatalf("drain should empty the queue")
	}
}
