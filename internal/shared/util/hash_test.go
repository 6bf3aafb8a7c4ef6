package util

import "testing"

func TestOwnerSegment(t *testing.T) {
	id := "google:12345"
	got := OwnerSegment(id)
	if got != OwnerSegment(id) {
		t.Fatalf("expected stable segment, got %s", got)
	}
	if got == OwnerSegment("guest:12345") {
		t.Fatalf("expected distinct segments per user")
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("segment contains non-hex character: %c", ch)
		}
	}
	if len(got) != 32 {
		t.Fatalf("expected 32 hex characters, got %d", len(got))
	}
}
