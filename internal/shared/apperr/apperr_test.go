package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOfWrappedChain(t *testing.T) {
	base := Wrap(KindProvider, "claude.complete", context.DeadlineExceeded)
	wrapped := fmt.Errorf("tailor: %w", base)

	if got := KindOf(wrapped); got != KindProvider {
		t.Fatalf("KindOf = %v, want %v", got, KindProvider)
	}
	if !errors.Is(wrapped, Provider) {
		t.Fatalf("expected errors.Is(wrapped, Provider)")
	}
	if errors.Is(wrapped, NotFound) {
		t.Fatalf("provider error must not match NotFound")
	}
	if !errors.Is(wrapped, context.DeadlineExceeded) {
		t.Fatalf("expected underlying deadline error to be reachable")
	}
}

func TestKindOfPlainError(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Fatalf("KindOf(plain) = %v, want internal", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindValidation, http.StatusBadRequest},
		{KindProvider, http.StatusBadGateway},
		{KindCompilation, http.StatusInternalServerError},
		{KindConfig, http.StatusInternalServerError},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.kind); got != tt.want {
			t.Fatalf("HTTPStatus(%s) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := New(KindNotFound, "profiles.get", "profile not found").WithField("user_id", "u1")
	if err.Error() != "profiles.get: profile not found" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if FieldsOf(err)["user_id"] != "u1" {
		t.Fatalf("expected user_id field")
	}
}
