package health

import (
	"context"
	"errors"
	"testing"
)

func TestReadyAllPassing(t *testing.T) {
	s := NewService()
	s.Register("db", CheckFunc(func(context.Context) error { return nil }))
	s.Register("ai", CheckFunc(func(context.Context) error { return nil }))

	r := s.Ready(context.Background())
	if !r.OK || r.Checks["db"] != "ok" || r.Checks["ai"] != "ok" {
		t.Fatalf("unexpected report %+v", r)
	}
	if names := s.Names(); len(names) != 2 || names[0] != "ai" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestReadyReportsFailure(t *testing.T) {
	s := NewService()
	s.Register("db", CheckFunc(func(context.Context) error { return errors.New("connection refused") }))
	s.Register("ai", CheckFunc(func(context.Context) error { return nil }))

	r := s.Ready(context.Background())
	if r.OK {
		t.Fatalf("expected not ready")
	}
	if r.Checks["db"] != "connection refused" || r.Checks["ai"] != "ok" {
		t.Fatalf("unexpected checks %+v", r.Checks)
	}
}

func TestStatus(t *testing.T) {
	if !NewService().Status()["ok"] {
		t.Fatalf("expected ok")
	}
}
