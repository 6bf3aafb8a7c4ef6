package workerproc

import (
	"context"
	"errors"
	"testing"

	"resume-vault/internal/queue"
	"resume-vault/internal/shared/apperr"
)

type fakeRenderer struct {
	got []queue.Message
	err error
}

func (f *fakeRenderer) PrerenderPDF(ctx context.Context, msg queue.Message) error {
	f.got = append(f.got, msg)
	return f.err
}

func TestParseMessage(t *testing.T) {
	if _, _, err := ParseMessage("   "); !errors.As(err, &ErrEmptyBody{}) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}
	_, meta, err := ParseMessage(`{"jobApplicationId":"j1"}`)
	var decodeErr ErrDecode
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if meta.BodyLen == 0 || len(meta.BodySHA) != 64 {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}

func TestHandleMessage(t *testing.T) {
	r := &fakeRenderer{}
	body := `{"jobApplicationId":"j1","userId":"u1","version":3}`
	if err := HandleMessage(context.Background(), r, body); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(r.got) != 1 || r.got[0].Version != 3 {
		t.Fatalf("unexpected calls: %+v", r.got)
	}
}

func TestHandleMessageUsesParsedMessage(t *testing.T) {
	r := &fakeRenderer{}
	ctx := WithParsedMessage(context.Background(), queue.Message{JobApplicationID: "j2", UserID: "u1", Version: 1})
	if err := HandleMessage(ctx, r, "ignored"); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(r.got) != 1 || r.got[0].JobApplicationID != "j2" {
		t.Fatalf("unexpected calls: %+v", r.got)
	}
}

func TestHandleMessageProcessErrors(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		unrecoverable bool
	}{
		{name: "missing version", err: apperr.New(apperr.KindNotFound, "x", "gone"), unrecoverable: true},
		{name: "compile failure", err: apperr.New(apperr.KindCompilation, "x", "boom")},
		{name: "plain error", err: errors.New("network")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := HandleMessage(context.Background(), &fakeRenderer{err: tt.err}, `{"jobApplicationId":"j1","userId":"u1","version":1}`)
			var procErr ErrProcess
			if !errors.As(err, &procErr) {
				t.Fatalf("expected ErrProcess, got %v", err)
			}
			if procErr.Unrecoverable() != tt.unrecoverable {
				t.Fatalf("Unrecoverable() = %v", procErr.Unrecoverable())
			}
		})
	}
}

func TestUnrecoverable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "empty body", err: ErrEmptyBody{}, want: true},
		{name: "decode", err: ErrDecode{Err: errors.New("bad json")}, want: true},
		{name: "missing version", err: ErrProcess{Err: apperr.New(apperr.KindNotFound, "op", "gone")}, want: true},
		{name: "compile failure", err: ErrProcess{Err: apperr.New(apperr.KindCompilation, "op", "boom")}, want: false},
		{name: "plain", err: errors.New("network"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Unrecoverable(tt.err); got != tt.want {
				t.Fatalf("Unrecoverable() = %v, want %v", got, tt.want)
			}
		})
	}
}
