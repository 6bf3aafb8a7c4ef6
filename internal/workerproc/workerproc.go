// Package workerproc turns queue payloads into PDF pre-render calls. It is
// shared by the long-polling worker and the Lambda handler.
package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"resume-vault/internal/queue"
	"resume-vault/internal/shared/apperr"
)

// Renderer compiles and caches the PDF a message names.
type Renderer interface {
	PrerenderPDF(ctx context.Context, msg queue.Message) error
}

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a payload that is not a valid render job.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

func (e ErrDecode) Unwrap() error { return e.Err }

// ErrProcess indicates rendering failed after successful parsing.
type ErrProcess struct {
	JobApplicationID string
	Version          int
	RequestID        string
	Err              error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "render pdf"
	}
	return "render pdf: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// Unrecoverable reports whether retrying cannot succeed, e.g. the version
// no longer exists.
func (e ErrProcess) Unrecoverable() bool {
	switch apperr.KindOf(e.Err) {
	case apperr.KindNotFound, apperr.KindValidation:
		return true
	default:
		return false
	}
}

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}
	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	return msg, meta, nil
}

type parsedMessageKey struct{}

// WithParsedMessage stores a decoded message in the context for reuse.
func WithParsedMessage(ctx context.Context, msg queue.Message) context.Context {
	return context.WithValue(ctx, parsedMessageKey{}, msg)
}

func parsedMessageFromContext(ctx context.Context) (queue.Message, bool) {
	if ctx == nil {
		return queue.Message{}, false
	}
	msg, ok := ctx.Value(parsedMessageKey{}).(queue.Message)
	return msg, ok
}

// HandleMessage parses a payload, unless already parsed into ctx, and renders it.
func HandleMessage(ctx context.Context, r Renderer, body string) error {
	if r == nil {
		return errors.New("renderer not configured")
	}
	msg, ok := parsedMessageFromContext(ctx)
	if !ok {
		var err error
		if msg, _, err = ParseMessage(body); err != nil {
			return err
		}
	}
	if err := r.PrerenderPDF(ctx, msg); err != nil {
		return ErrProcess{JobApplicationID: msg.JobApplicationID, Version: msg.Version, RequestID: msg.RequestID, Err: err}
	}
	return nil
}

// Unrecoverable reports whether err from HandleMessage can never succeed on
// redelivery, so the message should be deleted rather than retried.
func Unrecoverable(err error) bool {
	var empty ErrEmptyBody
	var decode ErrDecode
	var proc ErrProcess
	switch {
	case err == nil:
		return false
	case errors.As(err, &empty), errors.As(err, &decode):
		return true
	case errors.As(err, &proc):
		return proc.Unrecoverable()
	default:
		return false
	}
}
