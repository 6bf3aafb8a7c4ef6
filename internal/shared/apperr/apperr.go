package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies failures so callers can branch without parsing messages.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindProvider
	KindCompilation
	KindConfig
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation_error"
	case KindProvider:
		return "provider_error"
	case KindCompilation:
		return "compilation_error"
	case KindConfig:
		return "config_error"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error is the structured error carried across package boundaries.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Fields  map[string]any
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	if msg == "" {
		return e.Op
	}
	return e.Op + ": " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind so errors.Is(err, apperr.NotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Kind sentinels for errors.Is.
var (
	NotFound     = &Error{Kind: KindNotFound}
	Validation   = &Error{Kind: KindValidation}
	Provider     = &Error{Kind: KindProvider}
	Compilation  = &Error{Kind: KindCompilation}
	Config       = &Error{Kind: KindConfig}
	Unauthorized = &Error{Kind: KindUnauthorized}
)

// New builds an error of the given kind.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Newf builds an error of the given kind with a formatted message.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying error.
func Wrap(kind Kind, op string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// WithField returns e with an additional structured field.
func (e *Error) WithField(key string, value any) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string]any)
	}
	e.Fields[key] = value
	return e
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// FieldsOf returns structured fields of the first *Error in err's chain.
func FieldsOf(err error) map[string]any {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// HTTPStatus maps a kind to its response status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindProvider:
		return http.StatusBadGateway
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
