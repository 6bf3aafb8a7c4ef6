package generations

import "errors"

var (
	// ErrNotFound indicates a generation or version does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the generation belongs to another user.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput indicates a malformed generation or version.
	ErrInvalidInput = errors.New("invalid input")
)
