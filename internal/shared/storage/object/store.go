package object

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"resume-vault/internal/shared/util"
)

// ErrNotFound is returned by Open when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// ObjectStore defines the contract for saving and retrieving binary objects
// under caller-chosen keys.
type ObjectStore interface {
	Put(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Exists(ctx context.Context, storageKey string) (bool, error)
}

// PDFKey returns the cache key for a compiled resume version. Versions are
// immutable, so the key never needs invalidation.
func PDFKey(userID, jobApplicationID string, version int) string {
	return fmt.Sprintf("pdf/%s/%s/v%d.pdf", util.OwnerSegment(userID), jobApplicationID, version)
}

// IsPDFKey reports whether storageKey was produced by PDFKey.
func IsPDFKey(storageKey string) bool {
	return strings.HasPrefix(storageKey, "pdf/") && strings.HasSuffix(storageKey, ".pdf")
}
