package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// OwnerSegment maps a user ID such as "google:123" or "guest:abc" to a
// fixed-width path segment that is safe for file systems and object keys and
// does not reveal the ID.
func OwnerSegment(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:16])
}
