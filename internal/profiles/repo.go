package profiles

import "context"

// Repo defines persistence operations for profiles.
type Repo interface {
	Get(ctx context.Context, userID string) (Profile, error)
	// Create stores p unless one already exists, and returns the stored profile.
	Create(ctx context.Context, p Profile) (Profile, error)
	Replace(ctx context.Context, p Profile) error
	Delete(ctx context.Context, userID string) error
}
