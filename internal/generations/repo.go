package generations

import "context"

// DefaultListLimit caps list results.
const DefaultListLimit = 100

// Repo persists generations. AppendVersion must assign the next version
// number and bump currentVersion atomically.
type Repo interface {
	Create(ctx context.Context, g Generation) error
	Get(ctx context.Context, userID, jobApplicationID string) (Generation, error)
	AppendVersion(ctx context.Context, userID, jobApplicationID string, v Version) (Version, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Summary, error)
}

// validNew checks a generation about to be created.
func validNew(g Generation) bool {
	return g.JobApplicationID != "" && g.UserID != "" &&
		len(g.Versions) == 1 && g.Versions[0].VersionNumber == 1 && g.CurrentVersion == 1
}
