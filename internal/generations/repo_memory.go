package generations

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores generations in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Generation
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Generation)}
}

// Create stores a new generation holding exactly version 1.
func (r *MemoryRepo) Create(ctx context.Context, g Generation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !validNew(g) {
		return ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[g.JobApplicationID]; exists {
		return ErrInvalidInput
	}
	g.Versions = append([]Version(nil), g.Versions...)
	r.byID[g.JobApplicationID] = g
	return nil
}

// Get returns a copy of the generation owned by userID.
func (r *MemoryRepo) Get(ctx context.Context, userID, jobApplicationID string) (Generation, error) {
	if err := ctx.Err(); err != nil {
		return Generation{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.byID[jobApplicationID]
	if !ok {
		return Generation{}, ErrNotFound
	}
	if g.UserID != userID {
		return Generation{}, ErrForbidden
	}
	g.Versions = append([]Version(nil), g.Versions...)
	return g, nil
}

// AppendVersion numbers v as current+1 under the write lock.
func (r *MemoryRepo) AppendVersion(ctx context.Context, userID, jobApplicationID string, v Version) (Version, error) {
	if err := ctx.Err(); err != nil {
		return Version{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.byID[jobApplicationID]
	if !ok {
		return Version{}, ErrNotFound
	}
	if g.UserID != userID {
		return Version{}, ErrForbidden
	}
	v.VersionNumber = g.CurrentVersion + 1
	versions := make([]Version, len(g.Versions), len(g.Versions)+1)
	copy(versions, g.Versions)
	g.Versions = append(versions, v)
	g.CurrentVersion = v.VersionNumber
	g.UpdatedAt = v.CreatedAt
	r.byID[jobApplicationID] = g
	return v, nil
}

// ListByUser returns summaries newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	r.mu.RLock()
	out := make([]Summary, 0)
	for _, g := range r.byID {
		if g.UserID == userID {
			out = append(out, summarize(g))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
