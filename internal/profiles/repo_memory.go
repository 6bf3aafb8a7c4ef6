package profiles

import (
	"context"
	"sync"
)

// MemoryRepo stores profiles in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byUser map[string]Profile
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string]Profile)}
}

// Get returns the user's profile.
func (r *MemoryRepo) Get(ctx context.Context, userID string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byUser[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

// Create stores p if the user has no profile yet.
func (r *MemoryRepo) Create(ctx context.Context, p Profile) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byUser[p.UserID]; ok {
		return existing, nil
	}
	r.byUser[p.UserID] = p
	return p, nil
}

// Replace overwrites an existing profile.
func (r *MemoryRepo) Replace(ctx context.Context, p Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byUser[p.UserID]
	if !ok {
		return ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	r.byUser[p.UserID] = p
	return nil
}

// Delete removes a profile.
func (r *MemoryRepo) Delete(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUser[userID]; !ok {
		return ErrNotFound
	}
	delete(r.byUser, userID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
