package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres, storing the profile as a JSONB document.
type PGRepo struct {
	DB *sql.DB
}

// Get returns the user's profile.
func (r *PGRepo) Get(ctx context.Context, userID string) (Profile, error) {
	const query = `
SELECT data, created_at, updated_at
FROM profiles
WHERE user_id = $1
LIMIT 1`
	var (
		raw []byte
		p   Profile
	)
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&raw, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	createdAt, updatedAt := p.CreatedAt, p.UpdatedAt
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	p.UserID = userID
	p.CreatedAt, p.UpdatedAt = createdAt, updatedAt
	p.Normalize()
	return p, nil
}

// Create inserts p unless a row exists, then returns the stored row.
func (r *PGRepo) Create(ctx context.Context, p Profile) (Profile, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return Profile{}, fmt.Errorf("encode profile: %w", err)
	}
	const query = `
INSERT INTO profiles (user_id, data, created_at, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.DB.ExecContext(ctx, query, p.UserID, raw, p.CreatedAt, p.UpdatedAt); err != nil {
		return Profile{}, err
	}
	return r.Get(ctx, p.UserID)
}

// Replace overwrites the stored document.
func (r *PGRepo) Replace(ctx context.Context, p Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	const query = `
UPDATE profiles
SET data = $2, updated_at = $3
WHERE user_id = $1`
	res, err := r.DB.ExecContext(ctx, query, p.UserID, raw, p.UpdatedAt)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

// Delete removes the user's profile.
func (r *PGRepo) Delete(ctx context.Context, userID string) error {
	const query = `DELETE FROM profiles WHERE user_id = $1`
	res, err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
