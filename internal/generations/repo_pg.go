package generations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"resume-vault/internal/resume"
	"resume-vault/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts the generation row and its first version in one transaction.
func (r *PGRepo) Create(ctx context.Context, g Generation) error {
	if !validNew(g) {
		return ErrInvalidInput
	}
	const query = `
INSERT INTO resume_generations (
    job_application_id, user_id, company_name, position, job_id, posting_link, job_description,
    current_version, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query,
			g.JobApplicationID,
			g.UserID,
			g.JobInfo.CompanyName,
			g.JobInfo.Position,
			g.JobInfo.JobID,
			g.JobInfo.PostingLink,
			g.JobInfo.JobDescription,
			g.CurrentVersion,
			g.CreatedAt,
			g.UpdatedAt,
		); err != nil {
			return err
		}
		return insertVersion(ctx, tx, g.JobApplicationID, g.Versions[0])
	})
}

// Get loads a generation and all of its versions.
func (r *PGRepo) Get(ctx context.Context, userID, jobApplicationID string) (Generation, error) {
	const query = `
SELECT job_application_id, user_id, company_name, position, job_id, posting_link, job_description,
       current_version, created_at, updated_at
FROM resume_generations
WHERE job_application_id = $1
LIMIT 1`
	var g Generation
	err := r.DB.QueryRowContext(ctx, query, jobApplicationID).Scan(
		&g.JobApplicationID,
		&g.UserID,
		&g.JobInfo.CompanyName,
		&g.JobInfo.Position,
		&g.JobInfo.JobID,
		&g.JobInfo.PostingLink,
		&g.JobInfo.JobDescription,
		&g.CurrentVersion,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Generation{}, ErrNotFound
		}
		return Generation{}, err
	}
	if g.UserID != userID {
		return Generation{}, ErrForbidden
	}

	versions, err := r.listVersions(ctx, jobApplicationID)
	if err != nil {
		return Generation{}, err
	}
	g.Versions = versions
	return g, nil
}

func (r *PGRepo) listVersions(ctx context.Context, jobApplicationID string) ([]Version, error) {
	const query = `
SELECT version_number, format, content, cover_letter, cover_letter_html, tailored_data,
       edited_content, ats_resume, ats_cover_letter, is_edited, created_at
FROM resume_versions
WHERE job_application_id = $1
ORDER BY version_number ASC`
	rows, err := r.DB.QueryContext(ctx, query, jobApplicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Version{}
	for rows.Next() {
		var (
			v        Version
			format   string
			tailored []byte
			edited   []byte
		)
		if err := rows.Scan(
			&v.VersionNumber,
			&format,
			&v.Content,
			&v.CoverLetter,
			&v.CoverLetterHTML,
			&tailored,
			&edited,
			&v.ATSScores.Resume,
			&v.ATSScores.CoverLetter,
			&v.IsEdited,
			&v.CreatedAt,
		); err != nil {
			return nil, err
		}
		v.Format = Format(format)
		if len(tailored) > 0 {
			if err := json.Unmarshal(tailored, &v.TailoredData); err != nil {
				return nil, fmt.Errorf("decode tailored data v%d: %w", v.VersionNumber, err)
			}
		}
		if len(edited) > 0 {
			var content resume.EditableContent
			if err := json.Unmarshal(edited, &content); err != nil {
				return nil, fmt.Errorf("decode edited content v%d: %w", v.VersionNumber, err)
			}
			v.EditedContent = &content
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// AppendVersion locks the generation row, inserts current+1 and bumps
// current_version in the same transaction.
func (r *PGRepo) AppendVersion(ctx context.Context, userID, jobApplicationID string, v Version) (Version, error) {
	const lockQuery = `
SELECT user_id, current_version
FROM resume_generations
WHERE job_application_id = $1
FOR UPDATE`
	const bumpQuery = `
UPDATE resume_generations
SET current_version = $2, updated_at = $3
WHERE job_application_id = $1`

	err := db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var owner string
		var current int
		if err := tx.QueryRowContext(ctx, lockQuery, jobApplicationID).Scan(&owner, &current); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if owner != userID {
			return ErrForbidden
		}
		v.VersionNumber = current + 1
		if err := insertVersion(ctx, tx, jobApplicationID, v); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, bumpQuery, jobApplicationID, v.VersionNumber, v.CreatedAt)
		return err
	})
	if err != nil {
		return Version{}, err
	}
	return v, nil
}

func insertVersion(ctx context.Context, tx *sql.Tx, jobApplicationID string, v Version) error {
	const query = `
INSERT INTO resume_versions (
    job_application_id, version_number, format, content, cover_letter, cover_letter_html,
    tailored_data, edited_content, ats_resume, ats_cover_letter, is_edited, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	tailored, err := json.Marshal(v.TailoredData)
	if err != nil {
		return err
	}
	var edited any
	if v.EditedContent != nil {
		b, err := json.Marshal(v.EditedContent)
		if err != nil {
			return err
		}
		edited = b
	}
	_, err = tx.ExecContext(ctx, query,
		jobApplicationID,
		v.VersionNumber,
		string(v.Format),
		v.Content,
		v.CoverLetter,
		v.CoverLetterHTML,
		tailored,
		edited,
		v.ATSScores.Resume,
		v.ATSScores.CoverLetter,
		v.IsEdited,
		v.CreatedAt,
	)
	return err
}

// ListByUser lists generation summaries newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Summary, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	const query = `
SELECT g.job_application_id, g.company_name, g.position, g.current_version,
       (SELECT COUNT(*) FROM resume_versions v WHERE v.job_application_id = g.job_application_id),
       g.created_at, g.updated_at
FROM resume_generations g
WHERE g.user_id = $1
ORDER BY g.created_at DESC
LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(
			&s.JobApplicationID,
			&s.CompanyName,
			&s.Position,
			&s.CurrentVersion,
			&s.TotalVersions,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
