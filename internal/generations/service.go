package generations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"resume-vault/internal/resume"
	"resume-vault/internal/shared/apperr"
)

// Service enforces the version-history invariants on top of a Repo.
type Service struct {
	Repo Repo
	Now  func() time.Time
	// NewID generates job application ids; defaults to uuid.NewString.
	NewID func() string
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// Create stores a new generation whose only version is first, unedited.
func (s *Service) Create(ctx context.Context, userID string, job resume.JobPosting, first Version) (Generation, error) {
	const op = "generations.Create"
	if userID == "" {
		return Generation{}, apperr.New(apperr.KindValidation, op, "user id is required")
	}
	now := s.now()
	first.VersionNumber = 1
	first.IsEdited = false
	first.CreatedAt = now
	g := Generation{
		JobApplicationID: s.newID(),
		UserID:           userID,
		JobInfo:          job,
		Versions:         []Version{first},
		CurrentVersion:   1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.Repo.Create(ctx, g); err != nil {
		return Generation{}, mapErr(op, err)
	}
	return g, nil
}

// Get returns a generation owned by userID. Other users' generations are
// reported as not found.
func (s *Service) Get(ctx context.Context, userID, jobApplicationID string) (Generation, error) {
	const op = "generations.Get"
	if jobApplicationID == "" {
		return Generation{}, apperr.New(apperr.KindValidation, op, "job application id is required")
	}
	g, err := s.Repo.Get(ctx, userID, jobApplicationID)
	if err != nil {
		return Generation{}, mapErr(op, err)
	}
	return g, nil
}

// GetVersion returns the generation and version n (zero selects current).
func (s *Service) GetVersion(ctx context.Context, userID, jobApplicationID string, n int) (Generation, Version, error) {
	g, err := s.Get(ctx, userID, jobApplicationID)
	if err != nil {
		return Generation{}, Version{}, err
	}
	v, ok := g.Version(n)
	if !ok {
		return Generation{}, Version{}, apperr.Newf(apperr.KindNotFound, "generations.GetVersion", "version %d not found", n)
	}
	return g, v, nil
}

// AppendEdited appends v as the next version, marked as edited.
func (s *Service) AppendEdited(ctx context.Context, userID, jobApplicationID string, v Version) (Version, error) {
	const op = "generations.AppendEdited"
	v.IsEdited = true
	v.CreatedAt = s.now()
	stored, err := s.Repo.AppendVersion(ctx, userID, jobApplicationID, v)
	if err != nil {
		return Version{}, mapErr(op, err)
	}
	return stored, nil
}

// List returns the caller's generations newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Summary, error) {
	out, err := s.Repo.ListByUser(ctx, userID, DefaultListLimit)
	if err != nil {
		return nil, mapErr("generations.List", err)
	}
	return out, nil
}

func mapErr(op string, err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrForbidden):
		return &apperr.Error{Kind: apperr.KindNotFound, Op: op, Message: "resume generation not found", Err: err}
	case errors.Is(err, ErrInvalidInput):
		return &apperr.Error{Kind: apperr.KindValidation, Op: op, Message: "invalid resume generation", Err: err}
	default:
		return apperr.Wrap(apperr.KindInternal, op, err)
	}
}
