package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"resume-vault/internal/shared/apperr"
)

// Owner is the authenticated caller a profile belongs to.
type Owner struct {
	UserID string
	Email  string
	Name   string
}

// Service contains business logic for profiles.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Get returns the caller's profile without creating one.
func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return Profile{}, apperr.New(apperr.KindUnauthorized, "profiles.get", "missing identity")
	}
	p, err := s.Repo.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return Profile{}, apperr.Wrap(apperr.KindNotFound, "profiles.get", err)
	}
	if err != nil {
		return Profile{}, err
	}
	p.Normalize()
	return p, nil
}

// GetOrCreate returns the caller's profile, creating an empty default seeded
// from the identity claims on first access.
func (s *Service) GetOrCreate(ctx context.Context, owner Owner) (Profile, error) {
	p, err := s.Get(ctx, owner.UserID)
	if err == nil {
		return p, nil
	}
	if apperr.KindOf(err) != apperr.KindNotFound {
		return Profile{}, err
	}
	created, err := s.Repo.Create(ctx, NewDefault(owner.UserID, owner.Email, owner.Name, s.now()))
	if err != nil {
		return Profile{}, err
	}
	created.Normalize()
	return created, nil
}

// ReplaceFields overwrites the top-level fields present in body, leaving the
// others untouched, then validates and stores the result.
func (s *Service) ReplaceFields(ctx context.Context, owner Owner, body json.RawMessage) (Profile, error) {
	current, err := s.GetOrCreate(ctx, owner)
	if err != nil {
		return Profile{}, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return Profile{}, apperr.New(apperr.KindValidation, "profiles.replace", "body must be a JSON object")
	}
	for _, locked := range []string{"userId", "createdAt", "updatedAt"} {
		delete(fields, locked)
	}
	for key, raw := range fields {
		if err := replaceField(&current, key, raw); err != nil {
			return Profile{}, apperr.Newf(apperr.KindValidation, "profiles.replace", "invalid %s", key).WithField(key, "type")
		}
	}

	current.UserID = owner.UserID
	current.UpdatedAt = s.now()
	current.Normalize()
	if err := Validate(current); err != nil {
		return Profile{}, err
	}
	if err := s.Repo.Replace(ctx, current); err != nil {
		return Profile{}, err
	}
	return current, nil
}

// replaceField decodes raw into the struct field tagged with key. Nested
// objects are replaced as a whole rather than merged.
func replaceField(p *Profile, key string, raw json.RawMessage) error {
	switch key {
	case "personalInfo":
		p.PersonalInfo = PersonalInfo{}
		return json.Unmarshal(raw, &p.PersonalInfo)
	case "professionalHeadline":
		return json.Unmarshal(raw, &p.ProfessionalHeadline)
	case "summary":
		return json.Unmarshal(raw, &p.Summary)
	case "workExperience":
		p.WorkExperience = nil
		return json.Unmarshal(raw, &p.WorkExperience)
	case "education":
		p.Education = nil
		return json.Unmarshal(raw, &p.Education)
	case "skills":
		p.Skills = nil
		return json.Unmarshal(raw, &p.Skills)
	case "certifications":
		p.Certifications = nil
		return json.Unmarshal(raw, &p.Certifications)
	case "projects":
		p.Projects = nil
		return json.Unmarshal(raw, &p.Projects)
	case "volunteering":
		p.Volunteering = nil
		return json.Unmarshal(raw, &p.Volunteering)
	case "languages":
		p.Languages = nil
		return json.Unmarshal(raw, &p.Languages)
	case "publications":
		p.Publications = nil
		return json.Unmarshal(raw, &p.Publications)
	case "jobPreferences":
		p.JobPreferences = nil
		return json.Unmarshal(raw, &p.JobPreferences)
	default:
		// Unknown keys are ignored.
		return nil
	}
}

// Delete removes the caller's profile.
func (s *Service) Delete(ctx context.Context, userID string) error {
	err := s.Repo.Delete(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return apperr.Wrap(apperr.KindNotFound, "profiles.delete", err)
	}
	return err
}
