package render

import (
	"strings"

	"resume-vault/internal/profiles"
	"resume-vault/internal/resume"
)

// MergeStrategy decides which profile entry a tailored experience belongs to.
type MergeStrategy string

const (
	// MergePositional pairs the i-th tailored entry with the i-th profile
	// entry. It mismatches silently if the provider reorders or drops entries.
	MergePositional MergeStrategy = "positional"
	// MergeTitleCompany pairs entries whose trimmed, case-insensitive job
	// title and company both match.
	MergeTitleCompany MergeStrategy = "title_company"
)

// ParseMergeStrategy returns the named strategy, defaulting to positional.
func ParseMergeStrategy(s string) MergeStrategy {
	if MergeStrategy(strings.ToLower(strings.TrimSpace(s))) == MergeTitleCompany {
		return MergeTitleCompany
	}
	return MergePositional
}

// Experience is one work experience as it appears in a rendered document.
type Experience struct {
	Title        string
	Company      string
	Location     string
	Start        string
	End          string
	Bullets      []string
	Technologies []string
}

// DateRange renders "start - end", or just the end label without a start.
func (e Experience) DateRange() string {
	if strings.TrimSpace(e.Start) == "" {
		return e.End
	}
	return e.Start + " - " + e.End
}

// MergeExperiences overlays tailored bullets on the profile's experiences.
// The result always has one entry per profile experience, in profile order;
// entries without a tailored match keep their original responsibilities.
func MergeExperiences(original []profiles.WorkExperience, tailored []resume.TailoredExperience, strategy MergeStrategy) []Experience {
	out := make([]Experience, len(original))
	for i, w := range original {
		out[i] = Experience{
			Title:        w.JobTitle,
			Company:      w.CompanyName,
			Location:     w.Location,
			Start:        w.StartDate,
			End:          w.EndLabel(),
			Bullets:      nonEmpty(w.Responsibilities),
			Technologies: append([]string(nil), w.Technologies...),
		}
	}

	switch strategy {
	case MergeTitleCompany:
		used := make([]bool, len(original))
		for _, t := range tailored {
			for i, w := range original {
				if used[i] || !sameEntry(w, t) {
					continue
				}
				used[i] = true
				overlay(&out[i], t)
				break
			}
		}
	default:
		for i := range out {
			if i >= len(tailored) {
				break
			}
			overlay(&out[i], tailored[i])
		}
	}
	return out
}

func overlay(e *Experience, t resume.TailoredExperience) {
	if bullets := nonEmpty(t.TailoredBullets); len(bullets) > 0 {
		e.Bullets = bullets
	}
}

func sameEntry(w profiles.WorkExperience, t resume.TailoredExperience) bool {
	return strings.EqualFold(strings.TrimSpace(w.JobTitle), strings.TrimSpace(t.JobTitle)) &&
		strings.EqualFold(strings.TrimSpace(w.CompanyName), strings.TrimSpace(t.CompanyName))
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ClampTailored drops tailored entries beyond the profile's experience count,
// so a provider can never add jobs the user did not hold.
func ClampTailored(t resume.TailoredResume, experienceCount int) resume.TailoredResume {
	if len(t.TailoredExperience) > experienceCount {
		t.TailoredExperience = t.TailoredExperience[:experienceCount]
	}
	return t
}
