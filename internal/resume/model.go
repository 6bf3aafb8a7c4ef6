// Package resume holds the values shared by tailoring, rendering and
// extraction: the job being applied to, the provider's tailored content and
// the user-editable view of a generated document.
package resume

import "strings"

// JobPosting describes the job a resume is tailored for.
type JobPosting struct {
	CompanyName    string `json:"companyName"`
	Position       string `json:"position"`
	JobID          string `json:"jobId,omitempty"`
	PostingLink    string `json:"postingLink,omitempty"`
	JobDescription string `json:"jobDescription"`
}

// TailoredExperience is one rewritten work experience.
type TailoredExperience struct {
	JobTitle        string   `json:"jobTitle"`
	CompanyName     string   `json:"companyName"`
	TailoredBullets []string `json:"tailored_bullets"`
}

// TailoredResume is the provider's rewrite of a profile for one job.
type TailoredResume struct {
	TailoredSummary    string               `json:"tailored_summary"`
	TailoredExperience []TailoredExperience `json:"tailored_experience"`
	KeywordMatches     []string             `json:"keyword_matches"`
	Recommendations    string               `json:"recommendations"`
}

// EditableExperience is the editable view of one experience entry.
type EditableExperience struct {
	JobTitle string   `json:"jobTitle"`
	Company  string   `json:"company"`
	Bullets  []string `json:"bullets"`
}

// EditableContent is what users may change before regenerating a version.
type EditableContent struct {
	Summary     string               `json:"summary"`
	Experiences []EditableExperience `json:"experiences"`
	Skills      string               `json:"skills"`
	Education   string               `json:"education"`
}

// Empty reports whether no field carries content.
func (e EditableContent) Empty() bool {
	return strings.TrimSpace(e.Summary) == "" &&
		len(e.Experiences) == 0 &&
		strings.TrimSpace(e.Skills) == "" &&
		strings.TrimSpace(e.Education) == ""
}

// StripCodeFences removes a surrounding markdown code fence such as
// ```html ... ``` or ```json ... ``` from model output.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// Drop the language tag line.
		if tag := strings.TrimSpace(s[:nl]); !strings.ContainsAny(tag, "<{ ") {
			s = s[nl+1:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
