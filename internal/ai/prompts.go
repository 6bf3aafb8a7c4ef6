package ai

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"resume-vault/internal/profiles"
	"resume-vault/internal/render"
	"resume-vault/internal/resume"
)

//go:embed prompts/*.txt
var promptFS embed.FS

var promptTemplates = template.Must(template.ParseFS(promptFS, "prompts/*.txt"))

type tailorPromptData struct {
	Job            resume.JobPosting
	Name           string
	Headline       string
	Summary        string
	Experience     string
	Skills         string
	Education      string
	Certifications string
}

type coverLetterPromptData struct {
	Job       resume.JobPosting
	Name      string
	Tailored  resume.TailoredResume
	Strengths string
}

type htmlPromptData struct {
	Job            resume.JobPosting
	Name           string
	Contact        string
	Headline       string
	Tailored       resume.TailoredResume
	Experience     string
	Skills         string
	Education      string
	Certifications string
}

type regeneratePromptData struct {
	Job          resume.JobPosting
	Edits        resume.EditableContent
	OriginalHTML string
}

// BuildTailorPrompt renders the tailoring prompt for a profile and job.
func BuildTailorPrompt(p profiles.Profile, job resume.JobPosting) (string, error) {
	return executePrompt("tailor.txt", tailorPromptData{
		Job:            job,
		Name:           p.PersonalInfo.FullName(),
		Headline:       p.ProfessionalHeadline,
		Summary:        p.Summary,
		Experience:     FormatExperiences(p.WorkExperience),
		Skills:         FormatSkills(p.Skills),
		Education:      FormatEducation(p.Education),
		Certifications: FormatCertifications(p.Certifications),
	})
}

// BuildCoverLetterPrompt renders the cover letter prompt. Only the first five
// keyword matches are offered as strengths.
func BuildCoverLetterPrompt(p profiles.Profile, job resume.JobPosting, tailored resume.TailoredResume) (string, error) {
	strengths := tailored.KeywordMatches
	if len(strengths) > 5 {
		strengths = strengths[:5]
	}
	return executePrompt("cover_letter.txt", coverLetterPromptData{
		Job:       job,
		Name:      p.PersonalInfo.FullName(),
		Tailored:  tailored,
		Strengths: strings.Join(strengths, ", "),
	})
}

// BuildHTMLPrompt renders the prompt asking for a complete styled document.
// merge pairs tailored entries with the profile's experiences.
func BuildHTMLPrompt(p profiles.Profile, tailored resume.TailoredResume, job resume.JobPosting, merge render.MergeStrategy) (string, error) {
	doc := render.BuildDocument(p, tailored, merge)
	return executePrompt("html_resume.txt", htmlPromptData{
		Job:            job,
		Name:           doc.Name,
		Contact:        strings.Join(doc.ContactParts(), " | "),
		Headline:       p.ProfessionalHeadline,
		Tailored:       tailored,
		Experience:     formatMerged(doc.Experiences),
		Skills:         FormatSkills(p.Skills),
		Education:      FormatEducation(p.Education),
		Certifications: FormatCertifications(p.Certifications),
	})
}

// BuildRegeneratePrompt renders the edit-preserving regeneration prompt.
func BuildRegeneratePrompt(originalHTML string, edits resume.EditableContent, job resume.JobPosting) (string, error) {
	return executePrompt("regenerate_html.txt", regeneratePromptData{
		Job:          job,
		Edits:        edits,
		OriginalHTML: originalHTML,
	})
}

func executePrompt(name string, data any) (string, error) {
	var b strings.Builder
	if err := promptTemplates.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return strings.TrimSpace(b.String()), nil
}

// FormatExperiences lists work history one role per block.
func FormatExperiences(in []profiles.WorkExperience) string {
	if len(in) == 0 {
		return "No work experience provided"
	}
	blocks := make([]string, 0, len(in))
	for _, w := range in {
		title := orDefault(w.JobTitle, "Unknown Position")
		company := orDefault(w.CompanyName, "Unknown Company")
		var b strings.Builder
		fmt.Fprintf(&b, "- %s at %s (%s - %s)", title, company, w.StartDate, w.EndLabel())
		if len(w.Responsibilities) > 0 {
			b.WriteString("\n  Responsibilities: " + strings.Join(w.Responsibilities, "; "))
		}
		if len(w.Achievements) > 0 {
			b.WriteString("\n  Achievements: " + strings.Join(w.Achievements, "; "))
		}
		if len(w.Technologies) > 0 {
			b.WriteString("\n  Technologies: " + strings.Join(w.Technologies, ", "))
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// FormatSkills joins skill names with commas.
func FormatSkills(in []profiles.Skill) string {
	names := make([]string, 0, len(in))
	for _, s := range in {
		if n := strings.TrimSpace(s.Name); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return "Not specified"
	}
	return strings.Join(names, ", ")
}

// FormatEducation renders "- Degree in Field, Institution (Year)" lines.
func FormatEducation(in []profiles.Education) string {
	if len(in) == 0 {
		return "No education provided"
	}
	lines := make([]string, 0, len(in))
	for _, e := range in {
		line := fmt.Sprintf("- %s in %s, %s", e.Degree, e.FieldOfStudy, e.Institution)
		if e.EndYear != "" {
			line += " (" + e.EndYear + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// FormatCertifications renders "- Name (Issuer)" lines.
func FormatCertifications(in []profiles.Certification) string {
	if len(in) == 0 {
		return "No certifications"
	}
	lines := make([]string, 0, len(in))
	for _, c := range in {
		line := "- " + c.Name
		if c.IssuingOrganization != "" {
			line += " (" + c.IssuingOrganization + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func formatMerged(in []render.Experience) string {
	if len(in) == 0 {
		return "No work experience provided"
	}
	blocks := make([]string, 0, len(in))
	for _, e := range in {
		var b strings.Builder
		fmt.Fprintf(&b, "- %s at %s (%s)", e.Title, e.Company, e.DateRange())
		for _, bullet := range e.Bullets {
			b.WriteString("\n  * " + bullet)
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
