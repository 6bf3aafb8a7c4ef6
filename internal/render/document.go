package render

import (
	"fmt"
	"strings"

	"resume-vault/internal/profiles"
	"resume-vault/internal/resume"
)

// Document is the typed field set every rendering strategy fills its
// template from.
type Document struct {
	Name      string
	Headline  string
	Email     string
	Phone     string
	Location  string
	LinkedIn  string
	Portfolio string

	Summary        string
	Experiences    []Experience
	SkillLines     []string
	Education      []EducationEntry
	Certifications []string
}

// EducationEntry is one education line. Raw overrides the structured fields
// once a user has edited the section.
type EducationEntry struct {
	Institution  string
	Degree       string
	FieldOfStudy string
	Years        string
	Grade        string
	Raw          string
}

// Text renders "Degree in Field, Institution (Years)".
func (e EducationEntry) Text() string {
	if e.Raw != "" {
		return e.Raw
	}
	degree := e.Degree
	if e.FieldOfStudy != "" {
		if degree != "" {
			degree += " in " + e.FieldOfStudy
		} else {
			degree = e.FieldOfStudy
		}
	}
	out := joinNonEmpty(", ", degree, e.Institution)
	if e.Years != "" {
		out += " (" + e.Years + ")"
	}
	return out
}

// ContactParts lists the non-empty contact fields in display order.
func (d Document) ContactParts() []string {
	parts := make([]string, 0, 5)
	for _, p := range []string{d.Location, d.Email, d.Phone, d.LinkedIn, d.Portfolio} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// BuildDocument merges a profile with tailored content. Tailored content may
// be empty, in which case the profile is rendered as is.
func BuildDocument(p profiles.Profile, tailored resume.TailoredResume, strategy MergeStrategy) Document {
	summary := strings.TrimSpace(tailored.TailoredSummary)
	if summary == "" {
		summary = strings.TrimSpace(p.Summary)
	}
	info := p.PersonalInfo
	return Document{
		Name:           info.FullName(),
		Headline:       strings.TrimSpace(p.ProfessionalHeadline),
		Email:          strings.TrimSpace(info.Email),
		Phone:          strings.TrimSpace(info.Phone),
		Location:       info.Location.String(),
		LinkedIn:       strings.TrimSpace(info.LinkedInURL),
		Portfolio:      strings.TrimSpace(info.PortfolioURL),
		Summary:        summary,
		Experiences:    MergeExperiences(p.WorkExperience, tailored.TailoredExperience, strategy),
		SkillLines:     skillLines(p.Skills),
		Education:      educationEntries(p.Education),
		Certifications: certificationLines(p.Certifications),
	}
}

// ApplyEdits overlays user edits on a document. Empty edit fields leave the
// document untouched; experiences are matched by position.
func ApplyEdits(d Document, edits resume.EditableContent) Document {
	if s := strings.TrimSpace(edits.Summary); s != "" {
		d.Summary = s
	}
	exps := append([]Experience(nil), d.Experiences...)
	for i, e := range edits.Experiences {
		if i >= len(exps) {
			break
		}
		if s := strings.TrimSpace(e.JobTitle); s != "" {
			exps[i].Title = s
		}
		if s := strings.TrimSpace(e.Company); s != "" {
			exps[i].Company = s
		}
		if bullets := nonEmpty(e.Bullets); len(bullets) > 0 {
			exps[i].Bullets = bullets
		}
	}
	d.Experiences = exps
	if lines := splitLines(edits.Skills); len(lines) > 0 {
		d.SkillLines = lines
	}
	if lines := splitLines(edits.Education); len(lines) > 0 {
		entries := make([]EducationEntry, len(lines))
		for i, l := range lines {
			entries[i] = EducationEntry{Raw: l}
		}
		d.Education = entries
	}
	return d
}

// skillLines groups skills by category in order of first appearance:
// "Languages: Go, Python". Without any categories the names form one line.
func skillLines(skills []profiles.Skill) []string {
	var (
		order  []string
		groups = make(map[string][]string)
		anyCat bool
	)
	for _, s := range skills {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		cat := strings.TrimSpace(s.Category)
		if cat != "" {
			anyCat = true
		}
		if _, ok := groups[cat]; !ok {
			order = append(order, cat)
		}
		groups[cat] = append(groups[cat], name)
	}
	if len(order) == 0 {
		return nil
	}
	if !anyCat {
		return []string{strings.Join(groups[""], ", ")}
	}
	lines := make([]string, 0, len(order))
	for _, cat := range order {
		label := cat
		if label == "" {
			label = "Other"
		}
		lines = append(lines, label+": "+strings.Join(groups[cat], ", "))
	}
	return lines
}

// SkillNames flattens skill lines back to names, dropping category labels.
func (d Document) SkillNames() []string {
	var names []string
	for _, line := range d.SkillLines {
		if _, items, ok := strings.Cut(line, ": "); ok {
			line = items
		}
		for _, n := range strings.Split(line, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
	}
	return names
}

func educationEntries(in []profiles.Education) []EducationEntry {
	out := make([]EducationEntry, 0, len(in))
	for _, e := range in {
		years := e.EndYear
		if e.StartYear != "" && e.EndYear != "" {
			years = e.StartYear + " - " + e.EndYear
		}
		out = append(out, EducationEntry{
			Institution:  strings.TrimSpace(e.Institution),
			Degree:       strings.TrimSpace(e.Degree),
			FieldOfStudy: strings.TrimSpace(e.FieldOfStudy),
			Years:        strings.TrimSpace(years),
			Grade:        strings.TrimSpace(e.Grade),
		})
	}
	return out
}

func certificationLines(in []profiles.Certification) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		line := strings.TrimSpace(c.Name)
		if line == "" {
			continue
		}
		if org := strings.TrimSpace(c.IssuingOrganization); org != "" {
			line = fmt.Sprintf("%s (%s)", line, org)
		}
		if d := strings.TrimSpace(c.IssueDate); d != "" {
			line += " - " + d
		}
		out = append(out, line)
	}
	return out
}

func splitLines(s string) []string {
	return nonEmpty(strings.Split(s, "\n"))
}

func joinNonEmpty(sep string, parts ...string) string {
	return strings.Join(nonEmpty(parts), sep)
}
