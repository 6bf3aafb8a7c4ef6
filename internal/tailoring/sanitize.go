package tailoring

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html/atom"

	"resume-vault/internal/resume"
)

// Sanitizer strips markup from user supplied text. Only real HTML elements
// count as markup: "List<String>" or "a < b" come through unchanged. Output
// is plain text; every renderer escapes for its own target format.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer returns a Sanitizer backed by bluemonday's strict policy.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// String removes tags and decodes the entities the policy introduced.
func (s *Sanitizer) String(in string) string {
	if in == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(escapeText(in))))
}

// escapeText escapes every '&' and every '<' that does not open an HTML
// element, comment or declaration, so the policy reads them as text.
func escapeText(in string) string {
	var b strings.Builder
	b.Grow(len(in))
	for i := 0; i < len(in); i++ {
		switch {
		case in[i] == '&':
			b.WriteString("&amp;")
		case in[i] == '<' && !opensMarkup(in[i+1:]):
			b.WriteString("&lt;")
		default:
			b.WriteByte(in[i])
		}
	}
	return b.String()
}

// opensMarkup reports whether rest, the text after a '<', starts a closed tag
// for a known lowercase element name.
func opensMarkup(rest string) bool {
	if !strings.Contains(rest, ">") {
		return false
	}
	if strings.HasPrefix(rest, "!") {
		return true
	}
	rest = strings.TrimPrefix(rest, "/")
	end := strings.IndexFunc(rest, func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
	if end < 0 {
		end = len(rest)
	}
	if end == 0 {
		return false
	}
	if end < len(rest) && !strings.ContainsRune(" \t\r\n/>", rune(rest[end])) {
		return false
	}
	return atom.Lookup([]byte(rest[:end])) != 0
}

// Job sanitizes every free-text field of a job posting.
func (s *Sanitizer) Job(j resume.JobPosting) resume.JobPosting {
	return resume.JobPosting{
		CompanyName:    s.String(j.CompanyName),
		Position:       s.String(j.Position),
		JobID:          s.String(j.JobID),
		PostingLink:    strings.TrimSpace(j.PostingLink),
		JobDescription: s.String(j.JobDescription),
	}
}

// Edits sanitizes user edits. Line breaks in skills and education survive.
func (s *Sanitizer) Edits(e resume.EditableContent) resume.EditableContent {
	out := resume.EditableContent{
		Summary:   s.String(e.Summary),
		Skills:    s.lines(e.Skills),
		Education: s.lines(e.Education),
	}
	for _, exp := range e.Experiences {
		clean := resume.EditableExperience{
			JobTitle: s.String(exp.JobTitle),
			Company:  s.String(exp.Company),
			Bullets:  make([]string, 0, len(exp.Bullets)),
		}
		for _, b := range exp.Bullets {
			if b = s.String(b); b != "" {
				clean.Bullets = append(clean.Bullets, b)
			}
		}
		out.Experiences = append(out.Experiences, clean)
	}
	return out
}

func (s *Sanitizer) lines(in string) string {
	parts := strings.Split(strings.ReplaceAll(in, "\r\n", "\n"), "\n")
	out := parts[:0]
	for _, p := range parts {
		if p = s.String(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}
