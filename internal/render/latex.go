package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

var latexTemplate = template.Must(template.New("resume.tex.tmpl").
	Delims("[[", "]]").
	Funcs(template.FuncMap{
		"esc":         EscapeLaTeX,
		"contactLine": latexContactLine,
		"skillLaTeX":  latexSkillLine,
		"degreeText":  degreeText,
	}).
	ParseFS(templateFiles, "templates/resume.tex.tmpl"))

// RenderLaTeX renders the LaTeX resume source. Every user-supplied value is
// escaped inside the template.
func RenderLaTeX(d Document) (string, error) {
	var buf bytes.Buffer
	if err := latexTemplate.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("render latex: %w", err)
	}
	return buf.String(), nil
}

func latexContactLine(d Document) string {
	parts := make([]string, 0, 5)
	for _, p := range d.ContactParts() {
		switch {
		case strings.HasPrefix(p, "http://"), strings.HasPrefix(p, "https://"):
			parts = append(parts, `\href{`+latexURL(p)+`}{\underline{`+EscapeLaTeX(p)+`}}`)
		case strings.Contains(p, "@") && !strings.ContainsAny(p, " \t"):
			parts = append(parts, `\href{mailto:`+latexURL(p)+`}{\underline{`+EscapeLaTeX(p)+`}}`)
		default:
			parts = append(parts, EscapeLaTeX(p))
		}
	}
	return strings.Join(parts, ` $|$ `)
}

// latexURL escapes only what hyperref cannot take verbatim in a link target.
func latexURL(u string) string {
	return strings.NewReplacer(`\`, ``, `%`, `\%`, `#`, `\#`, `{`, ``, `}`, ``).Replace(u)
}

func latexSkillLine(line string) string {
	s := splitSkill(line)
	if s.Label == "" {
		return EscapeLaTeX(s.Items)
	}
	return `\textbf{` + EscapeLaTeX(s.Label) + `}{: ` + EscapeLaTeX(s.Items) + `}`
}

func degreeText(e EducationEntry) string {
	if e.FieldOfStudy == "" {
		return e.Degree
	}
	if e.Degree == "" {
		return e.FieldOfStudy
	}
	return e.Degree + " in " + e.FieldOfStudy
}
