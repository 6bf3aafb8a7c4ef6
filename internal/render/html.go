package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

var htmlTemplates = template.Must(template.New("html").Funcs(template.FuncMap{
	"splitSkill": splitSkill,
	"contact":    contactHTML,
}).ParseFS(templateFiles, "templates/*.html.tmpl"))

type skillLine struct {
	Label string
	Items string
}

// splitSkill separates "Label: a, b" into its label and items.
func splitSkill(line string) skillLine {
	if label, items, ok := strings.Cut(line, ": "); ok {
		return skillLine{Label: label, Items: items}
	}
	return skillLine{Items: line}
}

// contactHTML links e-mail addresses and URLs; everything else is plain text.
func contactHTML(part string) template.HTML {
	esc := template.HTMLEscapeString(part)
	switch {
	case strings.HasPrefix(part, "http://"), strings.HasPrefix(part, "https://"):
		return template.HTML(`<a href="` + esc + `">` + esc + `</a>`)
	case strings.Contains(part, "@") && !strings.ContainsAny(part, " \t"):
		return template.HTML(`<a href="mailto:` + esc + `">` + esc + `</a>`)
	default:
		return template.HTML(esc)
	}
}

// RenderHTML renders the print-ready HTML resume. Content containers carry
// data-section markers so the extractor can read the document back.
func RenderHTML(d Document) (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&buf, "resume.html.tmpl", d); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

// RenderCoverLetterHTML wraps cover letter text for display next to the resume.
func RenderCoverLetterHTML(text string) (string, error) {
	var buf bytes.Buffer
	data := struct{ Text string }{strings.TrimSpace(text)}
	if err := htmlTemplates.ExecuteTemplate(&buf, "cover_letter.html.tmpl", data); err != nil {
		return "", fmt.Errorf("render cover letter html: %w", err)
	}
	return buf.String(), nil
}
