// Package extractor reads generated resume HTML back into editable fields.
// It never fails: malformed or unmarked documents yield empty fields.
package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"resume-vault/internal/resume"
)

const (
	unknownPosition = "Unknown Position"
	unknownCompany  = "Unknown Company"
)

var (
	summaryLabel   = regexp.MustCompile(`(?i)^(Professional\s+)?Summary:\s*`)
	skillsLabel    = regexp.MustCompile(`(?i)^Skills:\s*`)
	educationLabel = regexp.MustCompile(`(?i)^Education:\s*`)
	companyClass   = regexp.MustCompile(`company|info|meta`)
	lineBreaks     = regexp.MustCompile(`\s*\n\s*`)
)

// Extract returns the editable content of an HTML resume. Sections are found
// by their data-section markers; without markers the first paragraph is the
// summary and every list item becomes a bullet of a single experience.
func Extract(html string) resume.EditableContent {
	out := resume.EditableContent{Experiences: []resume.EditableExperience{}}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return out
	}
	if doc.Find("[data-section]").Length() == 0 {
		return positional(doc)
	}

	if s := doc.Find(`[data-section="summary"]`).First(); s.Length() > 0 {
		out.Summary = sectionText(s, summaryLabel, text)
	}
	if s := doc.Find(`[data-section="skills"]`).First(); s.Length() > 0 {
		out.Skills = sectionText(s, skillsLabel, lines)
	}
	if s := doc.Find(`[data-section="education"]`).First(); s.Length() > 0 {
		out.Education = sectionText(s, educationLabel, lines)
	}
	doc.Find(`[data-section="experience"]`).Each(func(_ int, s *goquery.Selection) {
		s.Find(headingSelector).Remove()
		out.Experiences = append(out.Experiences, experience(s))
	})
	return out
}

const headingSelector = "h1, h2, .section-title"

// sectionText reads a marked section. Only a section carrying its own
// heading may repeat that heading as a "Label:" prefix; the heading and the
// prefix are dropped. Sections without a heading are returned verbatim.
func sectionText(s *goquery.Selection, label *regexp.Regexp, read func(*goquery.Selection) string) string {
	headings := s.Find(headingSelector)
	if headings.Length() == 0 {
		return read(s)
	}
	headings.Remove()
	return label.ReplaceAllString(read(s), "")
}

func experience(s *goquery.Selection) resume.EditableExperience {
	exp := resume.EditableExperience{JobTitle: unknownPosition, Company: unknownCompany, Bullets: []string{}}
	if title := text(s.Find("h3, h4, strong").First()); title != "" {
		exp.JobTitle = title
	}

	info := s.Find("*").FilterFunction(func(_ int, el *goquery.Selection) bool {
		class, _ := el.Attr("class")
		return companyClass.MatchString(class)
	}).First()
	if info.Length() == 0 {
		info = s.Find("p").First()
	}
	if company := companyName(text(info)); company != "" {
		exp.Company = company
	}

	if items := s.Find("ul li"); items.Length() > 0 {
		items.Each(func(_ int, li *goquery.Selection) {
			if t := text(li); t != "" {
				exp.Bullets = append(exp.Bullets, t)
			}
		})
		return exp
	}
	s.Find("p").Each(func(i int, p *goquery.Selection) {
		if i == 0 {
			return
		}
		if t := text(p); t != "" && !strings.HasPrefix(t, exp.Company) {
			exp.Bullets = append(exp.Bullets, t)
		}
	})
	return exp
}

// companyName takes the part before "|" or, failing that, before ",".
func companyName(info string) string {
	if head, _, ok := strings.Cut(info, "|"); ok {
		return strings.TrimSpace(head)
	}
	head, _, _ := strings.Cut(info, ",")
	return strings.TrimSpace(head)
}

func positional(doc *goquery.Document) resume.EditableContent {
	out := resume.EditableContent{Experiences: []resume.EditableExperience{}}
	out.Summary = text(doc.Find("p").First())

	var bullets []string
	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		if t := text(li); t != "" {
			bullets = append(bullets, t)
		}
	})
	if len(bullets) > 0 {
		out.Experiences = append(out.Experiences, resume.EditableExperience{
			JobTitle: unknownPosition,
			Company:  unknownCompany,
			Bullets:  bullets,
		})
	}
	return out
}

// lines joins the text of each paragraph or list item on its own line, or
// returns the container text when it has neither.
func lines(s *goquery.Selection) string {
	parts := []string{}
	s.Find("p, li").Each(func(_ int, el *goquery.Selection) {
		if t := text(el); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		return text(s)
	}
	return strings.Join(parts, "\n")
}

func text(s *goquery.Selection) string {
	return strings.TrimSpace(lineBreaks.ReplaceAllString(s.Text(), " "))
}

// PlainText returns the visible text of a document, one block per line.
func PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("head, style, script").Remove()
	doc.Find("p, li, div, h1, h2, h3, h4, h5, h6, tr, br").BeforeHtml("\n").AfterHtml("\n")

	var out []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
