package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"resume-vault/internal/profiles"
	"resume-vault/internal/resume"
)

func sampleProfile() profiles.Profile {
	return profiles.Profile{
		PersonalInfo: profiles.PersonalInfo{
			FirstName:   "Ada",
			LastName:    "Lovelace",
			Email:       "ada@example.com",
			Phone:       "+44 1234",
			Location:    profiles.Location{City: "London", Country: "UK"},
			LinkedInURL: "https://linkedin.com/in/ada",
		},
		ProfessionalHeadline: "Analytical Engineer",
		Summary:              "Original summary.",
		WorkExperience: []profiles.WorkExperience{
			{JobTitle: "Lead Analyst", CompanyName: "Babbage & Co", Location: "London", StartDate: "1842", CurrentlyWorking: true,
				Responsibilities: []string{"Wrote the first algorithm", "Documented 100% of the engine"}},
			{JobTitle: "Translator", CompanyName: "Menabrea", StartDate: "1840", EndDate: "1842",
				Responsibilities: []string{"Translated notes"}},
		},
		Education: []profiles.Education{
			{Institution: "Home School", Degree: "Private tutoring", FieldOfStudy: "Mathematics", StartYear: "1830", EndYear: "1835"},
		},
		Skills: []profiles.Skill{
			{Name: "Mathematics", Category: "Core"},
			{Name: "Algorithms", Category: "Core"},
			{Name: "French"},
		},
		Certifications: []profiles.Certification{{Name: "Royal Society", IssuingOrganization: "RS", IssueDate: "1843"}},
	}
}

func sampleTailored() resume.TailoredResume {
	return resume.TailoredResume{
		TailoredSummary: "Tailored <summary> for the role & team.",
		TailoredExperience: []resume.TailoredExperience{
			{JobTitle: "Lead Analyst", CompanyName: "Babbage & Co", TailoredBullets: []string{"Designed the Bernoulli program", "Cut errors by 50%"}},
		},
		KeywordMatches: []string{"algorithms"},
	}
}

func TestBuildDocument(t *testing.T) {
	d := BuildDocument(sampleProfile(), sampleTailored(), MergePositional)
	if d.Name != "Ada Lovelace" || d.Location != "London, UK" {
		t.Fatalf("unexpected header: %+v", d)
	}
	if d.Summary != "Tailored <summary> for the role & team." {
		t.Fatalf("expected tailored summary, got %q", d.Summary)
	}
	if got := strings.Join(d.SkillLines, "|"); got != "Core: Mathematics, Algorithms|Other: French" {
		t.Fatalf("unexpected skill lines %q", got)
	}
	if got := d.Education[0].Text(); got != "Private tutoring in Mathematics, Home School (1830 - 1835)" {
		t.Fatalf("unexpected education %q", got)
	}
	if d.Certifications[0] != "Royal Society (RS) - 1843" {
		t.Fatalf("unexpected certification %q", d.Certifications[0])
	}
	if len(d.Experiences) != 2 || d.Experiences[1].Bullets[0] != "Translated notes" {
		t.Fatalf("unexpected experiences %+v", d.Experiences)
	}
}

func TestBuildDocumentFallsBackToProfileSummary(t *testing.T) {
	d := BuildDocument(sampleProfile(), resume.TailoredResume{}, MergePositional)
	if d.Summary != "Original summary." {
		t.Fatalf("expected profile summary, got %q", d.Summary)
	}
}

func TestApplyEdits(t *testing.T) {
	d := BuildDocument(sampleProfile(), sampleTailored(), MergePositional)
	edited := ApplyEdits(d, resume.EditableContent{
		Summary: " New summary ",
		Experiences: []resume.EditableExperience{
			{Bullets: []string{"Edited bullet"}},
			{JobTitle: "Senior Translator"},
			{JobTitle: "Ignored extra"},
		},
		Skills:    "Core: Go\nTools: Git",
		Education: "BSc Maths",
	})
	if edited.Summary != "New summary" {
		t.Fatalf("summary = %q", edited.Summary)
	}
	if edited.Experiences[0].Bullets[0] != "Edited bullet" || edited.Experiences[0].Title != "Lead Analyst" {
		t.Fatalf("unexpected first experience %+v", edited.Experiences[0])
	}
	if edited.Experiences[1].Title != "Senior Translator" || edited.Experiences[1].Bullets[0] != "Translated notes" {
		t.Fatalf("unexpected second experience %+v", edited.Experiences[1])
	}
	if len(edited.Experiences) != 2 {
		t.Fatalf("edits must not add experiences")
	}
	if len(edited.SkillLines) != 2 || edited.Education[0].Text() != "BSc Maths" {
		t.Fatalf("unexpected skills/education: %v %v", edited.SkillLines, edited.Education)
	}
	if d.Experiences[0].Bullets[0] != "Designed the Bernoulli program" {
		t.Fatalf("ApplyEdits mutated its input")
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML(BuildDocument(sampleProfile(), sampleTailored(), MergePositional))
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	for _, want := range []string{
		`data-section="summary"`,
		`data-section="experience"`,
		`data-section="skills"`,
		`data-section="education"`,
		`Tailored &lt;summary&gt; for the role &amp; team.`,
		`<strong>Core:</strong> Mathematics, Algorithms`,
		`Babbage &amp; Co | 1842 - Present | London`,
		`<a href="mailto:ada@example.com">ada@example.com</a>`,
		`<li>Cut errors by 50%</li>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("html missing %q:\n%s", want, html)
		}
	}
}

func TestRenderHTMLIsDeterministic(t *testing.T) {
	d := BuildDocument(sampleProfile(), sampleTailored(), MergePositional)
	a, _ := RenderHTML(d)
	b, _ := RenderHTML(d)
	if a != b {
		t.Fatalf("expected identical output")
	}
}

func TestRenderLaTeX(t *testing.T) {
	tex, err := RenderLaTeX(BuildDocument(sampleProfile(), sampleTailored(), MergePositional))
	if err != nil {
		t.Fatalf("RenderLaTeX: %v", err)
	}
	for _, want := range []string{
		`\documentclass`,
		`\textbf{\Huge \scshape Ada Lovelace}`,
		`{Babbage \& Co}{London}`,
		`\resumeItem{Cut errors by 50\%}`,
		`\textbf{Core}{: Mathematics, Algorithms}`,
		`\href{mailto:ada@example.com}`,
		`{Private tutoring in Mathematics}`,
		`\end{document}`,
	} {
		if !strings.Contains(tex, want) {
			t.Fatalf("latex missing %q:\n%s", want, tex)
		}
	}
	if strings.Contains(tex, "[[") {
		t.Fatalf("unrendered template action in output")
	}
}

func TestRenderFlatPDF(t *testing.T) {
	d := BuildDocument(sampleProfile(), sampleTailored(), MergePositional)
	a, err := RenderFlatPDF(d)
	if err != nil {
		t.Fatalf("RenderFlatPDF: %v", err)
	}
	if !bytes.HasPrefix(a, []byte("%PDF")) {
		t.Fatalf("expected PDF header")
	}
	b, _ := RenderFlatPDF(d)
	if !bytes.Equal(a, b) {
		t.Fatalf("expected identical bytes for identical input")
	}
}

func TestRenderCoverLetter(t *testing.T) {
	text := "Dear Hiring Manager,\n\nI am writing to apply.\nI like engines.\n\nSincerely,\nAda Lovelace"
	html, err := RenderCoverLetterHTML(text)
	if err != nil {
		t.Fatalf("RenderCoverLetterHTML: %v", err)
	}
	if !strings.Contains(html, `class="cover-letter"`) || !strings.Contains(html, "white-space: pre-wrap") {
		t.Fatalf("unexpected wrapper: %s", html)
	}

	pdf, err := RenderCoverLetterPDF(CoverLetter{
		Name: "Ada Lovelace", Company: "Acme", Position: "Engineer", Text: text,
		Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("RenderCoverLetterPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("expected PDF header")
	}
}

func TestParagraphs(t *testing.T) {
	got := Paragraphs("Dear X,\r\n\r\nLine one\nline two\n\n\nSincerely,\nAda")
	want := []string{"Dear X,", "Line one\nline two", "Sincerely,\nAda"}
	if len(got) != len(want) {
		t.Fatalf("got %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("paragraph %d = %q, want %q", i, got[i], want[i])
		}
	}
}
