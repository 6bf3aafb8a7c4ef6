package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resume-vault/internal/pdfcompile"
	"resume-vault/internal/profiles"
	"resume-vault/internal/render"
	"resume-vault/internal/resume"
)

func main() {
	outDir := flag.String("out", "./out", "directory for rendered files")
	profilePath := flag.String("profile", "", "profile JSON to render (optional; defaults to a built-in sample)")
	merge := flag.String("merge", "positional", "experience merge strategy: positional or title_company")
	flag.Parse()

	profile := sampleProfile()
	if strings.TrimSpace(*profilePath) != "" {
		raw, err := os.ReadFile(*profilePath)
		if err != nil {
			exitErr(fmt.Sprintf("read profile: %v", err))
		}
		if err := json.Unmarshal(raw, &profile); err != nil {
			exitErr(fmt.Sprintf("decode profile: %v", err))
		}
		profile.Normalize()
	}

	tailored := render.ClampTailored(sampleTailored(), len(profile.WorkExperience))
	doc := render.BuildDocument(profile, tailored, render.ParseMergeStrategy(*merge))

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		exitErr(err.Error())
	}

	html, err := render.RenderHTML(doc)
	if err != nil {
		exitErr(fmt.Sprintf("render html: %v", err))
	}
	tex, err := render.RenderLaTeX(doc)
	if err != nil {
		exitErr(fmt.Sprintf("render latex: %v", err))
	}
	flat, err := render.RenderFlatPDF(doc)
	if err != nil {
		exitErr(fmt.Sprintf("render pdf: %v", err))
	}
	letter, err := render.RenderCoverLetterPDF(render.CoverLetter{
		Name:     profile.PersonalInfo.FullName(),
		Email:    profile.PersonalInfo.Email,
		Phone:    profile.PersonalInfo.Phone,
		Location: profile.PersonalInfo.Location.String(),
		Company:  "Acme Logistics",
		Position: "Staff Backend Engineer",
		Text:     sampleCoverLetter,
		Date:     time.Now(),
	})
	if err != nil {
		exitErr(fmt.Sprintf("render cover letter: %v", err))
	}

	outputs := map[string][]byte{
		"resume.html":      []byte(html),
		"resume.tex":       []byte(tex),
		"resume.pdf":       flat,
		"cover_letter.pdf": letter,
	}
	for name, data := range outputs {
		if err := os.WriteFile(filepath.Join(*outDir, name), data, 0o644); err != nil {
			exitErr(fmt.Sprintf("write %s: %v", name, err))
		}
	}

	if err := validatePDF(flat, profile.PersonalInfo.FullName()); err != nil {
		exitErr(fmt.Sprintf("render validation failed: %v", err))
	}

	fmt.Printf("OK: wrote %d files to %s\n", len(outputs), *outDir)
}

// validatePDF checks that the flat PDF parses and carries the candidate name.
func validatePDF(data []byte, name string) error {
	if err := pdfcompile.Verify(data); err != nil {
		return err
	}
	text, err := pdfcompile.Text(data)
	if err != nil {
		return err
	}
	if name != "" && !strings.Contains(text, name) {
		return fmt.Errorf("name %q not found in rendered text", name)
	}
	return nil
}

const sampleCoverLetter = `Dear Hiring Manager,

I am excited to apply for the Staff Backend Engineer role at Acme Logistics. Over eight years I have built resilient Go services and data pipelines.

I would welcome the chance to discuss how I can help your platform team.

Sincerely,
Jordan Lee`

func sampleProfile() profiles.Profile {
	return profiles.Profile{
		PersonalInfo: profiles.PersonalInfo{
			FirstName:   "Jordan",
			LastName:    "Lee",
			Email:       "jordan.lee@example.com",
			Phone:       "+1-555-0102",
			Location:    profiles.Location{City: "Austin", Country: "USA"},
			LinkedInURL: "https://www.linkedin.com/in/jordanlee",
		},
		ProfessionalHeadline: "Senior Backend Engineer",
		Summary:              "Backend engineer with 8+ years of experience building resilient APIs and data services.",
		WorkExperience: []profiles.WorkExperience{
			{
				JobTitle:         "Senior Backend Engineer",
				CompanyName:      "Blue Harbor Systems",
				StartDate:        "2021-04",
				CurrentlyWorking: true,
				Responsibilities: []string{"Designed a routing service that reduced shipment latency by 18%."},
			},
			{
				JobTitle:         "Backend Engineer",
				CompanyName:      "Northwind & Partners",
				StartDate:        "2018-01",
				EndDate:          "2021-03",
				Responsibilities: []string{"Built event-driven ingestion pipelines for compliance data feeds."},
			},
		},
		Education: []profiles.Education{
			{Institution: "University of Texas", Degree: "BSc", FieldOfStudy: "Computer Science", EndYear: "2017"},
		},
		Skills: []profiles.Skill{
			{Name: "Go", Category: "Languages"},
			{Name: "PostgreSQL", Category: "Databases"},
			{Name: "AWS", Category: "Cloud"},
		},
	}
}

func sampleTailored() resume.TailoredResume {
	return resume.TailoredResume{
		TailoredSummary: "Go backend engineer who ships reliable logistics platforms on AWS.",
		TailoredExperience: []resume.TailoredExperience{
			{
				JobTitle:        "Senior Backend Engineer",
				CompanyName:     "Blue Harbor Systems",
				TailoredBullets: []string{"Cut shipment routing latency 18% with a Go service on AWS.", "Introduced tracing that halved incident triage time."},
			},
			{
				JobTitle:        "Backend Engineer",
				CompanyName:     "Northwind & Partners",
				TailoredBullets: []string{"Built PostgreSQL-backed ingestion for compliance feeds."},
			},
		},
		KeywordMatches: []string{"go", "aws", "postgresql", "logistics"},
	}
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
