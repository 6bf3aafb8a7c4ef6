package tailoring

import (
	"strings"

	"resume-vault/internal/generations"
	"resume-vault/internal/resume"
)

// Strategy selects how a tailored resume is turned into a document.
type Strategy string

const (
	StrategyTemplateHTML Strategy = "template_html"
	StrategyAIHTML       Strategy = "ai_html"
	StrategyLaTeX        Strategy = "latex"
	StrategyFlatPDF      Strategy = "flat_pdf"
)

// ParseStrategy returns the named strategy, defaulting to template_html.
func ParseStrategy(s string) Strategy {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyAIHTML:
		return StrategyAIHTML
	case StrategyLaTeX:
		return StrategyLaTeX
	case StrategyFlatPDF:
		return StrategyFlatPDF
	default:
		return StrategyTemplateHTML
	}
}

// GenerateInput is a request to tailor the caller's profile for a job.
type GenerateInput struct {
	Job        resume.JobPosting
	IncludePDF bool
	RequestID  string
}

// GenerateResult is the first version of a new generation.
type GenerateResult struct {
	JobApplicationID string                `json:"jobApplicationId"`
	VersionNumber    int                   `json:"versionNumber"`
	Format           generations.Format    `json:"format"`
	Content          string                `json:"content"`
	CoverLetter      string                `json:"coverLetter"`
	CoverLetterHTML  string                `json:"coverLetterHtml"`
	PDFBase64        string                `json:"pdfBase64,omitempty"`
	ATSScores        generations.ATSScores `json:"atsScores"`
	TailoredData     resume.TailoredResume `json:"tailoredData"`
}

// RegenerateResult is the version appended by an edit.
type RegenerateResult struct {
	JobApplicationID string                `json:"jobApplicationId"`
	VersionNumber    int                   `json:"versionNumber"`
	Format           generations.Format    `json:"format"`
	Content          string                `json:"content"`
	ATSScores        generations.ATSScores `json:"atsScores"`
	IsEdited         bool                  `json:"isEdited"`
}

// GenerationView is a generation plus the version the caller asked for.
type GenerationView struct {
	generations.Generation
	SelectedVersion generations.Version `json:"selectedVersion"`
}

// PDFFile is a compiled document ready for download.
type PDFFile struct {
	FileName string
	Data     []byte
}
