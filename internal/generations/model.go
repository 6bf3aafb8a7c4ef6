package generations

import (
	"time"

	"resume-vault/internal/resume"
)

// Format is the kind of source stored in a version.
type Format string

const (
	FormatHTML  Format = "html"
	FormatLaTeX Format = "latex"
	// FormatPDF content is base64-encoded PDF bytes.
	FormatPDF Format = "pdf"
)

// ATSScores are the heuristic scores attached to a version.
type ATSScores struct {
	Resume      int `json:"resume"`
	CoverLetter int `json:"coverLetter"`
}

// Version is one immutable rendering of a generation.
type Version struct {
	VersionNumber   int                   `json:"versionNumber"`
	CreatedAt       time.Time             `json:"createdAt"`
	Format          Format                `json:"format"`
	Content         string                `json:"content"`
	CoverLetter     string                `json:"coverLetter"`
	CoverLetterHTML string                `json:"coverLetterHtml"`
	TailoredData    resume.TailoredResume `json:"tailoredData"`
	ATSScores       ATSScores             `json:"atsScores"`
	IsEdited        bool                  `json:"isEdited"`
	// EditedContent is the full editable state the version was rendered
	// from. Nil for versions rendered straight from the provider's output.
	EditedContent *resume.EditableContent `json:"editedContent,omitempty"`
}

// Generation is the append-only version history for one job application.
type Generation struct {
	JobApplicationID string            `json:"jobApplicationId"`
	UserID           string            `json:"userId"`
	JobInfo          resume.JobPosting `json:"jobInfo"`
	Versions         []Version         `json:"versions"`
	CurrentVersion   int               `json:"currentVersion"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// Version returns version n, or the current version when n is zero.
func (g Generation) Version(n int) (Version, bool) {
	if n == 0 {
		n = g.CurrentVersion
	}
	if n < 1 || n > len(g.Versions) {
		return Version{}, false
	}
	v := g.Versions[n-1]
	return v, v.VersionNumber == n
}

// Summary is the list view of a generation.
type Summary struct {
	JobApplicationID string    `json:"jobApplicationId"`
	CompanyName      string    `json:"companyName"`
	Position         string    `json:"position"`
	CurrentVersion   int       `json:"currentVersion"`
	TotalVersions    int       `json:"totalVersions"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func summarize(g Generation) Summary {
	return Summary{
		JobApplicationID: g.JobApplicationID,
		CompanyName:      g.JobInfo.CompanyName,
		Position:         g.JobInfo.Position,
		CurrentVersion:   g.CurrentVersion,
		TotalVersions:    len(g.Versions),
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
	}
}
