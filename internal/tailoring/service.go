package tailoring

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"resume-vault/internal/ai"
	"resume-vault/internal/ats"
	"resume-vault/internal/extractor"
	"resume-vault/internal/generations"
	"resume-vault/internal/pdfcompile"
	"resume-vault/internal/profiles"
	"resume-vault/internal/queue"
	"resume-vault/internal/render"
	"resume-vault/internal/resume"
	"resume-vault/internal/shared/apperr"
	"resume-vault/internal/shared/metrics"
	"resume-vault/internal/shared/storage/object"
	"resume-vault/internal/shared/telemetry"
)

// ProfileSource loads the master profile a resume is tailored from.
type ProfileSource interface {
	Get(ctx context.Context, userID string) (profiles.Profile, error)
}

// Service orchestrates tailoring, rendering, scoring and version storage.
type Service struct {
	Profiles    ProfileSource
	Provider    ai.Provider
	Generations *generations.Service

	HTMLCompiler  pdfcompile.Compiler
	LaTeXCompiler pdfcompile.Compiler
	// Store caches compiled PDFs. Optional.
	Store object.ObjectStore
	// Queue receives PDF pre-render jobs. Optional.
	Queue queue.Client

	Strategy  Strategy
	Merge     render.MergeStrategy
	Sanitizer *Sanitizer
	Now       func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

var defaultSanitizer = NewSanitizer()

func (s *Service) sanitizer() *Sanitizer {
	if s.Sanitizer == nil {
		return defaultSanitizer
	}
	return s.Sanitizer
}

// Generate tailors the caller's profile for a job and stores version 1.
// Nothing is persisted when any step before the store fails.
func (s *Service) Generate(ctx context.Context, userID string, in GenerateInput) (GenerateResult, error) {
	start := time.Now()
	metrics.IncTailoringStarted()

	res, err := s.generate(ctx, userID, in)
	metrics.ObserveTailoringDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.IncTailoringFailed()
		telemetry.Error("tailoring.generate_failed", map[string]any{
			"request_id": in.RequestID,
			"user_id":    userID,
			"kind":       apperr.KindOf(err).String(),
			"error":      err.Error(),
		})
		return GenerateResult{}, err
	}
	metrics.IncTailoringCompleted()
	telemetry.Info("tailoring.generate_completed", map[string]any{
		"request_id":         in.RequestID,
		"user_id":            userID,
		"job_application_id": res.JobApplicationID,
		"format":             string(res.Format),
		"ats_resume":         res.ATSScores.Resume,
		"duration_ms":        time.Since(start).Milliseconds(),
	})
	return res, nil
}

func (s *Service) generate(ctx context.Context, userID string, in GenerateInput) (GenerateResult, error) {
	const op = "tailoring.Generate"
	job := s.sanitizer().Job(in.Job)
	if job.CompanyName == "" || job.Position == "" || len(job.JobDescription) < 10 {
		return GenerateResult{}, apperr.New(apperr.KindValidation, op, "company name, position and a job description of at least 10 characters are required")
	}

	profile, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		return GenerateResult{}, err
	}

	tailored, err := s.Provider.TailorResume(ctx, profile, job)
	if err != nil {
		return GenerateResult{}, err
	}
	tailored = render.ClampTailored(tailored, len(profile.WorkExperience))

	version, pdf, err := s.renderVersion(ctx, profile, tailored, job)
	if err != nil {
		return GenerateResult{}, err
	}

	cover, err := s.Provider.GenerateCoverLetter(ctx, profile, job, tailored)
	if err != nil {
		return GenerateResult{}, err
	}
	coverHTML, err := render.RenderCoverLetterHTML(cover)
	if err != nil {
		return GenerateResult{}, apperr.Wrap(apperr.KindInternal, op, err)
	}

	version.CoverLetter = cover
	version.CoverLetterHTML = coverHTML
	version.TailoredData = tailored
	version.ATSScores = generations.ATSScores{
		Resume:      ats.ResumeScore(len(tailored.KeywordMatches), len(tailored.TailoredExperience)),
		CoverLetter: ats.CoverLetterScore(cover, job.CompanyName, tailored.KeywordMatches),
	}

	if in.IncludePDF && pdf == nil {
		if pdf, err = s.compile(ctx, version); err != nil {
			return GenerateResult{}, err
		}
	}

	g, err := s.Generations.Create(ctx, userID, job, version)
	if err != nil {
		return GenerateResult{}, err
	}
	stored := g.Versions[0]

	if pdf != nil {
		s.cachePDF(ctx, userID, g.JobApplicationID, stored.VersionNumber, pdf)
	} else {
		s.enqueue(ctx, userID, g.JobApplicationID, stored.VersionNumber, in.RequestID)
	}

	res := GenerateResult{
		JobApplicationID: g.JobApplicationID,
		VersionNumber:    stored.VersionNumber,
		Format:           stored.Format,
		Content:          stored.Content,
		CoverLetter:      stored.CoverLetter,
		CoverLetterHTML:  stored.CoverLetterHTML,
		ATSScores:        stored.ATSScores,
		TailoredData:     stored.TailoredData,
	}
	if pdf != nil {
		res.PDFBase64 = base64.StdEncoding.EncodeToString(pdf)
	}
	return res, nil
}

// renderVersion produces the document for the configured strategy. The
// returned bytes are non-nil only when the strategy yields a PDF directly.
func (s *Service) renderVersion(ctx context.Context, profile profiles.Profile, tailored resume.TailoredResume, job resume.JobPosting) (generations.Version, []byte, error) {
	const op = "tailoring.render"
	doc := render.BuildDocument(profile, tailored, s.Merge)

	switch s.Strategy {
	case StrategyAIHTML:
		out, err := s.Provider.GenerateHTMLResume(ctx, profile, tailored, job)
		if err != nil {
			return generations.Version{}, nil, err
		}
		return generations.Version{Format: generations.FormatHTML, Content: out}, nil, nil
	case StrategyLaTeX:
		out, err := render.RenderLaTeX(doc)
		if err != nil {
			return generations.Version{}, nil, apperr.Wrap(apperr.KindInternal, op, err)
		}
		return generations.Version{Format: generations.FormatLaTeX, Content: out}, nil, nil
	case StrategyFlatPDF:
		pdf, err := render.RenderFlatPDF(doc)
		if err != nil {
			return generations.Version{}, nil, apperr.Wrap(apperr.KindInternal, op, err)
		}
		return generations.Version{Format: generations.FormatPDF, Content: base64.StdEncoding.EncodeToString(pdf)}, pdf, nil
	default:
		out, err := render.RenderHTML(doc)
		if err != nil {
			return generations.Version{}, nil, apperr.Wrap(apperr.KindInternal, op, err)
		}
		return generations.Version{Format: generations.FormatHTML, Content: out}, nil, nil
	}
}

// Regenerate applies user edits to the current version and appends the
// result as a new, edited version. Earlier versions are left untouched.
func (s *Service) Regenerate(ctx context.Context, userID, jobApplicationID string, edits resume.EditableContent) (RegenerateResult, error) {
	const op = "tailoring.Regenerate"
	edits = s.sanitizer().Edits(edits)
	if edits.Empty() {
		return RegenerateResult{}, apperr.New(apperr.KindValidation, op, "no edits provided")
	}

	g, cur, err := s.Generations.GetVersion(ctx, userID, jobApplicationID, 0)
	if err != nil {
		return RegenerateResult{}, err
	}

	var (
		content string
		state   *resume.EditableContent
	)
	if cur.Format == generations.FormatHTML && s.Strategy == StrategyAIHTML {
		content, err = s.Provider.RegenerateHTMLWithEdits(ctx, cur.Content, edits, g.JobInfo)
		if err != nil {
			return RegenerateResult{}, err
		}
	} else {
		profile, err := s.Profiles.Get(ctx, userID)
		if err != nil {
			return RegenerateResult{}, err
		}
		doc := render.BuildDocument(profile, cur.TailoredData, s.Merge)
		doc = render.ApplyEdits(render.ApplyEdits(doc, s.editableState(cur, profile)), edits)
		if content, err = renderFormat(cur.Format, doc); err != nil {
			return RegenerateResult{}, apperr.Wrap(apperr.KindInternal, op, err)
		}
		snapshot := editableFromDocument(doc)
		state = &snapshot
	}

	tailored := applyEditsToTailored(cur.TailoredData, edits)
	next := generations.Version{
		Format:          cur.Format,
		Content:         content,
		CoverLetter:     cur.CoverLetter,
		CoverLetterHTML: cur.CoverLetterHTML,
		TailoredData:    tailored,
		ATSScores: generations.ATSScores{
			Resume:      ats.ResumeScore(len(tailored.KeywordMatches), len(tailored.TailoredExperience)),
			CoverLetter: cur.ATSScores.CoverLetter,
		},
		EditedContent: state,
	}
	stored, err := s.Generations.AppendEdited(ctx, userID, jobApplicationID, next)
	if err != nil {
		return RegenerateResult{}, err
	}
	metrics.IncRegenerate()
	telemetry.Info("tailoring.regenerated", map[string]any{
		"user_id":            userID,
		"job_application_id": jobApplicationID,
		"version":            stored.VersionNumber,
		"format":             string(stored.Format),
	})
	s.enqueue(ctx, userID, jobApplicationID, stored.VersionNumber, "")

	return RegenerateResult{
		JobApplicationID: jobApplicationID,
		VersionNumber:    stored.VersionNumber,
		Format:           stored.Format,
		Content:          stored.Content,
		ATSScores:        stored.ATSScores,
		IsEdited:         stored.IsEdited,
	}, nil
}

func renderFormat(format generations.Format, doc render.Document) (string, error) {
	switch format {
	case generations.FormatLaTeX:
		return render.RenderLaTeX(doc)
	case generations.FormatPDF:
		pdf, err := render.RenderFlatPDF(doc)
		if err != nil {
			return "", err
		}
		return base64.StdEncoding.EncodeToString(pdf), nil
	default:
		return render.RenderHTML(doc)
	}
}

// applyEditsToTailored keeps the tailored data in step with edits for scoring
// and provider prompts. Experiences are matched by position and never
// extended past the existing entries.
func applyEditsToTailored(t resume.TailoredResume, edits resume.EditableContent) resume.TailoredResume {
	out := t
	if s := strings.TrimSpace(edits.Summary); s != "" {
		out.TailoredSummary = s
	}
	exps := append([]resume.TailoredExperience(nil), t.TailoredExperience...)
	for i, e := range edits.Experiences {
		if i >= len(exps) {
			break
		}
		if e.JobTitle != "" {
			exps[i].JobTitle = e.JobTitle
		}
		if e.Company != "" {
			exps[i].CompanyName = e.Company
		}
		if len(e.Bullets) > 0 {
			exps[i].TailoredBullets = append([]string(nil), e.Bullets...)
		}
	}
	out.TailoredExperience = exps
	return out
}

// Extract returns the editable content of a version (zero selects current).
// Edited versions return the state they were rendered from; unedited HTML is
// read back from its markup.
func (s *Service) Extract(ctx context.Context, userID, jobApplicationID string, version int) (resume.EditableContent, error) {
	_, v, err := s.Generations.GetVersion(ctx, userID, jobApplicationID, version)
	if err != nil {
		return resume.EditableContent{}, err
	}
	if v.Format == generations.FormatHTML || v.EditedContent != nil {
		return s.editableState(v, profiles.Profile{}), nil
	}

	profile, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		return resume.EditableContent{}, err
	}
	return s.editableState(v, profile), nil
}

// editableState is the full editable content version v was rendered from.
// profile is only read for unedited LaTeX and PDF versions.
func (s *Service) editableState(v generations.Version, profile profiles.Profile) resume.EditableContent {
	switch {
	case v.EditedContent != nil:
		return *v.EditedContent
	case v.Format == generations.FormatHTML:
		return extractor.Extract(v.Content)
	default:
		return editableFromDocument(render.BuildDocument(profile, v.TailoredData, s.Merge))
	}
}

func editableFromDocument(d render.Document) resume.EditableContent {
	out := resume.EditableContent{
		Summary:     d.Summary,
		Experiences: make([]resume.EditableExperience, 0, len(d.Experiences)),
		Skills:      strings.Join(d.SkillLines, "\n"),
	}
	for _, e := range d.Experiences {
		out.Experiences = append(out.Experiences, resume.EditableExperience{
			JobTitle: e.Title,
			Company:  e.Company,
			Bullets:  append([]string{}, e.Bullets...),
		})
	}
	edu := make([]string, 0, len(d.Education))
	for _, e := range d.Education {
		edu = append(edu, e.Text())
	}
	out.Education = strings.Join(edu, "\n")
	return out
}

// Get returns a generation with the requested version selected.
func (s *Service) Get(ctx context.Context, userID, jobApplicationID string, version int) (GenerationView, error) {
	g, v, err := s.Generations.GetVersion(ctx, userID, jobApplicationID, version)
	if err != nil {
		return GenerationView{}, err
	}
	return GenerationView{Generation: g, SelectedVersion: v}, nil
}

// List returns summaries of the caller's generations, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]generations.Summary, error) {
	return s.Generations.List(ctx, userID)
}

func (s *Service) enqueue(ctx context.Context, userID, jobApplicationID string, version int, requestID string) {
	if s.Queue == nil {
		return
	}
	msg := queue.Message{
		JobApplicationID: jobApplicationID,
		UserID:           userID,
		Version:          version,
		RequestID:        requestID,
		EnqueuedAt:       s.now().Format(time.RFC3339),
	}
	if err := s.Queue.Send(ctx, msg); err != nil {
		telemetry.Warn("tailoring.enqueue_failed", map[string]any{
			"job_application_id": jobApplicationID,
			"version":            version,
			"error":              err.Error(),
		})
	}
}
