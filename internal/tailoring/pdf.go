package tailoring

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"

	"resume-vault/internal/generations"
	"resume-vault/internal/pdfcompile"
	"resume-vault/internal/queue"
	"resume-vault/internal/render"
	"resume-vault/internal/shared/apperr"
	"resume-vault/internal/shared/storage/object"
	"resume-vault/internal/shared/telemetry"
	"resume-vault/internal/shared/util"
)

// DownloadPDF returns the compiled PDF for a version, compiling and caching
// it on first request.
func (s *Service) DownloadPDF(ctx context.Context, userID, jobApplicationID string, version int) (PDFFile, error) {
	g, v, err := s.Generations.GetVersion(ctx, userID, jobApplicationID, version)
	if err != nil {
		return PDFFile{}, err
	}
	name := util.DownloadFileName("resume", g.JobInfo.CompanyName)

	if data, ok := s.cachedPDF(ctx, userID, jobApplicationID, v.VersionNumber); ok {
		return PDFFile{FileName: name, Data: data}, nil
	}
	data, err := s.compile(ctx, v)
	if err != nil {
		return PDFFile{}, err
	}
	s.cachePDF(ctx, userID, jobApplicationID, v.VersionNumber, data)
	return PDFFile{FileName: name, Data: data}, nil
}

// CoverLetterPDF lays out the cover letter of a version as a business letter.
func (s *Service) CoverLetterPDF(ctx context.Context, userID, jobApplicationID string, version int) (PDFFile, error) {
	const op = "tailoring.CoverLetterPDF"
	g, v, err := s.Generations.GetVersion(ctx, userID, jobApplicationID, version)
	if err != nil {
		return PDFFile{}, err
	}
	if v.CoverLetter == "" {
		return PDFFile{}, apperr.New(apperr.KindNotFound, op, "version has no cover letter")
	}

	cl := render.CoverLetter{
		Company:  g.JobInfo.CompanyName,
		Position: g.JobInfo.Position,
		Text:     v.CoverLetter,
		Date:     s.now(),
	}
	profile, err := s.Profiles.Get(ctx, userID)
	switch {
	case err == nil:
		info := profile.PersonalInfo
		cl.Name = info.FullName()
		cl.Email = info.Email
		cl.Phone = info.Phone
		cl.Location = info.Location.String()
	case apperr.KindOf(err) != apperr.KindNotFound:
		return PDFFile{}, err
	}

	data, err := render.RenderCoverLetterPDF(cl)
	if err != nil {
		return PDFFile{}, apperr.Wrap(apperr.KindInternal, op, err)
	}
	return PDFFile{FileName: util.DownloadFileName("cover_letter", g.JobInfo.CompanyName), Data: data}, nil
}

// PrerenderPDF compiles and caches the PDF named by a render job. Already
// cached versions are skipped.
func (s *Service) PrerenderPDF(ctx context.Context, msg queue.Message) error {
	if s.Store == nil {
		return apperr.New(apperr.KindConfig, "tailoring.PrerenderPDF", "no object store configured")
	}
	_, v, err := s.Generations.GetVersion(ctx, msg.UserID, msg.JobApplicationID, msg.Version)
	if err != nil {
		return err
	}
	key := object.PDFKey(msg.UserID, msg.JobApplicationID, v.VersionNumber)
	if ok, err := s.Store.Exists(ctx, key); err == nil && ok {
		return nil
	}
	data, err := s.compile(ctx, v)
	if err != nil {
		return err
	}
	if _, err := s.Store.Put(ctx, key, "application/pdf", bytes.NewReader(data)); err != nil {
		return apperr.Wrap(apperr.KindInternal, "tailoring.PrerenderPDF", err)
	}
	return nil
}

// compile turns a stored version into verified PDF bytes.
func (s *Service) compile(ctx context.Context, v generations.Version) ([]byte, error) {
	const op = "tailoring.compile"
	switch v.Format {
	case generations.FormatPDF:
		data, err := base64.StdEncoding.DecodeString(v.Content)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, op, err)
		}
		if err := pdfcompile.Verify(data); err != nil {
			return nil, err
		}
		return data, nil
	case generations.FormatLaTeX:
		if s.LaTeXCompiler == nil {
			return nil, apperr.New(apperr.KindConfig, op, "no LaTeX compiler configured")
		}
		return s.LaTeXCompiler.Compile(ctx, v.Content)
	default:
		if s.HTMLCompiler == nil {
			return nil, apperr.New(apperr.KindConfig, op, "no HTML compiler configured")
		}
		return s.HTMLCompiler.Compile(ctx, v.Content)
	}
}

func (s *Service) cachedPDF(ctx context.Context, userID, jobApplicationID string, version int) ([]byte, bool) {
	if s.Store == nil {
		return nil, false
	}
	key := object.PDFKey(userID, jobApplicationID, version)
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		if !errors.Is(err, object.ErrNotFound) {
			telemetry.Warn("tailoring.pdf_cache_read_failed", map[string]any{"key": key, "error": err.Error()})
		}
		return nil, false
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil || pdfcompile.Verify(data) != nil {
		return nil, false
	}
	return data, true
}

func (s *Service) cachePDF(ctx context.Context, userID, jobApplicationID string, version int, data []byte) {
	if s.Store == nil {
		return
	}
	key := object.PDFKey(userID, jobApplicationID, version)
	if _, err := s.Store.Put(ctx, key, "application/pdf", bytes.NewReader(data)); err != nil {
		telemetry.Warn("tailoring.pdf_cache_write_failed", map[string]any{"key": key, "error": err.Error()})
	}
}
