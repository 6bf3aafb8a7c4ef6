package tailoring

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"resume-vault/internal/resume"
	"resume-vault/internal/shared/server/middleware"
	"resume-vault/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the tailoring service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes/generate", h.generate)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.GET("/resumes/:id/extract", h.extract)
	rg.POST("/resumes/:id/regenerate", h.regenerate)
	rg.GET("/resumes/:id/pdf", h.pdf)
	rg.GET("/resumes/:id/cover-letter/pdf", h.coverLetterPDF)
}

type generateRequest struct {
	JobDescription string `json:"job_description" binding:"required,min=10"`
	CompanyName    string `json:"company_name" binding:"required"`
	Position       string `json:"position" binding:"required"`
	JobID          string `json:"job_id"`
	PostingLink    string `json:"posting_link" binding:"omitempty,url"`
	IncludePDF     bool   `json:"include_pdf"`
}

type regenerateRequest struct {
	EditedContent resume.EditableContent `json:"edited_content"`
}

func (h *Handler) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := h.Svc.Generate(c.Request.Context(), middleware.UserIDFromContext(c), GenerateInput{
		Job: resume.JobPosting{
			CompanyName:    req.CompanyName,
			Position:       req.Position,
			JobID:          req.JobID,
			PostingLink:    req.PostingLink,
			JobDescription: req.JobDescription,
		},
		IncludePDF: req.IncludePDF,
		RequestID:  middleware.RequestIDFromContext(c),
	})
	if err != nil {
		respond.AppError(c, err)
		return
	}
	c.Set(middleware.JobApplicationIDKey, res.JobApplicationID)
	c.Set(middleware.VersionKey, res.VersionNumber)
	respond.JSON(c, http.StatusCreated, res)
}

func (h *Handler) list(c *gin.Context) {
	out, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.AppError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) get(c *gin.Context) {
	version, ok := versionParam(c)
	if !ok {
		return
	}
	view, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), version)
	if err != nil {
		respond.AppError(c, err)
		return
	}
	c.Set(middleware.JobApplicationIDKey, view.JobApplicationID)
	c.Set(middleware.VersionKey, view.SelectedVersion.VersionNumber)
	respond.OK(c, view)
}

func (h *Handler) extract(c *gin.Context) {
	version, ok := versionParam(c)
	if !ok {
		return
	}
	content, err := h.Svc.Extract(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), version)
	if err != nil {
		respond.AppError(c, err)
		return
	}
	c.Set(middleware.JobApplicationIDKey, c.Param("id"))
	respond.OK(c, content)
}

func (h *Handler) regenerate(c *gin.Context) {
	var req regenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.Svc.Regenerate(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), req.EditedContent)
	if err != nil {
		respond.AppError(c, err)
		return
	}
	c.Set(middleware.JobApplicationIDKey, res.JobApplicationID)
	c.Set(middleware.VersionKey, res.VersionNumber)
	respond.JSON(c, http.StatusCreated, res)
}

func (h *Handler) pdf(c *gin.Context) {
	version, ok := versionParam(c)
	if !ok {
		return
	}
	file, err := h.Svc.DownloadPDF(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), version)
	if err != nil {
		respond.AppError(c, err)
		return
	}
	c.Set(middleware.JobApplicationIDKey, c.Param("id"))
	respond.Attachment(c, "application/pdf", file.FileName, file.Data)
}

func (h *Handler) coverLetterPDF(c *gin.Context) {
	version, ok := versionParam(c)
	if !ok {
		return
	}
	file, err := h.Svc.CoverLetterPDF(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), version)
	if err != nil {
		respond.AppError(c, err)
		return
	}
	c.Set(middleware.JobApplicationIDKey, c.Param("id"))
	respond.Attachment(c, "application/pdf", file.FileName, file.Data)
}

// versionParam reads ?version=; absent means the current version.
func versionParam(c *gin.Context) (int, bool) {
	raw := c.Query("version")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "version must be a positive integer", nil)
		return 0, false
	}
	return n, true
}

func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	respond.Error(c, http.StatusBadRequest, "validation_error", "request is invalid", details)
}
