package profiles

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-vault/internal/shared/server/middleware"
	"resume-vault/internal/shared/server/respond"
)

const maxProfileBody = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches profile routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profiles/me", h.get)
	rg.PUT("/profiles/me", h.replace)
	rg.DELETE("/profiles/me", h.delete)
}

func ownerFromContext(c *gin.Context) Owner {
	return Owner{
		UserID: middleware.UserIDFromContext(c),
		Email:  middleware.UserEmailFromContext(c),
		Name:   middleware.UserNameFromContext(c),
	}
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.Svc.GetOrCreate(c.Request.Context(), ownerFromContext(c))
	if err != nil {
		respond.AppError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, p)
}

func (h *Handler) replace(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxProfileBody))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	p, err := h.Svc.ReplaceFields(c.Request.Context(), ownerFromContext(c), body)
	if err != nil {
		respond.AppError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, p)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c)); err != nil {
		respond.AppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
