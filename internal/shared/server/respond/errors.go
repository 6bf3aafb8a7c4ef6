package respond

import (
	"github.com/gin-gonic/gin"

	"resume-vault/internal/shared/apperr"
	"resume-vault/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if isGuest, ok := c.Get("isGuest"); ok {
		fields["is_guest"] = isGuest
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// AppError maps a classified error to a response. Internal errors are logged
// with their cause and answered with a generic message.
func AppError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	if kind == apperr.KindInternal {
		telemetry.Error("http.internal_error", map[string]any{
			"request_id": c.GetString("requestId"),
			"path":       c.Request.URL.Path,
			"error":      err.Error(),
		})
		Error(c, status, kind.String(), "Unexpected server error", nil)
		return
	}
	var details interface{}
	if fields := apperr.FieldsOf(err); len(fields) > 0 {
		details = fields
	}
	Error(c, status, kind.String(), err.Error(), details)
}
