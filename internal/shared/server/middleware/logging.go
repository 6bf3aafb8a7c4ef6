package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-vault/internal/shared/telemetry"
)

// Context keys handlers set so the request log can correlate resources.
const (
	JobApplicationIDKey = "jobApplicationId"
	VersionKey          = "versionNumber"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		userID, _ := c.Get(userIDKey)
		isGuest, _ := c.Get("isGuest")
		jobApplicationID, _ := c.Get(JobApplicationIDKey)
		version, _ := c.Get(VersionKey)

		fields := map[string]any{
			"request_id":         RequestIDFromContext(c),
			"method":             c.Request.Method,
			"path":               c.Request.URL.Path,
			"route":              c.FullPath(),
			"status":             c.Writer.Status(),
			"duration_ms":        float64(latency.Microseconds()) / 1000.0,
			"user_id":            userID,
			"job_application_id": jobApplicationID,
			"version":            version,
			"is_guest":           isGuest,
			"client_ip":          c.ClientIP(),
			"user_agent":         c.Request.UserAgent(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		telemetry.Info("request.complete", fields)
	}
}
