package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "resume-vault/internal/auth"
	"resume-vault/internal/profiles"
	"resume-vault/internal/services/health"
	"resume-vault/internal/shared/auth"
	"resume-vault/internal/shared/config"
	"resume-vault/internal/shared/metrics"
	"resume-vault/internal/shared/server/middleware"
	"resume-vault/internal/shared/server/respond"
	"resume-vault/internal/tailoring"
)

const apiPrefix = "/api/v1"

// RouterDeps are the handlers and services the router mounts.
type RouterDeps struct {
	Config    config.Config
	Verifier  auth.Verifier
	Profiles  *profiles.Handler
	Resumes   *tailoring.Handler
	Google    *googleauth.GoogleService
	Health    *health.Service
	DebugMode bool
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if !deps.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(middleware.AuthOptions{
			Verifier:   deps.Verifier,
			AllowGuest: deps.Config.Env != "production",
			PublicPrefixes: []string{
				apiPrefix + "/health",
				apiPrefix + "/metrics",
				apiPrefix + "/auth/google",
			},
		}),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}

	api := r.Group(apiPrefix)
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status())
	})
	api.GET("/health/ready", func(c *gin.Context) {
		report := healthSvc.Ready(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})
	api.GET("/metrics", metrics.Handler())

	registerMeRoutes(api)
	if deps.Google != nil {
		deps.Google.RegisterRoutes(api)
	}
	if deps.Profiles != nil {
		deps.Profiles.RegisterRoutes(api)
	}
	if deps.Resumes != nil {
		deps.Resumes.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
