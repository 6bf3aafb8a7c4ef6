package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-vault/internal/shared/server/middleware"
	"resume-vault/internal/shared/server/respond"
)

type meResponse struct {
	UserID     string `json:"userId"`
	AuthMethod string `json:"authMethod"`
	Guest      bool   `json:"guest"`
	Email      string `json:"email,omitempty"`
	Name       string `json:"name,omitempty"`
	Picture    string `json:"picture,omitempty"`
}

// registerMeRoutes attaches the /me endpoint.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", meHandler)
}

// meHandler echoes the caller's identity as resolved by the auth middleware.
func meHandler(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}

	method := authMethod(userID)
	respond.OK(c, meResponse{
		UserID:     userID,
		AuthMethod: method,
		Guest:      method == "guest",
		Email:      middleware.UserEmailFromContext(c),
		Name:       middleware.UserNameFromContext(c),
		Picture:    middleware.UserPictureFromContext(c),
	})
}

// authMethod derives how the caller signed in from the user ID namespace:
// "google:" for first-party sessions, "guest:" for dev guests, anything else
// came from the external identity provider.
func authMethod(userID string) string {
	switch {
	case strings.HasPrefix(userID, "google:"):
		return "google"
	case strings.HasPrefix(userID, "guest:"):
		return "guest"
	default:
		return "jwks"
	}
}
