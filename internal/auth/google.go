package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"resume-vault/internal/profiles"
	sharedauth "resume-vault/internal/shared/auth"
	"resume-vault/internal/shared/server/respond"
	"resume-vault/internal/shared/telemetry"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// ProfileSeeder creates the caller's profile on first sign-in.
type ProfileSeeder interface {
	GetOrCreate(ctx context.Context, owner profiles.Owner) (profiles.Profile, error)
}

// GoogleConfig configures Google sign-in.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	UIRedirect   string
}

// GoogleService handles the Google OAuth flow and issues session tokens.
type GoogleService struct {
	oauthConfig *oauth2.Config
	uiRedirect  string
	stateTTL    time.Duration
	states      StateStore
	signer      *sharedauth.SessionSigner
	profiles    ProfileSeeder
	userInfoURL string
}

// NewGoogleService builds a GoogleService. profiles may be nil.
func NewGoogleService(cfg GoogleConfig, states StateStore, signer *sharedauth.SessionSigner, seeder ProfileSeeder) *GoogleService {
	if states == nil {
		states = NewMemoryStateStore()
	}
	return &GoogleService{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		uiRedirect:  cfg.UIRedirect,
		stateTTL:    5 * time.Minute,
		states:      states,
		signer:      signer,
		profiles:    seeder,
		userInfoURL: defaultUserInfoURL,
	}
}

// RegisterRoutes attaches Google auth routes.
func (s *GoogleService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", s.start)
	rg.GET("/auth/google/callback", s.callback)
}

func (s *GoogleService) configured() bool {
	return s.oauthConfig.ClientID != "" && s.oauthConfig.ClientSecret != "" && s.oauthConfig.RedirectURL != "" && s.signer != nil
}

func (s *GoogleService) start(c *gin.Context) {
	if !s.configured() {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "Google auth not configured", nil)
		return
	}

	state := uuid.NewString()
	if err := s.states.Put(c.Request.Context(), state, s.stateTTL); err != nil {
		telemetry.Error("auth.state_put_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start sign-in", nil)
		return
	}
	c.Redirect(http.StatusFound, s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline))
}

func (s *GoogleService) callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", nil)
		return
	}

	ctx := c.Request.Context()
	ok, err := s.states.Consume(ctx, state)
	if err != nil {
		telemetry.Error("auth.state_consume_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to verify state", nil)
		return
	}
	if !ok {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", nil)
		return
	}

	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "failed to exchange code", nil)
		return
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil || info.Sub == "" {
		respond.Error(c, http.StatusBadGateway, "auth_failed", "failed to fetch user profile", nil)
		return
	}

	id := sharedauth.Identity{
		UserID:  "google:" + info.Sub,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}
	if s.profiles != nil {
		if _, err := s.profiles.GetOrCreate(ctx, profiles.Owner{UserID: id.UserID, Email: id.Email, Name: id.Name}); err != nil {
			telemetry.Warn("auth.profile_seed_failed", map[string]any{"user_id": id.UserID, "error": err.Error()})
		}
	}

	jwt, err := s.signer.Sign(id)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}
	redirectURL, err := appendToken(s.uiRedirect, jwt)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to redirect", nil)
		return
	}
	telemetry.Info("auth.google_signed_in", map[string]any{"user_id": id.UserID})
	c.Redirect(http.StatusFound, redirectURL)
}

type googleUserInfo struct {
	Sub     string `json:"sub"`
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (s *GoogleService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	client := s.oauthConfig.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return googleUserInfo{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, err
	}
	// The v2 endpoint answers with "id" rather than "sub".
	if info.Sub == "" {
		info.Sub = info.ID
	}
	return info, nil
}

func appendToken(rawURL, token string) (string, error) {
	if rawURL == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
