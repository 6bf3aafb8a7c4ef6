package profiles

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-vault/internal/shared/server/middleware"
)

func newProfileRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Auth(middleware.AuthOptions{AllowGuest: true}))
	NewHandler(&Service{Repo: NewMemoryRepo()}).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("X-Guest-Id", "g1")
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestProfileLifecycle(t *testing.T) {
	r := newProfileRouter()

	resp := doRequest(r, http.MethodGet, "/api/v1/profiles/me", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var p Profile
	if err := json.Unmarshal(resp.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.UserID != "guest:g1" {
		t.Fatalf("unexpected userId %q", p.UserID)
	}

	resp = doRequest(r, http.MethodPut, "/api/v1/profiles/me", `{"summary":"Builder"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("put: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doRequest(r, http.MethodPut, "/api/v1/profiles/me", `{"skills":[{"level":"expert"}]}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("invalid put: expected 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"skills[0].name":"required"`) {
		t.Fatalf("expected field detail, got %s", resp.Body.String())
	}

	resp = doRequest(r, http.MethodDelete, "/api/v1/profiles/me", "")
	if resp.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", resp.Code)
	}
	resp = doRequest(r, http.MethodDelete, "/api/v1/profiles/me", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", resp.Code)
	}
}
