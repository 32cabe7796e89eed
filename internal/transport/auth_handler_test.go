package transport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kidkicks/internal/config"
	"kidkicks/internal/middleware"
	"kidkicks/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func passthroughLimiter(next http.Handler) http.Handler {
	return next
}

func newAuthRouter(t *testing.T) chi.Router {
	t.Helper()

	auth, err := service.NewAuthService(config.AuthConfig{
		AdminUsername: "admin",
		AdminPassword: "admin123",
		JWTSecret:     "test-secret",
	})
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	router := chi.NewRouter()
	handler := NewAuthHandler(auth, zap.NewNop(), false)
	handler.RegisterRoutes(router, passthroughLimiter)
	return router
}

func postLogin(t *testing.T, router chi.Router, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLoginSetsTokenAndCookie(t *testing.T) {
	router := newAuthRouter(t)

	w := postLogin(t, router, LoginRequest{Username: "admin", Password: "admin123"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token in the response body")
	}

	var adminCookie *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.AdminTokenCookie {
			adminCookie = cookie
		}
	}
	if adminCookie == nil {
		t.Fatal("admin-token cookie not set")
	}
	if adminCookie.Value != resp.Token {
		t.Error("cookie must carry the same token as the body")
	}
	if !adminCookie.HttpOnly {
		t.Error("admin cookie must be HttpOnly")
	}
	if adminCookie.MaxAge != int(service.AdminTokenExpiration.Seconds()) {
		t.Errorf("unexpected cookie lifetime: %d", adminCookie.MaxAge)
	}
}

func TestLoginRejectsWrongCredentials(t *testing.T) {
	router := newAuthRouter(t)

	w := postLogin(t, router, LoginRequest{Username: "admin", Password: "wrong"})

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("failed logins must not set cookies")
	}
}

func TestLoginValidatesPayload(t *testing.T) {
	router := newAuthRouter(t)

	t.Run("missing fields", func(t *testing.T) {
		w := postLogin(t, router, map[string]string{"username": "admin"})

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader([]byte("{broken")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}
