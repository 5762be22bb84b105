package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/recipe-room/recipe-room/internal/auth"
	"github.com/recipe-room/recipe-room/internal/logging"
)

func okHandler(gotUserID *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotUserID = logging.GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	tokens := auth.NewManager("test-secret", time.Hour)
	token, err := tokens.IssueToken("u1", "alice")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	var gotUserID string
	m := NewAuthMiddleware(tokens, nil, nil)
	handler := m.Handler(okHandler(&gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUserID != "u1" {
		t.Fatalf("user id = %q, want u1", gotUserID)
	}
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	m := NewAuthMiddleware(auth.NewManager("test-secret", time.Hour), nil, nil)
	var gotUserID string
	handler := m.Handler(okHandler(&gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
	m := NewAuthMiddleware(auth.NewManager("test-secret", time.Hour), nil, nil)
	var gotUserID string
	handler := m.Handler(okHandler(&gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewareSkipsConfiguredPaths(t *testing.T) {
	m := NewAuthMiddleware(auth.NewManager("test-secret", time.Hour), nil, []string{"/health"})
	var gotUserID string
	handler := m.Handler(okHandler(&gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestOptionalHandlerAllowsAnonymous(t *testing.T) {
	m := NewAuthMiddleware(auth.NewManager("test-secret", time.Hour), nil, nil)
	var gotUserID string
	handler := m.OptionalHandler(okHandler(&gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUserID != "" {
		t.Fatalf("anonymous request should carry no user id, got %q", gotUserID)
	}
}

func TestOptionalHandlerRejectsInvalidToken(t *testing.T) {
	m := NewAuthMiddleware(auth.NewManager("test-secret", time.Hour), nil, nil)
	var gotUserID string
	handler := m.OptionalHandler(okHandler(&gotUserID))

	req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	req.Header.Set("Authorization", "Bearer junk")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	rl := NewRateLimiter(1, 2, nil)
	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Fatalf("burst requests should pass: %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Fatalf("third request should be limited: %v", statuses)
	}
}

func TestTracingMiddlewareSetsTraceHeader(t *testing.T) {
	tm := NewTracingMiddleware(nil)
	handler := tm.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if logging.GetTraceID(r.Context()) == "" {
			t.Error("trace id missing from context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("X-Trace-ID") == "" {
		t.Fatal("X-Trace-ID header not set")
	}
}

func TestCORSPreflight(t *testing.T) {
	cors := NewCORS([]string{"*"})
	handler := cors.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight should not reach handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/recipes", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://app.example" {
		t.Fatalf("allow-origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
	// partial updates go through preflight, so PATCH must be advertised
	if methods := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(methods, "PATCH") {
		t.Fatalf("allow-methods = %q", methods)
	}
}

func TestCORSOriginList(t *testing.T) {
	cors := NewCORS([]string{"https://recipes.example"})
	handler := cors.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unlisted origin got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	req.Header.Set("Origin", "https://recipes.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://recipes.example" {
		t.Fatalf("listed origin got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
