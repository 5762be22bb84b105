package runtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/recipe-room/recipe-room/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			ReadTimeout:     5,
			WriteTimeout:    5,
			ShutdownTimeout: 1,
		},
		Auth:    config.AuthConfig{Secret: "test-secret", TokenTTL: 1},
		Logging: config.LoggingConfig{Level: "error", Format: "text", Output: "stderr"},
		RateLimit: config.RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             100,
		},
	}
}

func TestNewWithConfigMemoryFallback(t *testing.T) {
	app, err := newWithConfig(testConfig())
	if err != nil {
		t.Fatalf("newWithConfig: %v", err)
	}
	if app.db != nil {
		t.Fatal("expected no database handle without a DSN")
	}

	// the assembled handler chain serves requests end to end
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	app.server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}

	if err := app.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestNewWithConfigProtectedRouteNeedsToken(t *testing.T) {
	app, err := newWithConfig(testConfig())
	if err != nil {
		t.Fatalf("newWithConfig: %v", err)
	}
	defer app.Shutdown(context.Background())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	app.server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}
