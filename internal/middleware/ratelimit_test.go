package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/recipe-room/recipe-room/internal/logging"
)

func limiterRequest(addr, userID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	req.RemoteAddr = addr
	if userID != "" {
		req = req.WithContext(logging.WithUserID(req.Context(), userID))
	}
	return req
}

func TestRateLimiterKeying(t *testing.T) {
	// zero refill: each key gets exactly one request
	rl := NewRateLimiter(0, 1, nil)
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(req *http.Request) int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := serve(limiterRequest("10.0.0.1:4000", "alice")); code != http.StatusOK {
		t.Fatalf("first request: %d", code)
	}
	// same user from another address shares the bucket
	if code := serve(limiterRequest("10.0.0.2:4000", "alice")); code != http.StatusTooManyRequests {
		t.Fatalf("same user, new address: %d", code)
	}
	// a different user from an exhausted address gets a fresh bucket
	if code := serve(limiterRequest("10.0.0.2:4000", "bob")); code != http.StatusOK {
		t.Fatalf("different user: %d", code)
	}

	// anonymous callers fall back to the remote address
	if code := serve(limiterRequest("10.0.0.3:4000", "")); code != http.StatusOK {
		t.Fatalf("anonymous first: %d", code)
	}
	if code := serve(limiterRequest("10.0.0.3:4000", "")); code != http.StatusTooManyRequests {
		t.Fatalf("anonymous second: %d", code)
	}
}
