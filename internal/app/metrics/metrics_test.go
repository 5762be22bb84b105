package metrics

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/", "/"},
		{"/health", "/health"},
		{"/api", "/api"},
		{"/api/recipes", "/api/recipes"},
		{"/api/recipes/42", "/api/recipes/:id"},
		{"/api/recipes/42/comments", "/api/recipes/:id/comments"},
		{"/api/groups/7/members/12", "/api/groups/:id/members/:id"},
		{"/api/auth/register", "/api/auth/register"},
		{"/api/auth/login", "/api/auth/login"},
		{"/api/users/me", "/api/users/me"},
		{"/api/payments/webhook", "/api/payments/webhook"},
		{"/api/payments/55/refresh", "/api/payments/:id/refresh"},
	}
	for _, tc := range cases {
		if got := canonicalPath(tc.in); got != tc.want {
			t.Errorf("canonicalPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
