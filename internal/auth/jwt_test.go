package auth

import (
	"testing"
	"time"

	"github.com/recipe-room/recipe-room/internal/errors"
)

func TestIssueAndValidateToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.IssueToken("u1", "alice")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != "u1" || claims.Username != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).IssueToken("u1", "alice")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	_, err = NewManager("secret-b", time.Hour).ValidateToken(token)
	if !errors.Is(err, errors.CodeInvalidToken) {
		t.Fatalf("expected INVALID_TOKEN, got %v", err)
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	token, err := NewManager("test-secret", -time.Minute).IssueToken("u1", "alice")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := NewManager("test-secret", time.Hour).ValidateToken(token); err == nil {
		t.Fatal("expected expired token to fail validation")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	if _, err := m.ValidateToken("not.a.token"); !errors.Is(err, errors.CodeInvalidToken) {
		t.Fatalf("expected INVALID_TOKEN, got %v", err)
	}
}
