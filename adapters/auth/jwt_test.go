package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/codybmenefee/custodian-integration-tool/adapters/auth"
	"github.com/codybmenefee/custodian-integration-tool/ports"
)

var _ ports.TokenIssuer = (*auth.TokenService)(nil)

func TestNewTokenService_EmptySecret(t *testing.T) {
	svc := auth.NewTokenService("", time.Hour)

	// A generated secret must still produce working tokens.
	token, _, err := svc.GenerateToken("user1", "test@example.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Error("expected token")
	}
}

func TestNewTokenService_DefaultExpiration(t *testing.T) {
	svc := auth.NewTokenService("secret", 0)

	_, expiresAt, err := svc.GenerateToken("user1", "test@example.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	// Default should be 24 hours
	expectedExpiry := time.Now().Add(24 * time.Hour)
	if expiresAt.Before(expectedExpiry.Add(-time.Minute)) || expiresAt.After(expectedExpiry.Add(time.Minute)) {
		t.Errorf("expiration should be ~24h, got %v", expiresAt)
	}
}

func TestTokenService_GenerateToken(t *testing.T) {
	svc := auth.NewTokenService("test-secret", time.Hour)

	token, expiresAt, err := svc.GenerateToken("user123", "user@example.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if token == "" {
		t.Error("expected non-empty token")
	}

	// Token should be JWT format (3 parts separated by dots)
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Errorf("expected JWT format with 3 parts, got %d", len(parts))
	}

	expectedExpiry := time.Now().Add(time.Hour)
	if expiresAt.Before(expectedExpiry.Add(-time.Minute)) || expiresAt.After(expectedExpiry.Add(time.Minute)) {
		t.Errorf("expiration should be ~1h, got %v", expiresAt)
	}
}

func TestTokenService_ValidateToken(t *testing.T) {
	svc := auth.NewTokenService("test-secret", time.Hour)

	token, _, err := svc.GenerateToken("user123", "user@example.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != "user123" || claims.Email != "user@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestTokenService_ValidateToken_WrongSecret(t *testing.T) {
	svc := auth.NewTokenService("secret-a", time.Hour)
	other := auth.NewTokenService("secret-b", time.Hour)

	token, _, err := svc.GenerateToken("user123", "user@example.com")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Error("token signed with a different secret should be rejected")
	}
}

func TestTokenService_ValidateToken_Garbage(t *testing.T) {
	svc := auth.NewTokenService("test-secret", time.Hour)

	if _, err := svc.ValidateToken("not.a.token"); err == nil {
		t.Error("garbage token should be rejected")
	}
}

func TestGenerateSecret(t *testing.T) {
	a := auth.GenerateSecret()
	b := auth.GenerateSecret()

	if len(a) != 64 {
		t.Errorf("secret length = %d, want 64 hex chars", len(a))
	}
	if a == b {
		t.Error("secrets should not repeat")
	}
}
