package utils

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	service := NewJWTService("test-secret")

	token, err := service.GenerateToken("u1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	userID, err := service.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if userID != "u1" {
		t.Fatalf("user id = %q, want u1", userID)
	}
}

func TestTokenRoleClaim(t *testing.T) {
	service := NewJWTService("test-secret")

	token, err := service.GenerateTokenWithRole("mod-1", RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("GenerateTokenWithRole: %v", err)
	}

	claims, err := service.ParseClaims(token)
	if err != nil {
		t.Fatalf("ParseClaims: %v", err)
	}
	if claims.UserID != "mod-1" || claims.Role != RoleAdmin {
		t.Fatalf("claims = %+v", claims)
	}

	// Regular tokens carry no role.
	token, err = service.GenerateToken("u1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	claims, err = service.ParseClaims(token)
	if err != nil {
		t.Fatalf("ParseClaims: %v", err)
	}
	if claims.Role != "" {
		t.Fatalf("role = %q, want empty", claims.Role)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateToken("u1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := NewJWTService("secret-b").ValidateToken(token); err == nil {
		t.Fatal("token signed with a different secret accepted")
	}
}

func TestTokenExpired(t *testing.T) {
	service := NewJWTService("test-secret")

	token, err := service.GenerateToken("u1", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := service.ValidateToken(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestTokenEmptyUserID(t *testing.T) {
	service := NewJWTService("test-secret")

	token, err := service.GenerateToken("", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := service.ValidateToken(token); err == nil {
		t.Fatal("token without a user id accepted")
	}
}
