package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bookhaven/bookstore-api/internal/core/domain"
)

func testUser() *domain.User {
	return &domain.User{ID: "user_1", Username: "alice", Role: domain.RoleUser}
}

func TestNewIssuer_MissingSecret(t *testing.T) {
	if _, err := NewIssuer("", time.Hour); !errors.Is(err, domain.ErrSigningKeyMissing) {
		t.Fatalf("expected ErrSigningKeyMissing, got %v", err)
	}
}

func TestNewIssuer_DefaultTTL(t *testing.T) {
	issuer, err := NewIssuer("secret", 0)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	if issuer.TTL() != DefaultTTL {
		t.Fatalf("expected default ttl %v, got %v", DefaultTTL, issuer.TTL())
	}
}

func TestIssuer_RoundTrip(t *testing.T) {
	issuer, err := NewIssuer("secret", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	raw, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := issuer.Verify(raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user_1" || claims.Username != "alice" || claims.Role != domain.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatalf("expected exp and iat to be set")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Fatalf("expected 1h validity window, got %v", got)
	}
}

func TestIssuer_Expired(t *testing.T) {
	issuer, err := NewIssuer("secret", time.Millisecond)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	raw, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := issuer.Verify(raw); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestIssuer_Malformed(t *testing.T) {
	issuer, _ := NewIssuer("secret", time.Hour)

	if _, err := issuer.Verify("not-a-token"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestIssuer_WrongSecret(t *testing.T) {
	issuer, _ := NewIssuer("secret", time.Hour)
	other, _ := NewIssuer("different", time.Hour)

	raw, err := other.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := issuer.Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestIssuer_RejectsForeignSigningMethod(t *testing.T) {
	issuer, _ := NewIssuer("secret", time.Hour)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.MapClaims{"username": "alice"})
	raw, err := foreign.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := issuer.Verify(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
