package auth

import (
	"testing"
	"time"
)

func TestLoginTokenRoundTrip(t *testing.T) {
	token, err := NewLoginToken("secret", "issuer", time.Minute, "a@x.com", "Usuario")
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.Correo != "a@x.com" || claims.Rol != "Usuario" || claims.Uso != UsoLogin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRecoveryTokenRoundTrip(t *testing.T) {
	token, err := NewRecoveryToken("secret", "issuer", time.Minute, "a@x.com")
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if claims.Correo != "a@x.com" {
		t.Fatalf("expected email claim, got %q", claims.Correo)
	}
	if claims.Uso != UsoRecuperacion {
		t.Fatalf("expected recovery use, got %q", claims.Uso)
	}
	if claims.Rol != "" {
		t.Fatalf("recovery token must not carry a role claim")
	}
}

func TestExpiredTokenFails(t *testing.T) {
	token, err := NewRecoveryToken("secret", "issuer", -time.Minute, "a@x.com")
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatalf("expected expired token to fail validation")
	}
}

func TestWrongSecretFails(t *testing.T) {
	token, err := NewRecoveryToken("secret", "issuer", time.Minute, "a@x.com")
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("other", token); err == nil {
		t.Fatalf("expected bad signature to fail validation")
	}
}

func TestMalformedTokenFails(t *testing.T) {
	if _, err := ParseToken("secret", "not-a-token"); err == nil {
		t.Fatalf("expected malformed token to fail validation")
	}
}
