package auth

import (
	"testing"
	"time"

	"github.com/hyunwoopark/meritpoint/internal/model"
)

func TestSignAndParse(t *testing.T) {
	secret := []byte("test-secret")

	token, err := Sign(secret, "25-70000001", "Kim Cheolsu", model.RoleMember, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	sn, err := ParseSubject(secret, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sn != "25-70000001" {
		t.Errorf("subject = %q, want %q", sn, "25-70000001")
	}
}

func TestParseWrongSecret(t *testing.T) {
	token, err := Sign([]byte("secret-a"), "25-70000001", "Kim Cheolsu", model.RoleMember, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseSubject([]byte("secret-b"), token); err == nil {
		t.Error("expected verification failure with wrong secret")
	}
}

func TestParseExpired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := Sign(secret, "25-70000001", "Kim Cheolsu", model.RoleMember, -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseSubject(secret, token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestParseGarbage(t *testing.T) {
	if _, err := ParseSubject([]byte("test-secret"), "not.a.token"); err == nil {
		t.Error("expected malformed token to be rejected")
	}
}
