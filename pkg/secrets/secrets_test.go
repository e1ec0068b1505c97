package secrets

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/trainhub/trainctl/pkg/config"
)

func TestStore_RoundTrip(t *testing.T) {
	keyring.MockInit()
	s := NewStore()

	if err := s.Set("user@example.com", "tok-1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.Get("user@example.com")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "tok-1" {
		t.Errorf("Get() = %q, want tok-1", got)
	}

	if err := s.Delete("user@example.com"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get("user@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete = %v, want ErrNotFound", err)
	}
}

func TestStore_DeleteMissingIsNoError(t *testing.T) {
	keyring.MockInit()
	s := NewStore()

	if err := s.Delete("nobody@example.com"); err != nil {
		t.Errorf("Delete() of missing token = %v, want nil", err)
	}
}

func TestTokenSource_Precedence(t *testing.T) {
	keyring.MockInit()
	s := NewStore()
	if err := s.Set("user@example.com", "keyring-token"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	ts := NewTokenSource(s, "user@example.com", "config-token")

	// Environment beats everything
	t.Setenv(config.EnvToken, "env-token")
	if got := ts.Token(); got != "env-token" {
		t.Errorf("Token() = %q, want env-token", got)
	}

	// Keyring beats the config fallback
	t.Setenv(config.EnvToken, "")
	if got := ts.Token(); got != "keyring-token" {
		t.Errorf("Token() = %q, want keyring-token", got)
	}

	// Fallback when keyring has nothing
	if err := s.Delete("user@example.com"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := ts.Token(); got != "config-token" {
		t.Errorf("Token() = %q, want config-token", got)
	}
}

func TestTokenSource_NoSession(t *testing.T) {
	keyring.MockInit()
	t.Setenv(config.EnvToken, "")

	ts := NewTokenSource(NewStore(), "user@example.com", "")
	if got := ts.Token(); got != "" {
		t.Errorf("Token() = %q, want empty for no session", got)
	}
}
