// Package allowlist provides command restriction tests for sandboxed/agent execution.
package allowlist

import (
	"os"
	"strings"
	"testing"
)

// Helper function to clear environment variables before each test
func clearEnvVars(t *testing.T) {
	t.Helper()
	os.Unsetenv(EnvReadOnly)
	os.Unsetenv(EnvCommandAllowlist)
}

// Helper function to set environment variables with cleanup
func setEnv(t *testing.T, key, value string) {
	t.Helper()
	os.Setenv(key, value)
	t.Cleanup(func() {
		os.Unsetenv(key)
	})
}

// =============================================================================
// TestNewChecker - Initialization Tests
// =============================================================================

func TestNewChecker_NoEnvVars(t *testing.T) {
	clearEnvVars(t)

	c := NewChecker()

	if c.enabled {
		t.Error("expected enabled=false when no env vars are set")
	}
	if c.readOnly {
		t.Error("expected readOnly=false when no env vars are set")
	}
	if len(c.allowedCommands) != 0 {
		t.Errorf("expected empty allowedCommands, got %d", len(c.allowedCommands))
	}
}

func TestNewChecker_ReadOnlyMode(t *testing.T) {
	clearEnvVars(t)
	setEnv(t, EnvReadOnly, "1")

	c := NewChecker()

	if !c.enabled {
		t.Error("expected enabled=true in read-only mode")
	}
	if !c.readOnly {
		t.Error("expected readOnly=true when TRAINHUB_READONLY is set")
	}
	// Should have all read-only commands
	for _, cmd := range ReadOnlyCommands {
		if !c.allowedCommands[cmd] {
			t.Errorf("expected command %q to be allowed in read-only mode", cmd)
		}
	}
}

func TestNewChecker_ExplicitAllowlist(t *testing.T) {
	clearEnvVars(t)
	setEnv(t, EnvCommandAllowlist, "whoami,sessions list,questionnaires list")

	c := NewChecker()

	if !c.enabled {
		t.Error("expected enabled=true with explicit allowlist")
	}
	if c.readOnly {
		t.Error("expected readOnly=false with explicit allowlist (not TRAINHUB_READONLY)")
	}

	expected := map[string]bool{"whoami": true, "sessions list": true, "questionnaires list": true}
	for cmd := range expected {
		if !c.allowedCommands[cmd] {
			t.Errorf("expected command %q to be in allowlist", cmd)
		}
	}
	if len(c.allowedCommands) != len(expected) {
		t.Errorf("expected %d commands in allowlist, got %d", len(expected), len(c.allowedCommands))
	}
}

func TestNewChecker_BothEnvVarsSet_ReadOnlyWins(t *testing.T) {
	clearEnvVars(t)
	setEnv(t, EnvReadOnly, "1")
	setEnv(t, EnvCommandAllowlist, "whoami,sessions create")

	c := NewChecker()

	if !c.readOnly {
		t.Error("expected readOnly=true when both env vars are set (readonly takes precedence)")
	}
	// Should have read-only commands, not the explicit allowlist
	if c.allowedCommands["sessions create"] {
		t.Error("expected 'sessions create' to NOT be allowed when read-only mode takes precedence")
	}
}

func TestNewChecker_EmptyAllowlistString(t *testing.T) {
	clearEnvVars(t)
	setEnv(t, EnvCommandAllowlist, "")

	c := NewChecker()

	if c.enabled {
		t.Error("expected enabled=false when allowlist is empty string")
	}
}

func TestNewChecker_WhitespaceInAllowlist(t *testing.T) {
	clearEnvVars(t)
	setEnv(t, EnvCommandAllowlist, " whoami , sessions list , address get ")

	c := NewChecker()

	if !c.enabled {
		t.Error("expected enabled=true")
	}

	// Commands should be trimmed
	for _, cmd := range []string{"whoami", "sessions list", "address get"} {
		if !c.allowedCommands[cmd] {
			t.Errorf("expected trimmed command %q to be allowed", cmd)
		}
	}
	// Verify no entries with leading/trailing whitespace
	for cmd := range c.allowedCommands {
		if cmd != strings.TrimSpace(cmd) {
			t.Errorf("command %q was not trimmed properly", cmd)
		}
	}
}

func TestNewChecker_CaseInsensitiveAllowlist(t *testing.T) {
	clearEnvVars(t)
	setEnv(t, EnvCommandAllowlist, "WHOAMI,Sessions List")

	c := NewChecker()

	for _, cmd := range []string{"whoami", "sessions list"} {
		if !c.allowedCommands[cmd] {
			t.Errorf("expected lowercase command %q to be in allowlist", cmd)
		}
	}
}

// =============================================================================
// TestIsAllowed - Permission Checks
// =============================================================================

func TestIsAllowed_DisabledChecker(t *testing.T) {
	clearEnvVars(t)

	c := NewChecker()

	// When disabled, all commands should be allowed
	testCmds := []string{"whoami", "sessions create", "users delete", "anything", ""}
	for _, cmd := range testCmds {
		if !c.IsAllowed(cmd) {
			t.Errorf("expected %q to be allowed when checker is disabled", cmd)
		}
	}
}

func TestIsAllowed_ReadOnlyMode(t *testing.T) {
	clearEnvVars(t)
	setEnv(t, EnvReadOnly, "1")

	c := NewChecker()

	testCases := []struct {
		command  string
		expected bool
	}{
		// Read commands should be allowed
		{"whoami", true},
		{"sessions list", true},
		{"processors get", true},
		// Write commands should be blocked
		{"login", false},
		{"sessions create", false},
		{"users delete", false},
		{"processors requeue", false},
	}
	for _, tc := range testCases {
		if got := c.IsAllowed(tc.command); got != tc.expected {
			t.Errorf("IsAllowed(%q) = %v, want %v", tc.command, got, tc.expected)
		}
	}
}

func TestIsAllowed_HelpAndVersionAlwaysAllowed(t *testing.T) {
	clearEnvVars(t)
	setEnv(t, EnvCommandAllowlist, "whoami")

	c := NewChecker()

	for _, cmd := range []string{"help", "version", "--help", "-h"} {
		if !c.IsAllowed(cmd) {
			t.Errorf("expected %q to always be allowed", cmd)
		}
	}
}

func TestIsAllowed_CaseInsensitiveCheck(t *testing.T) {
	clearEnvVars(t)
	setEnv(t, EnvCommandAllowlist, "whoami")

	c := NewChecker()

	if !c.IsAllowed("WHOAMI") {
		t.Error("expected command check to be case-insensitive")
	}
	if !c.IsAllowed("  whoami  ") {
		t.Error("expected command check to trim whitespace")
	}
}

// =============================================================================
// TestCheck - Error Reporting
// =============================================================================

func TestCheck_BlockedInReadOnlyMode(t *testing.T) {
	clearEnvVars(t)
	setEnv(t, EnvReadOnly, "1")

	c := NewChecker()

	err := c.Check("users delete")
	if err == nil {
		t.Fatal("expected error for blocked command in read-only mode")
	}
	if !strings.Contains(err.Error(), EnvReadOnly) {
		t.Errorf("error %q should mention %s", err.Error(), EnvReadOnly)
	}
}

func TestCheck_BlockedByAllowlist(t *testing.T) {
	clearEnvVars(t)
	setEnv(t, EnvCommandAllowlist, "whoami")

	c := NewChecker()

	err := c.Check("sessions create")
	if err == nil {
		t.Fatal("expected error for command not in allowlist")
	}
	if !strings.Contains(err.Error(), EnvCommandAllowlist) {
		t.Errorf("error %q should mention %s", err.Error(), EnvCommandAllowlist)
	}
}

func TestCheck_AllowedCommand(t *testing.T) {
	clearEnvVars(t)
	setEnv(t, EnvCommandAllowlist, "whoami")

	c := NewChecker()

	if err := c.Check("whoami"); err != nil {
		t.Errorf("Check() on allowed command = %v, want nil", err)
	}
}

// =============================================================================
// Accessors
// =============================================================================

func TestGetAllowedCommands(t *testing.T) {
	clearEnvVars(t)

	if got := NewChecker().GetAllowedCommands(); got != nil {
		t.Errorf("disabled checker should return nil, got %v", got)
	}

	setEnv(t, EnvCommandAllowlist, "whoami,address get")
	c := NewChecker()
	if got := c.GetAllowedCommands(); len(got) != 2 {
		t.Errorf("GetAllowedCommands() = %v, want 2 entries", got)
	}
}

func TestAllCommands_CoversBothLists(t *testing.T) {
	all := AllCommands()

	if len(all) != len(ReadOnlyCommands)+len(WriteCommands) {
		t.Errorf("AllCommands() = %d entries, want %d", len(all), len(ReadOnlyCommands)+len(WriteCommands))
	}
}
