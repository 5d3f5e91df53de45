package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out.String(), "Version:    dev") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestAdminTokenCommand(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "secret")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"admin-token", "--subject", "ops", "--ttl", "1h"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("admin-token: %v", err)
	}
	if parts := strings.Split(strings.TrimSpace(out.String()), "."); len(parts) != 3 {
		t.Errorf("expected a JWT, got %q", out.String())
	}
}

func TestMigrateDownRejectsZeroSteps(t *testing.T) {
	rootCmd.SetArgs([]string{"migrate", "down", "--steps", "0"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected an error for --steps 0")
	}
}
