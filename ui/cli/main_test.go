// Copyright (c) 2026 Keyfleet Team
// Keyfleet - multi-account SSH identity provisioner
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/keyfleet/keyfleet/internal/keystore"
	"github.com/keyfleet/keyfleet/internal/manifest"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("could not write manifest: %v", err)
	}
	return path
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRenderCmd(t *testing.T) {
	isolate(t)
	path := writeManifest(t, `accounts:
  - name: work
    email: work@example.com
  - name: personal
    email: personal@example.com
`)

	out, err := runCmd(t, "render", "--accounts", path)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "Host service.com-work\n") ||
		!strings.Contains(out, "Host service.com-personal\n") {
		t.Errorf("render output missing stanzas:\n%s", out)
	}
}

func TestRenderCmd_CustomHost(t *testing.T) {
	isolate(t)
	path := writeManifest(t, "accounts:\n  - name: ci\n    email: ci@example.com\n")

	out, err := runCmd(t, "render", "--accounts", path, "--host", "example.org", "--user", "deploy")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "Host example.org-ci\n") {
		t.Errorf("custom host not applied:\n%s", out)
	}
	if !strings.Contains(out, "User deploy\n") {
		t.Errorf("custom user not applied:\n%s", out)
	}
}

func TestRootCmd_MissingManifest(t *testing.T) {
	isolate(t)

	_, err := runCmd(t, "--accounts", filepath.Join(t.TempDir(), "nope.yaml"), "--ssh-dir", t.TempDir())
	if !errors.Is(err, manifest.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRootCmd_MissingAccountsSection(t *testing.T) {
	isolate(t)
	path := writeManifest(t, "other: true\n")

	_, err := runCmd(t, "--accounts", path, "--ssh-dir", filepath.Join(t.TempDir(), "ssh"))
	if !errors.Is(err, manifest.ErrNoAccounts) {
		t.Fatalf("err = %v, want ErrNoAccounts", err)
	}
}

func TestRootCmd_ProvisionsSingleAccount(t *testing.T) {
	isolate(t)
	path := writeManifest(t, "accounts:\n  - name: work\n    email: work@example.com\n")
	sshDir := filepath.Join(t.TempDir(), "ssh")

	out, err := runCmd(t, "--accounts", path, "--ssh-dir", sshDir)
	if err != nil {
		t.Fatalf("provision failed: %v", err)
	}

	if _, err := os.Stat(keystore.PrivateKeyPath(sshDir, "work")); err != nil {
		t.Errorf("missing private key: %v", err)
	}
	if !strings.Contains(out, "ssh-rsa ") {
		t.Errorf("output missing public key text:\n%s", out)
	}
	if !strings.Contains(out, "git@service.com-work:username/repository.git") {
		t.Errorf("output missing clone URL:\n%s", out)
	}

	cfg, err := os.ReadFile(filepath.Join(sshDir, "config"))
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if !strings.Contains(string(cfg), "IdentityFile "+sshDir+"/id_rsa_work\n") {
		t.Errorf("config identity file wrong:\n%s", cfg)
	}
}

func TestVersionFlag(t *testing.T) {
	isolate(t)
	out, err := runCmd(t, "--version")
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	if !strings.Contains(out, "keyfleet") {
		t.Errorf("version output = %q", out)
	}
}
