package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testConfig writes a config pointing at a fresh sqlite file and returns
// its path. extra is appended to the YAML.
func testConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pitwall.yaml")
	yml := fmt.Sprintf("store:\n  driver: sqlite\n  path: %s\n%s", filepath.Join(dir, "pitwall.db"), extra)
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeTemp writes content to a temp file and returns its path.
func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes pw with args and returns combined output.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// mustRun executes pw and fails the test on error.
func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, "", args...)
	if err != nil {
		t.Fatalf("pw %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestVersionCmd(t *testing.T) {
	out := mustRun(t, "version")
	if !strings.Contains(out, "pw dev") {
		t.Errorf("expected output to contain 'pw dev', got: %s", out)
	}
	if !strings.Contains(out, "commit: none") {
		t.Errorf("expected output to contain 'commit: none', got: %s", out)
	}
}

func TestVersionCmdWithCustomValues(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, Date
	Version, Commit, Date = "1.0.0", "abc123", "2026-01-01"
	defer func() { Version, Commit, Date = origVersion, origCommit, origDate }()

	out := mustRun(t, "version")
	if !strings.Contains(out, "pw 1.0.0") {
		t.Errorf("expected output to contain 'pw 1.0.0', got: %s", out)
	}
	if !strings.Contains(out, "built: 2026-01-01") {
		t.Errorf("expected output to contain 'built: 2026-01-01', got: %s", out)
	}
}

func TestRootCmdHelp(t *testing.T) {
	out := mustRun(t, "--help")
	if !strings.Contains(out, "Pitwall") {
		t.Errorf("expected help output to contain 'Pitwall', got: %s", out)
	}
	for _, sub := range []string{"version", "db", "roster", "report", "list", "serve", "digest", "publish"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help output to list %q subcommand", sub)
		}
	}
}

func TestExecute_ReturnsExitCode(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"no-such-command"})
	if code := execute(cmd); code != 1 {
		t.Errorf("execute = %d, want 1", code)
	}

	cmd = newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"version"})
	if code := execute(cmd); code != 0 {
		t.Errorf("execute = %d, want 0", code)
	}
}

func TestLoadConfig_MissingExplicitPath(t *testing.T) {
	_, err := run(t, "", "keys", "--config", "/nonexistent/pitwall.yaml")
	if err == nil {
		t.Fatal("expected error for missing config")
	}
	if !strings.Contains(err.Error(), "load config") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "load config")
	}
}

func TestLoadConfig_InvalidConfig(t *testing.T) {
	path := writeTemp(t, "bad.yaml", "store:\n  driver: postgres\n")
	_, err := run(t, "", "keys", "--config", path)
	if err == nil || !strings.Contains(err.Error(), "store.driver") {
		t.Fatalf("error = %v, want store.driver validation error", err)
	}
}

func TestLoadConfig_DefaultPathFallsBack(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Store.Path != "pitwall.db" {
		t.Errorf("Store.Path = %q, want default", cfg.Store.Path)
	}
}
