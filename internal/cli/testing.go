package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CLI provides a clean interface for running CLI commands in tests.
// It manages a temp directory and environment variables.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string

	// Today pins the effective day via --today; tests stay
	// deterministic regardless of the wall clock.
	Today string
}

// NewCLI creates a new test CLI with a temp directory.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	return &CLI{
		t:     t,
		Dir:   t.TempDir(),
		Env:   map[string]string{},
		Today: "15-01-2025",
	}
}

// Run executes the CLI with the given args and returns stdout, stderr, and exit code.
// Args should not include "pt", "--cwd" or "--today" - those are added automatically.
func (r *CLI) Run(args ...string) (string, string, int) {
	var outBuf, errBuf bytes.Buffer

	fullArgs := []string{"pt", "--cwd", r.Dir}
	if r.Today != "" {
		fullArgs = append(fullArgs, "--today", r.Today)
	}

	fullArgs = append(fullArgs, args...)
	code := Run(nil, &outBuf, &errBuf, fullArgs, r.Env)

	return outBuf.String(), errBuf.String(), code
}

// MustRun executes the CLI and fails the test if the command returns non-zero.
// Returns trimmed stdout on success.
func (r *CLI) MustRun(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code != 0 {
		r.t.Fatalf("command %v failed with exit code %d\nstderr: %s", args, code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustFail executes the CLI and fails the test if the command succeeds.
// Returns trimmed stderr.
func (r *CLI) MustFail(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code == 0 {
		r.t.Fatalf("command %v should have failed but succeeded\nstdout: %s", args, stdout)
	}

	return strings.TrimSpace(stderr)
}

// TaskFile returns the path to the default task file.
func (r *CLI) TaskFile() string {
	return filepath.Join(r.Dir, "tasks.md")
}

// ReadTaskFile reads and returns the task file content.
func (r *CLI) ReadTaskFile() string {
	r.t.Helper()

	content, err := os.ReadFile(r.TaskFile())
	if err != nil {
		r.t.Fatalf("failed to read task file: %v", err)
	}

	return string(content)
}

// WriteTaskFile writes content to the task file.
func (r *CLI) WriteTaskFile(content string) {
	r.t.Helper()

	err := os.WriteFile(r.TaskFile(), []byte(content), 0o600)
	if err != nil {
		r.t.Fatalf("failed to write task file: %v", err)
	}
}

// WriteProjectConfig writes a .pt.json project config into the temp dir.
func (r *CLI) WriteProjectConfig(content string) {
	r.t.Helper()

	err := os.WriteFile(filepath.Join(r.Dir, ".pt.json"), []byte(content), 0o600)
	if err != nil {
		r.t.Fatalf("failed to write project config: %v", err)
	}
}

// AssertContains fails the test if content doesn't contain substr.
func AssertContains(t *testing.T, content, substr string, msg ...string) {
	t.Helper()

	if !strings.Contains(content, substr) {
		t.Errorf("content should contain %q%s\ncontent:\n%s", substr, assertMsg(msg), content)
	}
}

// AssertNotContains fails the test if content contains substr.
func AssertNotContains(t *testing.T, content, substr string, msg ...string) {
	t.Helper()

	if strings.Contains(content, substr) {
		t.Errorf("content should NOT contain %q%s\ncontent:\n%s", substr, assertMsg(msg), content)
	}
}

func assertMsg(msg []string) string {
	if len(msg) == 0 {
		return ""
	}

	return " (" + strings.Join(msg, " ") + ")"
}
