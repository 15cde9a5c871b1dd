// Package helpers builds real git repositories for tests
package helpers

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// RequireGit skips the test when no git binary is available
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

// RunGit runs git in dir and fails the test on error
func RunGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = isolatedEnv()
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v, output: %s", args, err, output)
	}
	return string(output)
}

// InitEmptyRepo runs "git init" in dir (created if needed) on branch "main"
// without committing anything
func InitEmptyRepo(t *testing.T, dir string) string {
	t.Helper()
	RequireGit(t)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create repo dir: %v", err)
	}

	cmd := exec.Command("git", "init", "--initial-branch=main")
	cmd.Dir = dir
	cmd.Env = isolatedEnv()
	if err := cmd.Run(); err != nil {
		// Fallback for older git versions
		RunGit(t, dir, "init")
		RunGit(t, dir, "symbolic-ref", "HEAD", "refs/heads/main")
	}

	RunGit(t, dir, "config", "user.email", "test@example.com")
	RunGit(t, dir, "config", "user.name", "Test User")

	return canonical(t, dir)
}

// CreateTestRepo creates a repository with one commit on "main" in a fresh
// temporary directory and returns its canonical path
func CreateTestRepo(t *testing.T) string {
	t.Helper()

	dir := InitEmptyRepo(t, filepath.Join(t.TempDir(), "repo"))
	CommitFile(t, dir, "README.md", "# Test Repository\n")
	return dir
}

// CommitFile writes name with content and commits it
func CommitFile(t *testing.T, dir, name, content string) {
	t.Helper()

	WriteFile(t, dir, name, content)
	RunGit(t, dir, "add", name)
	RunGit(t, dir, "commit", "-m", "Add "+name)
}

// WriteFile writes name under dir without staging it
func WriteFile(t *testing.T, dir, name, content string) {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

// MakeFakeRepo creates dir with an empty ".git" directory. It is enough for
// discovery, which only looks for the metadata directory.
func MakeFakeRepo(t *testing.T, dir string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatalf("Failed to create fake repo: %v", err)
	}
	return canonical(t, dir)
}

func canonical(t *testing.T, dir string) string {
	t.Helper()

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("Failed to resolve %s: %v", dir, err)
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		t.Fatalf("Failed to resolve %s: %v", dir, err)
	}
	return abs
}

// isolatedEnv strips variables that would point git at another repository
func isolatedEnv() []string {
	var env []string
	for _, kv := range os.Environ() {
		switch {
		case hasKey(kv, "GIT_DIR"), hasKey(kv, "GIT_WORK_TREE"), hasKey(kv, "GIT_INDEX_FILE"):
			continue
		}
		env = append(env, kv)
	}
	return append(env, "GIT_CONFIG_NOSYSTEM=1", "GIT_TEMPLATE_DIR=")
}

func hasKey(kv, key string) bool {
	return len(kv) > len(key) && kv[:len(key)+1] == key+"="
}
