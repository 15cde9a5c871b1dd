package git

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// GoGit implements Capability with go-git. The line-oriented changed-paths
// listing is produced by the git binary, which go-git has no porcelain
// equivalent for.
type GoGit struct {
	gitBinary string
}

// NewGoGit creates a go-git backed capability that runs "git" from PATH for
// porcelain listings
func NewGoGit() *GoGit {
	return &GoGit{gitBinary: "git"}
}

// WithGitBinary returns a copy using binary for porcelain listings
func (g *GoGit) WithGitBinary(binary string) *GoGit {
	return &GoGit{gitBinary: binary}
}

// Open implements Capability
func (g *GoGit) Open(path string) (Handle, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotARepository, path)
	}

	repo, err := gogit.PlainOpen(path)
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotARepository, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrNotARepository, path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		// bare repositories have no working tree
		return nil, fmt.Errorf("%w: %s: %v", ErrNotARepository, path, err)
	}

	return &goGitHandle{
		path:      path,
		repo:      repo,
		worktree:  wt,
		gitBinary: g.gitBinary,
	}, nil
}

type goGitHandle struct {
	path      string
	repo      *gogit.Repository
	worktree  *gogit.Worktree
	gitBinary string
}

func (h *goGitHandle) Path() string {
	return h.path
}

// IsDirty asks the git binary first so the answer matches ChangedPaths. When
// that fails it falls back to the go-git worktree status.
func (h *goGitHandle) IsDirty(ctx context.Context) (bool, error) {
	changed, err := h.ChangedPaths(ctx)
	if err == nil {
		return len(changed) > 0, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}

	h.worktree.Excludes = append(h.worktree.Excludes, h.excludePatterns()...)
	status, err := h.worktree.Status()
	if err != nil {
		return false, fmt.Errorf("failed to get worktree status: %w", err)
	}
	// Untracked files make a status unclean
	return !status.IsClean(), nil
}

// excludePatterns collects the ignore rules go-git's Status does not read on
// its own: system and global excludes plus the repository's core.excludesFile
func (h *goGitHandle) excludePatterns() []gitignore.Pattern {
	root := osfs.New(string(filepath.Separator))

	var patterns []gitignore.Pattern
	if ps, err := gitignore.LoadSystemPatterns(root); err == nil {
		patterns = append(patterns, ps...)
	}
	if ps, err := gitignore.LoadGlobalPatterns(root); err == nil {
		patterns = append(patterns, ps...)
	}

	cfg, err := h.repo.Config()
	if err != nil || cfg.Raw == nil {
		return patterns
	}
	if file := cfg.Raw.Section("core").Option("excludesfile"); file != "" {
		patterns = append(patterns, readExcludesFile(file)...)
	}
	return patterns
}

// readExcludesFile parses a gitignore-style file; a missing file yields nothing
func readExcludesFile(path string) []gitignore.Pattern {
	if rest, ok := strings.CutPrefix(path, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, rest)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns
}

func (h *goGitHandle) Branches() ([]string, error) {
	iter, err := h.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer iter.Close()

	var branches []string
	seen := make(map[string]bool)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if !seen[name] {
			seen[name] = true
			branches = append(branches, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}

	// An unborn branch has no ref yet but is still the branch HEAD names
	if unborn, ok := h.unbornBranch(); ok && !seen[unborn] {
		branches = append(branches, unborn)
	}

	return branches, nil
}

func (h *goGitHandle) CurrentBranch() (string, error) {
	ref, err := h.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			if unborn, ok := h.unbornBranch(); ok {
				return unborn, nil
			}
		}
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	if !ref.Name().IsBranch() {
		return "", ErrNoCurrentBranch
	}
	return ref.Name().Short(), nil
}

func (h *goGitHandle) ChangedPaths(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, h.gitBinary, "status", "--porcelain")
	cmd.Dir = h.path

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %s", ErrStatusQueryFailed, err, strings.TrimSpace(stderr.String()))
	}

	return ParsePorcelain(output), nil
}

// unbornBranch returns the branch HEAD points at when that branch has no
// commits yet
func (h *goGitHandle) unbornBranch() (string, bool) {
	head, err := h.repo.Storer.Reference(plumbing.HEAD)
	if err != nil || head.Type() != plumbing.SymbolicReference {
		return "", false
	}

	target := head.Target()
	if !target.IsBranch() {
		return "", false
	}
	if _, err := h.repo.Storer.Reference(target); err == nil {
		return "", false
	}
	return target.Short(), true
}

// ParsePorcelain splits "git status --porcelain" output into one raw line per
// changed path. Leading status columns are kept as-is.
func ParsePorcelain(output []byte) []string {
	lines := []string{}
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
