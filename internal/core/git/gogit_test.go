package git_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aki/gitboss/internal/core/git"
	"github.com/aki/gitboss/internal/tests/helpers"
)

func TestGoGit_OpenNotARepository(t *testing.T) {
	capability := git.NewGoGit()

	plain := t.TempDir()
	_, err := capability.Open(plain)
	assert.ErrorIs(t, err, git.ErrNotARepository)

	_, err = capability.Open(filepath.Join(plain, "missing"))
	assert.ErrorIs(t, err, git.ErrNotARepository)

	file := filepath.Join(plain, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = capability.Open(file)
	assert.ErrorIs(t, err, git.ErrNotARepository)
}

func TestGoGit_OpenSubdirectoryIsNotARepository(t *testing.T) {
	repoDir := helpers.CreateTestRepo(t)
	sub := filepath.Join(repoDir, "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	_, err := git.NewGoGit().Open(sub)
	assert.ErrorIs(t, err, git.ErrNotARepository)
}

func TestGoGit_FreshRepository(t *testing.T) {
	repoDir := helpers.InitEmptyRepo(t, filepath.Join(t.TempDir(), "fresh"))

	handle, err := git.NewGoGit().Open(repoDir)
	require.NoError(t, err)
	assert.Equal(t, repoDir, handle.Path())

	dirty, err := handle.IsDirty(context.Background())
	require.NoError(t, err)
	assert.False(t, dirty)

	branches, err := handle.Branches()
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, branches)

	current, err := handle.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "main", current)

	changed, err := handle.ChangedPaths(context.Background())
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestGoGit_UntrackedFilesAreDirty(t *testing.T) {
	repoDir := helpers.CreateTestRepo(t)
	helpers.WriteFile(t, repoDir, "new.txt", "untracked\n")

	handle, err := git.NewGoGit().Open(repoDir)
	require.NoError(t, err)

	dirty, err := handle.IsDirty(context.Background())
	require.NoError(t, err)
	assert.True(t, dirty)

	changed, err := handle.ChangedPaths(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"?? new.txt"}, changed)
}

func TestGoGit_ModifiedAndBranches(t *testing.T) {
	repoDir := helpers.CreateTestRepo(t)
	helpers.RunGit(t, repoDir, "branch", "feature/x")
	helpers.WriteFile(t, repoDir, "README.md", "# Changed\n")

	handle, err := git.NewGoGit().Open(repoDir)
	require.NoError(t, err)

	dirty, err := handle.IsDirty(context.Background())
	require.NoError(t, err)
	assert.True(t, dirty)

	branches, err := handle.Branches()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"main", "feature/x"}, branches)

	current, err := handle.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "main", current)

	changed, err := handle.ChangedPaths(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{" M README.md"}, changed)
}

func TestGoGit_DetachedHead(t *testing.T) {
	repoDir := helpers.CreateTestRepo(t)
	commit := strings.TrimSpace(helpers.RunGit(t, repoDir, "rev-parse", "HEAD"))
	helpers.RunGit(t, repoDir, "checkout", "--detach", commit)

	handle, err := git.NewGoGit().Open(repoDir)
	require.NoError(t, err)

	_, err = handle.CurrentBranch()
	assert.ErrorIs(t, err, git.ErrNoCurrentBranch)

	branches, err := handle.Branches()
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, branches)
}

func TestGoGit_ChangedPathsFailure(t *testing.T) {
	repoDir := helpers.CreateTestRepo(t)

	capability := git.NewGoGit().WithGitBinary(filepath.Join(t.TempDir(), "no-such-git"))
	handle, err := capability.Open(repoDir)
	require.NoError(t, err)

	_, err = handle.ChangedPaths(context.Background())
	assert.ErrorIs(t, err, git.ErrStatusQueryFailed)
}

func TestGoGit_DirtyAgreesWithExcludesFile(t *testing.T) {
	repoDir := helpers.CreateTestRepo(t)
	excludes := filepath.Join(t.TempDir(), "ignore")
	require.NoError(t, os.WriteFile(excludes, []byte("# editor files\n*.swp\n"), 0o644))
	helpers.RunGit(t, repoDir, "config", "core.excludesFile", excludes)
	helpers.WriteFile(t, repoDir, "x.swp", "swap\n")

	tests := []struct {
		name       string
		capability *git.GoGit
	}{
		{name: "git binary", capability: git.NewGoGit()},
		{name: "go-git fallback", capability: git.NewGoGit().WithGitBinary(filepath.Join(t.TempDir(), "no-such-git"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handle, err := tt.capability.Open(repoDir)
			require.NoError(t, err)

			dirty, err := handle.IsDirty(context.Background())
			require.NoError(t, err)
			assert.False(t, dirty)
		})
	}

	handle, err := git.NewGoGit().Open(repoDir)
	require.NoError(t, err)
	changed, err := handle.ChangedPaths(context.Background())
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestGoGit_FallbackHonoursGlobalExcludes(t *testing.T) {
	repoDir := helpers.CreateTestRepo(t)

	home := t.TempDir()
	excludes := filepath.Join(home, "global-ignore")
	require.NoError(t, os.WriteFile(excludes, []byte("*.swp\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".gitconfig"),
		[]byte("[core]\n\texcludesfile = "+excludes+"\n"), 0o644))
	t.Setenv("HOME", home)

	helpers.WriteFile(t, repoDir, "x.swp", "swap\n")

	capability := git.NewGoGit().WithGitBinary(filepath.Join(t.TempDir(), "no-such-git"))
	handle, err := capability.Open(repoDir)
	require.NoError(t, err)

	dirty, err := handle.IsDirty(context.Background())
	require.NoError(t, err)
	assert.False(t, dirty)
}

func TestGoGit_FallbackStillSeesUntrackedFiles(t *testing.T) {
	repoDir := helpers.CreateTestRepo(t)
	helpers.WriteFile(t, repoDir, "new.txt", "untracked\n")

	capability := git.NewGoGit().WithGitBinary(filepath.Join(t.TempDir(), "no-such-git"))
	handle, err := capability.Open(repoDir)
	require.NoError(t, err)

	dirty, err := handle.IsDirty(context.Background())
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestParsePorcelain(t *testing.T) {
	out := []byte(" M README.md\n?? new.txt\r\nR  old -> new\n\n")
	assert.Equal(t, []string{" M README.md", "?? new.txt", "R  old -> new"}, git.ParsePorcelain(out))
	assert.Empty(t, git.ParsePorcelain(nil))
}
