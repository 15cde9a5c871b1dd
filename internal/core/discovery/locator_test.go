package discovery

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aki/gitboss/internal/core/logger"
	"github.com/aki/gitboss/internal/core/repository"
	"github.com/aki/gitboss/internal/tests/helpers"
)

func baseDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func strs(paths []repository.Path) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p.String()
	}
	return out
}

func TestLocate_DiscoversRepositories(t *testing.T) {
	base := baseDir(t)

	repoA := helpers.MakeFakeRepo(t, filepath.Join(base, "repo_a"))
	nested := helpers.MakeFakeRepo(t, filepath.Join(base, "nested", "repo_nested"))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "not_a_repo"), 0o755))

	got := NewLocator(nil).Locate(context.Background(), base, 2)
	assert.Equal(t, []string{nested, repoA}, strs(got))
}

func TestLocate_DepthBound(t *testing.T) {
	base := baseDir(t)

	a := helpers.MakeFakeRepo(t, filepath.Join(base, "a"))
	b := helpers.MakeFakeRepo(t, filepath.Join(base, "x", "b"))
	deep := helpers.MakeFakeRepo(t, filepath.Join(base, "c", "d", "deep"))

	locator := NewLocator(nil)

	got := locator.Locate(context.Background(), base, 2)
	assert.Equal(t, []string{a, b}, strs(got))

	got = locator.Locate(context.Background(), base, 3)
	assert.Equal(t, []string{a, deep, b}, strs(got))

	got = locator.Locate(context.Background(), base, 1)
	assert.Equal(t, []string{a}, strs(got))

	got = locator.Locate(context.Background(), base, 0)
	assert.Empty(t, got)
}

func TestLocate_BaseIsRepository(t *testing.T) {
	base := helpers.MakeFakeRepo(t, filepath.Join(baseDir(t), "root"))
	helpers.MakeFakeRepo(t, filepath.Join(base, "inner"))

	got := NewLocator(nil).Locate(context.Background(), base, 0)
	assert.Equal(t, []string{base}, strs(got))
}

func TestLocate_DoesNotDescendIntoRepositories(t *testing.T) {
	base := baseDir(t)

	outer := helpers.MakeFakeRepo(t, filepath.Join(base, "outer"))
	helpers.MakeFakeRepo(t, filepath.Join(outer, "submodule"))
	helpers.MakeFakeRepo(t, filepath.Join(outer, ".git", "modules", "sub"))
	helpers.MakeFakeRepo(t, filepath.Join(outer, "src", "vendored"))

	got := NewLocator(nil).Locate(context.Background(), base, 5)
	assert.Equal(t, []string{outer}, strs(got))
}

func TestLocate_SkipsHiddenDirectories(t *testing.T) {
	base := baseDir(t)

	helpers.MakeFakeRepo(t, filepath.Join(base, ".hidden", "repo"))
	helpers.MakeFakeRepo(t, filepath.Join(base, ".dotrepo"))
	visible := helpers.MakeFakeRepo(t, filepath.Join(base, "visible"))

	got := NewLocator(nil).Locate(context.Background(), base, 3)
	assert.Equal(t, []string{visible}, strs(got))
}

func TestLocate_SkipsSymlinkedDirectories(t *testing.T) {
	base := baseDir(t)
	elsewhere := baseDir(t)

	target := helpers.MakeFakeRepo(t, filepath.Join(elsewhere, "target"))
	require.NoError(t, os.Symlink(target, filepath.Join(base, "link")))
	plain := helpers.MakeFakeRepo(t, filepath.Join(base, "real"))

	got := NewLocator(nil).Locate(context.Background(), base, 2)
	assert.Equal(t, []string{plain}, strs(got))
}

func TestLocate_GitFileIsNotARepositoryMarker(t *testing.T) {
	base := baseDir(t)
	worktree := filepath.Join(base, "linked")
	require.NoError(t, os.MkdirAll(worktree, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(worktree, ".git"), []byte("gitdir: /elsewhere\n"), 0o644))

	got := NewLocator(nil).Locate(context.Background(), base, 2)
	assert.Empty(t, got)
}

func TestLocate_MissingBaseDirectory(t *testing.T) {
	var buf bytes.Buffer
	locator := NewLocator(logger.New(logger.WithOutput(&buf)))

	missing := filepath.Join(baseDir(t), "missing")
	got := locator.Locate(context.Background(), missing, 2)
	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Contains(t, buf.String(), "base directory does not exist")

	report, err := locator.Scan(context.Background(), missing, 2)
	require.NoError(t, err)
	assert.True(t, report.BaseMissing)
	assert.Empty(t, report.Repositories)
}

func TestScan_UnreadableDirectoryIsSkipped(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	base := baseDir(t)
	locked := filepath.Join(base, "locked")
	helpers.MakeFakeRepo(t, filepath.Join(locked, "hidden_repo"))
	open := helpers.MakeFakeRepo(t, filepath.Join(base, "open"))

	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	report, err := NewLocator(nil).Scan(context.Background(), base, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{open}, strs(report.Repositories))
	assert.Equal(t, []string{locked}, report.Skipped)
}

func TestScan_Cancelled(t *testing.T) {
	base := baseDir(t)
	helpers.MakeFakeRepo(t, filepath.Join(base, "a"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewLocator(nil).Scan(ctx, base, 2)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Empty(t, report.Repositories)

	assert.Empty(t, NewLocator(nil).Locate(ctx, base, 2))
}

func TestScan_NegativeDepthIsZero(t *testing.T) {
	base := baseDir(t)
	helpers.MakeFakeRepo(t, filepath.Join(base, "a"))

	report, err := NewLocator(nil).Scan(context.Background(), base, -3)
	require.NoError(t, err)
	assert.Equal(t, 0, report.MaxDepth)
	assert.Empty(t, report.Repositories)
}
