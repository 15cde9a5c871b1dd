package repository

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paths(raw ...string) []Path {
	out := make([]Path, len(raw))
	for i, r := range raw {
		out[i] = Path(r)
	}
	return out
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name      string
		persisted []Path
		located   []Path
		want      []string
	}{
		{
			name:      "overlap keeps persisted position",
			persisted: paths("/repo1", "/repo2"),
			located:   paths("/repo2", "/repo3"),
			want:      []string{"/repo1", "/repo2", "/repo3"},
		},
		{
			name:      "located only",
			persisted: nil,
			located:   paths("/b", "/a"),
			want:      []string{"/b", "/a"},
		},
		{
			name:      "persisted duplicates collapse",
			persisted: paths("/a", "/b", "/a"),
			located:   nil,
			want:      []string{"/a", "/b"},
		},
		{
			name:      "both empty",
			persisted: nil,
			located:   nil,
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.persisted, tt.located)
			assert.Equal(t, tt.want, got.Strings())
		})
	}
}

func TestMerge_Idempotent(t *testing.T) {
	a := paths("/x", "/y", "/z")
	b := paths("/z", "/w", "/x", "/v")

	once := Merge(a, b)
	twice := Merge(once.Paths(), b)
	assert.True(t, once.Equal(twice), "merge(merge(A,B),B) = %v, want %v", twice.Strings(), once.Strings())

	self := Merge(once.Paths(), once.Paths())
	assert.True(t, once.Equal(self))

	subset := Merge(once.Paths(), paths("/w"))
	assert.True(t, once.Equal(subset))
}

func TestMerge_PreservesOrderAndUniqueness(t *testing.T) {
	a := paths("/c", "/a", "/b")
	b := paths("/d", "/a", "/e", "/d")

	got := Merge(a, b).Strings()
	assert.Equal(t, []string{"/c", "/a", "/b", "/d", "/e"}, got)

	seen := map[string]bool{}
	for _, p := range got {
		assert.False(t, seen[p], "duplicate %s", p)
		seen[p] = true
	}
}

func TestSet_AddRemove(t *testing.T) {
	set := NewSet(paths("/a", "/b", "/c")...)

	added, changed := set.Add("/d")
	require.True(t, changed)
	assert.Equal(t, []string{"/a", "/b", "/c", "/d"}, added.Strings())
	// receiver untouched
	assert.Equal(t, 3, set.Len())

	again, changed := added.Add("/b")
	assert.False(t, changed)
	assert.True(t, again.Equal(added))

	removed, changed := added.Remove("/d")
	require.True(t, changed)
	assert.True(t, removed.Equal(set), "add then remove should restore %v, got %v", set.Strings(), removed.Strings())

	middle, changed := set.Remove("/b")
	require.True(t, changed)
	assert.Equal(t, []string{"/a", "/c"}, middle.Strings())

	_, changed = set.Remove("/missing")
	assert.False(t, changed)
}

func TestCanonicalize(t *testing.T) {
	tmpDir := t.TempDir()
	realDir := filepath.Join(tmpDir, "real")
	require.NoError(t, os.MkdirAll(realDir, 0o755))

	resolvedReal, err := filepath.EvalSymlinks(realDir)
	require.NoError(t, err)

	t.Run("cleans relative segments", func(t *testing.T) {
		p, err := Canonicalize(filepath.Join(tmpDir, "real", "..", "real"))
		require.NoError(t, err)
		assert.Equal(t, Path(resolvedReal), p)
	})

	t.Run("resolves symlinks", func(t *testing.T) {
		link := filepath.Join(tmpDir, "link")
		require.NoError(t, os.Symlink(realDir, link))

		p, err := Canonicalize(link)
		require.NoError(t, err)
		assert.Equal(t, Path(resolvedReal), p)
	})

	t.Run("keeps missing paths", func(t *testing.T) {
		p, err := Canonicalize("/deleted-repo/./x/..")
		require.NoError(t, err)
		assert.Equal(t, Path("/deleted-repo"), p)
	})

	t.Run("relative paths become absolute", func(t *testing.T) {
		p, err := Canonicalize("some/relative")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(p.String()))
	})

	t.Run("expands home", func(t *testing.T) {
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}
		p, err := Canonicalize("~/gitboss-nonexistent-dir")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "gitboss-nonexistent-dir"), filepath.Clean(p.String()))
	})

	for _, bad := range []string{"", "   ", "a\x00b"} {
		_, err := Canonicalize(bad)
		assert.True(t, errors.Is(err, ErrMalformedPath), "expected ErrMalformedPath for %q, got %v", bad, err)
	}
}

func TestFromStrings_DropsMalformed(t *testing.T) {
	var dropped []string
	got := FromStrings([]string{"/repo1", "", "/repo2", "bad\x00"}, func(raw string, err error) {
		assert.ErrorIs(t, err, ErrMalformedPath)
		dropped = append(dropped, raw)
	})

	assert.Equal(t, paths("/repo1", "/repo2"), got)
	assert.Equal(t, []string{"", "bad\x00"}, dropped)
}
