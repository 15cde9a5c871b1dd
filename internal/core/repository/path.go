// Package repository defines canonical repository paths and the ordered,
// duplicate-free repository set shown to the user.
package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrMalformedPath is returned when a raw path string cannot be resolved to an
// absolute filesystem path
var ErrMalformedPath = errors.New("malformed repository path")

// Path is the canonical absolute form of a directory believed to hold a git
// working tree. Two Paths are the same repository iff the strings are equal.
type Path string

// String implements fmt.Stringer
func (p Path) String() string {
	return string(p)
}

// Name returns the last element of the path, used as a display name
func (p Path) Name() string {
	return filepath.Base(string(p))
}

// Canonicalize resolves raw into a Path.
//
// A leading "~" is expanded, the result is made absolute and cleaned, and
// symlinks are resolved when the path exists. Paths that no longer exist are
// kept in their cleaned absolute form; existence is not validated here.
func Canonicalize(raw string) (Path, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty path", ErrMalformedPath)
	}
	if strings.ContainsRune(trimmed, 0) {
		return "", fmt.Errorf("%w: %q contains NUL byte", ErrMalformedPath, raw)
	}

	expanded, err := expandHome(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrMalformedPath, raw, err)
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrMalformedPath, raw, err)
	}
	abs = filepath.Clean(abs)

	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	return Path(abs), nil
}

// MustCanonicalize is Canonicalize for inputs known to be well formed.
// It panics on error.
func MustCanonicalize(raw string) Path {
	p, err := Canonicalize(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// FromStrings canonicalizes persisted path strings in order. Entries that
// cannot be resolved are dropped; onDrop, when non-nil, is told about each one.
func FromStrings(raw []string, onDrop func(raw string, err error)) []Path {
	paths := make([]Path, 0, len(raw))
	for _, r := range raw {
		p, err := Canonicalize(r)
		if err != nil {
			if onDrop != nil {
				onDrop(r, err)
			}
			continue
		}
		paths = append(paths, p)
	}
	return paths
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~"+string(os.PathSeparator)) {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
