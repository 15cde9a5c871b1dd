// Package git is the version-control capability gitboss depends on: opening a
// working tree and querying its dirty state, branches and changed paths.
package git

import (
	"context"
	"errors"
)

var (
	// ErrNotARepository is returned when a path is not a git working tree
	ErrNotARepository = errors.New("not a git repository")

	// ErrNoCurrentBranch is returned when HEAD does not point at a branch
	// (detached HEAD)
	ErrNoCurrentBranch = errors.New("no current branch")

	// ErrStatusQueryFailed is returned when the changed-paths query fails
	ErrStatusQueryFailed = errors.New("status query failed")
)

// Capability opens working trees
type Capability interface {
	// Open validates path as a working tree and returns a handle to it.
	// It fails with ErrNotARepository when path is not one.
	Open(path string) (Handle, error)
}

// Handle queries one opened working tree. Handles are not reused across
// refreshes; callers open a fresh one per query.
type Handle interface {
	// Path returns the working tree root
	Path() string
	// IsDirty reports uncommitted changes, counting untracked files that git
	// does not ignore
	IsDirty(ctx context.Context) (bool, error)
	// Branches lists local branch names
	Branches() ([]string, error)
	// CurrentBranch returns the checked out branch or ErrNoCurrentBranch
	CurrentBranch() (string, error)
	// ChangedPaths returns porcelain status lines, one per changed path
	ChangedPaths(ctx context.Context) ([]string, error)
}
