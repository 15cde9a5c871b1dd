// Package status builds working-tree status snapshots for repositories.
package status

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/aki/gitboss/internal/core/git"
	"github.com/aki/gitboss/internal/core/logger"
	"github.com/aki/gitboss/internal/core/repository"
)

// ErrNotARepository is the only error Status returns
var ErrNotARepository = git.ErrNotARepository

// Snapshot is the status of one working tree at one moment
type Snapshot struct {
	Path          string   `json:"path"`
	Dirty         bool     `json:"dirty"`
	Branches      []string `json:"branches"`
	CurrentBranch string   `json:"current_branch"`
	// Detached is set when HEAD does not point at a branch
	Detached     bool     `json:"detached"`
	ChangedPaths []string `json:"changed_paths"`
	// ChangedPathsErr describes why ChangedPaths is empty when the query failed
	ChangedPathsErr string `json:"changed_paths_error,omitempty"`
}

// Result pairs a path with its snapshot or the reason there is none
type Result struct {
	Path     string
	Snapshot *Snapshot
	Err      error
}

// DefaultConcurrency bounds how many repositories StatusAll queries at once
const DefaultConcurrency = 4

// Aggregator opens repositories and collects their status
type Aggregator struct {
	capability  git.Capability
	log         logger.Logger
	concurrency int
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithConcurrency sets the StatusAll worker limit; values below 1 mean 1
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n < 1 {
			n = 1
		}
		a.concurrency = n
	}
}

// NewAggregator creates an Aggregator over capability
func NewAggregator(capability git.Capability, log logger.Logger, opts ...Option) *Aggregator {
	if log == nil {
		log = logger.Nop()
	}
	a := &Aggregator{capability: capability, log: log, concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Open canonicalizes path and opens it as a working tree
func (a *Aggregator) Open(path string) (git.Handle, error) {
	canonical, err := repository.Canonicalize(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotARepository, path, err)
	}

	handle, err := a.capability.Open(canonical.String())
	if err != nil {
		if errors.Is(err, ErrNotARepository) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrNotARepository, canonical, err)
	}
	return handle, nil
}

// Status opens path and builds a snapshot. Query failures after a successful
// open degrade the affected fields and are logged; only a path that is not a
// working tree is an error.
func (a *Aggregator) Status(ctx context.Context, path string) (*Snapshot, error) {
	handle, err := a.Open(path)
	if err != nil {
		return nil, err
	}

	log := a.log.With("repo", handle.Path())
	snap := &Snapshot{
		Path:         handle.Path(),
		Branches:     []string{},
		ChangedPaths: []string{},
	}

	dirty, err := handle.IsDirty(ctx)
	if err != nil {
		log.Warn("failed to read dirty state", "error", err)
	}
	snap.Dirty = dirty

	branches, err := handle.Branches()
	if err != nil {
		log.Warn("failed to list branches", "error", err)
	} else if branches != nil {
		snap.Branches = branches
	}

	current, err := handle.CurrentBranch()
	switch {
	case errors.Is(err, git.ErrNoCurrentBranch):
		snap.Detached = true
	case err != nil:
		log.Warn("failed to read current branch", "error", err)
	default:
		snap.CurrentBranch = current
	}

	changed, err := handle.ChangedPaths(ctx)
	if err != nil {
		log.Warn("failed to list changed paths", "error", err)
		snap.ChangedPathsErr = err.Error()
	} else if changed != nil {
		snap.ChangedPaths = changed
	}

	return snap, nil
}

// StatusAll collects status for each path. Results keep the order of paths.
// A path that is not a working tree is recorded in its Result and does not
// stop the others. Each path gets its own handle, so queries run in parallel.
func (a *Aggregator) StatusAll(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Path: p, Err: err}
				return nil
			}
			snap, err := a.Status(ctx, p)
			results[i] = Result{Path: p, Snapshot: snap, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
