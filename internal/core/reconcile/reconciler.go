// Package reconcile keeps the persisted repository list in step with what is
// found on disk and what the user adds or removes.
package reconcile

import (
	"context"
	"fmt"
	"sync"

	"github.com/aki/gitboss/internal/core/logger"
	"github.com/aki/gitboss/internal/core/repository"
)

// Store persists the serialized repository list
type Store interface {
	LoadRepositories(ctx context.Context) ([]string, error)
	SaveRepositories(ctx context.Context, repositories []string) error
}

// Scanner locates repositories below a base directory
type Scanner interface {
	Locate(ctx context.Context, base string, maxDepth int) []repository.Path
}

// Reconciler applies set mutations and persists each result. Mutations are
// serialized within one process.
type Reconciler struct {
	mu      sync.Mutex
	store   Store
	scanner Scanner
	log     logger.Logger
}

// New creates a Reconciler
func New(store Store, scanner Scanner, log logger.Logger) *Reconciler {
	if log == nil {
		log = logger.Nop()
	}
	return &Reconciler{
		store:   store,
		scanner: scanner,
		log:     log,
	}
}

// Load reads the persisted list. Entries that cannot be canonicalized are
// dropped with a warning.
func (r *Reconciler) Load(ctx context.Context) (repository.Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, _, err := r.load(ctx)
	return set, err
}

// Merge combines persisted with located, keeping persisted order first, and
// saves the result
func (r *Reconciler) Merge(ctx context.Context, persisted repository.Set, located []repository.Path) (repository.Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.merge(ctx, persisted, located)
}

// Add appends raw to set when it is not already present. Nothing is saved
// when the set does not change.
func (r *Reconciler) Add(ctx context.Context, set repository.Set, raw string) (repository.Set, error) {
	p, err := repository.Canonicalize(raw)
	if err != nil {
		return set, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next, changed := set.Add(p)
	if !changed {
		r.log.Debug("repository already tracked", "path", p)
		return next, nil
	}

	r.log.Info("repository added", "path", p)
	return next, r.persist(ctx, next)
}

// Remove deletes raw from set when present. Nothing is saved when the set
// does not change.
func (r *Reconciler) Remove(ctx context.Context, set repository.Set, raw string) (repository.Set, error) {
	p, err := repository.Canonicalize(raw)
	if err != nil {
		return set, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next, changed := set.Remove(p)
	if !changed {
		r.log.Debug("repository not tracked", "path", p)
		return next, nil
	}

	r.log.Info("repository removed", "path", p)
	return next, r.persist(ctx, next)
}

// Rescan locates repositories under base and merges them into set
func (r *Reconciler) Rescan(ctx context.Context, set repository.Set, base string, maxDepth int) (repository.Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.rescan(ctx, set, base, maxDepth)
}

// Collect is the startup path: load the persisted list, then rescan base when
// one is configured. Without a base the loaded list is returned, and only
// saved if malformed entries had to be dropped.
func (r *Reconciler) Collect(ctx context.Context, base string, maxDepth int) (repository.Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, dropped, err := r.load(ctx)
	if err != nil {
		return set, err
	}

	if base == "" {
		if dropped > 0 {
			return set, r.persist(ctx, set)
		}
		return set, nil
	}

	return r.rescan(ctx, set, base, maxDepth)
}

func (r *Reconciler) load(ctx context.Context) (repository.Set, int, error) {
	raw, err := r.store.LoadRepositories(ctx)
	if err != nil {
		return repository.NewSet(), 0, fmt.Errorf("failed to load repositories: %w", err)
	}

	dropped := 0
	paths := repository.FromStrings(raw, func(entry string, err error) {
		dropped++
		r.log.Warn("dropping malformed repository entry", "entry", entry, "error", err)
	})

	set := repository.NewSet(paths...)
	if set.Len() != len(paths) {
		dropped += len(paths) - set.Len()
	}
	return set, dropped, nil
}

func (r *Reconciler) rescan(ctx context.Context, set repository.Set, base string, maxDepth int) (repository.Set, error) {
	located := r.scanner.Locate(ctx, base, maxDepth)
	r.log.Debug("rescan located repositories", "base", base, "max_depth", maxDepth, "found", len(located))
	return r.merge(ctx, set, located)
}

func (r *Reconciler) merge(ctx context.Context, persisted repository.Set, located []repository.Path) (repository.Set, error) {
	merged := repository.Merge(persisted.Paths(), located)
	if added := merged.Len() - persisted.Len(); added > 0 {
		r.log.Info("new repositories found", "added", added, "total", merged.Len())
	}
	return merged, r.persist(ctx, merged)
}

func (r *Reconciler) persist(ctx context.Context, set repository.Set) error {
	if err := r.store.SaveRepositories(ctx, set.Strings()); err != nil {
		r.log.Error("failed to persist repositories", "error", err)
		return fmt.Errorf("failed to persist repositories: %w", err)
	}
	return nil
}
