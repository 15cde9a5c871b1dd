// Package discovery locates git working trees under a base directory.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/aki/gitboss/internal/core/logger"
	"github.com/aki/gitboss/internal/core/repository"
)

// ErrDirectoryNotFound reports a scan base directory that does not exist.
// It is never returned from Locate; Scan records it in Report.BaseMissing.
var ErrDirectoryNotFound = errors.New("base directory not found")

// GitDir is the metadata directory that marks a working tree
const GitDir = ".git"

// Report is the outcome of one scan
type Report struct {
	Base         string
	MaxDepth     int
	Repositories []repository.Path
	// BaseMissing is set when Base does not exist; Repositories is then empty
	BaseMissing bool
	// Skipped lists directories that could not be read
	Skipped []string
}

// Locator walks directory trees looking for git working trees
type Locator struct {
	log logger.Logger
}

// NewLocator creates a Locator
func NewLocator(log logger.Logger) *Locator {
	if log == nil {
		log = logger.Nop()
	}
	return &Locator{log: log}
}

// IsRepository reports whether dir directly contains a .git directory
func IsRepository(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, GitDir))
	return err == nil && info.IsDir()
}

// Locate returns the repositories under base up to maxDepth levels deep, in
// traversal order. A missing base yields an empty result, not an error.
func (l *Locator) Locate(ctx context.Context, base string, maxDepth int) []repository.Path {
	report, err := l.Scan(ctx, base, maxDepth)
	if err != nil {
		l.log.Warn("scan aborted", "base", base, "error", err)
		if report == nil {
			return []repository.Path{}
		}
	}
	return report.Repositories
}

type frame struct {
	dir   string
	depth int
}

// Scan walks base depth-first. base is depth 0 and directories deeper than
// maxDepth are never visited. A directory that is a repository is recorded
// and not descended into. Hidden and symlinked directories are skipped, as
// are unreadable ones, which are listed in Report.Skipped.
//
// Only cancellation of ctx produces an error; the partial report is returned
// with it.
func (l *Locator) Scan(ctx context.Context, base string, maxDepth int) (*Report, error) {
	if maxDepth < 0 {
		maxDepth = 0
	}

	log := l.log.With("scan_id", uuid.NewString())
	report := &Report{
		Base:         base,
		MaxDepth:     maxDepth,
		Repositories: []repository.Path{},
	}

	root, err := repository.Canonicalize(base)
	if err != nil {
		log.Warn("invalid base directory", "base", base, "error", err)
		report.BaseMissing = true
		return report, nil
	}
	report.Base = root.String()

	info, err := os.Stat(root.String())
	if err != nil || !info.IsDir() {
		log.Warn("base directory does not exist", "base", root, "error", ErrDirectoryNotFound)
		report.BaseMissing = true
		return report, nil
	}

	log.Debug("scan started", "base", root, "max_depth", maxDepth)

	stack := []frame{{dir: root.String(), depth: 0}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("scan cancelled: %w", err)
		}

		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if IsRepository(current.dir) {
			report.Repositories = append(report.Repositories, repository.Path(current.dir))
			continue
		}

		if current.depth >= maxDepth {
			continue
		}

		children, err := childDirectories(current.dir)
		if err != nil {
			log.Debug("skipping unreadable directory", "dir", current.dir, "error", err)
			report.Skipped = append(report.Skipped, current.dir)
			continue
		}

		// Push in reverse so children pop in listing order
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{dir: children[i], depth: current.depth + 1})
		}
	}

	log.Info("scan finished", "base", root, "found", len(report.Repositories), "skipped", len(report.Skipped))
	return report, nil
}

// childDirectories lists the non-hidden, non-symlink subdirectories of dir in
// name order
func childDirectories(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var children []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if entry.Type()&os.ModeSymlink != 0 || !entry.IsDir() {
			continue
		}
		children = append(children, filepath.Join(dir, entry.Name()))
	}
	return children, nil
}
