package git

import (
	"context"
	"fmt"
	"sync"
)

// MockRepository is the canned state a MockCapability reports for one path.
// A non-nil *Err field makes the corresponding query fail.
type MockRepository struct {
	Dirty       bool
	DirtyErr    error
	Branches    []string
	BranchesErr error
	Current     string
	CurrentErr  error
	Changed     []string
	ChangedErr  error
}

// MockCapability is an in-memory Capability for tests
type MockCapability struct {
	mu    sync.Mutex
	repos map[string]*MockRepository
	opens map[string]int
}

// NewMockCapability creates an empty mock; unknown paths are not repositories
func NewMockCapability() *MockCapability {
	return &MockCapability{
		repos: make(map[string]*MockRepository),
		opens: make(map[string]int),
	}
}

// Set registers the state reported for path
func (m *MockCapability) Set(path string, repo *MockRepository) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.repos[path] = repo
}

// Opens returns how many times path was opened successfully
func (m *MockCapability) Opens(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens[path]
}

// Open implements Capability
func (m *MockCapability) Open(path string) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	repo, ok := m.repos[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotARepository, path)
	}
	m.opens[path]++
	return &mockHandle{path: path, repo: *repo}, nil
}

type mockHandle struct {
	path string
	repo MockRepository
}

func (h *mockHandle) Path() string { return h.path }

func (h *mockHandle) IsDirty(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return h.repo.Dirty, h.repo.DirtyErr
}

func (h *mockHandle) Branches() ([]string, error) {
	if h.repo.BranchesErr != nil {
		return nil, h.repo.BranchesErr
	}
	return append([]string(nil), h.repo.Branches...), nil
}

func (h *mockHandle) CurrentBranch() (string, error) {
	return h.repo.Current, h.repo.CurrentErr
}

func (h *mockHandle) ChangedPaths(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if h.repo.ChangedErr != nil {
		return nil, h.repo.ChangedErr
	}
	return append([]string(nil), h.repo.Changed...), nil
}
