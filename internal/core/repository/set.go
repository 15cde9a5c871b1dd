package repository

// Set is an ordered sequence of unique repository paths. Display order
// follows insertion order and the first occurrence of a path wins.
//
// A Set is a value: Add and Remove return a new Set and never modify the
// receiver.
type Set struct {
	paths []Path
}

// NewSet builds a Set from paths, keeping the first occurrence of each
func NewSet(paths ...Path) Set {
	seen := make(map[Path]struct{}, len(paths))
	out := make([]Path, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return Set{paths: out}
}

// Merge concatenates persisted and located and keeps the first occurrence of
// each path. Entries from persisted keep their relative order and come before
// paths only found in located.
func Merge(persisted, located []Path) Set {
	all := make([]Path, 0, len(persisted)+len(located))
	all = append(all, persisted...)
	all = append(all, located...)
	return NewSet(all...)
}

// Len returns the number of repositories in the set
func (s Set) Len() int {
	return len(s.paths)
}

// Paths returns a copy of the ordered paths
func (s Set) Paths() []Path {
	out := make([]Path, len(s.paths))
	copy(out, s.paths)
	return out
}

// Strings returns the serialized projection stored in configuration
func (s Set) Strings() []string {
	out := make([]string, len(s.paths))
	for i, p := range s.paths {
		out[i] = string(p)
	}
	return out
}

// IndexOf returns the position of p, or -1
func (s Set) IndexOf(p Path) int {
	for i, existing := range s.paths {
		if existing == p {
			return i
		}
	}
	return -1
}

// Contains reports whether p is in the set
func (s Set) Contains(p Path) bool {
	return s.IndexOf(p) >= 0
}

// Add appends p when absent. The boolean reports whether the set changed.
func (s Set) Add(p Path) (Set, bool) {
	if s.Contains(p) {
		return s, false
	}
	out := make([]Path, len(s.paths), len(s.paths)+1)
	copy(out, s.paths)
	return Set{paths: append(out, p)}, true
}

// Remove deletes p when present. The boolean reports whether the set changed.
func (s Set) Remove(p Path) (Set, bool) {
	idx := s.IndexOf(p)
	if idx < 0 {
		return s, false
	}
	out := make([]Path, 0, len(s.paths)-1)
	out = append(out, s.paths[:idx]...)
	out = append(out, s.paths[idx+1:]...)
	return Set{paths: out}, true
}

// Equal reports whether both sets hold the same paths in the same order
func (s Set) Equal(other Set) bool {
	if len(s.paths) != len(other.paths) {
		return false
	}
	for i := range s.paths {
		if s.paths[i] != other.paths[i] {
			return false
		}
	}
	return true
}
