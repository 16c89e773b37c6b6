package media

import (
	"sort"
	"sync"
)

// SidecarSet tracks sidecar paths not yet claimed by any media file. It
// shrinks monotonically as matches claim entries and is safe for concurrent
// use: Claim performs the membership check and removal atomically, so when
// two files race for the same sidecar exactly one wins.
type SidecarSet struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

// NewSidecarSet returns an empty set.
func NewSidecarSet() *SidecarSet {
	return &SidecarSet{paths: make(map[string]struct{})}
}

// Add inserts a sidecar path. Only the scanner grows the set.
func (s *SidecarSet) Add(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths[path] = struct{}{}
}

// Claim removes path from the set and reports whether this caller removed
// it. A false return means the path was never present or another file
// already claimed it.
func (s *SidecarSet) Claim(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.paths[path]; !ok {
		return false
	}
	delete(s.paths, path)
	return true
}

// Contains reports membership without claiming.
func (s *SidecarSet) Contains(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.paths[path]
	return ok
}

// Len returns the number of unclaimed sidecars.
func (s *SidecarSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.paths)
}

// Paths returns a sorted snapshot of the unclaimed sidecar paths.
func (s *SidecarSet) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.paths))
	for p := range s.paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
