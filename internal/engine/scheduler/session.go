package scheduler

import (
	"sync"

	"go.trai.ch/nob/internal/core/domain"
)

// targetState is the transient state of a target within one build.
type targetState uint8

const (
	stateUnvisited targetState = iota
	stateInProgress
	stateBuilt
	stateFailed
)

// String returns the state name.
func (s targetState) String() string {
	switch s {
	case stateUnvisited:
		return "unvisited"
	case stateInProgress:
		return "in-progress"
	case stateBuilt:
		return "built"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// session holds the per-build state of every target in the closure. It is
// created fresh for each build and never stored on the targets.
type session struct {
	mu     sync.Mutex
	states map[domain.InternedString]targetState
	// planned holds targets a dry run would have built. Their outputs are
	// unchanged on disk, so dependents consult this set instead of mtimes.
	planned map[domain.InternedString]bool
}

func newSession(graph *domain.Graph) *session {
	states := make(map[domain.InternedString]targetState, graph.TargetCount())
	for t := range graph.Walk() {
		states[t.Key()] = stateUnvisited
	}
	return &session{states: states, planned: make(map[domain.InternedString]bool)}
}

// claim moves name from unvisited to in-progress. It reports false when the
// target was already claimed.
func (s *session) claim(name domain.InternedString) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.states[name] != stateUnvisited {
		return false
	}
	s.states[name] = stateInProgress
	return true
}

// skip marks an unvisited target as failed without running it.
func (s *session) skip(name domain.InternedString) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.states[name] != stateUnvisited {
		return false
	}
	s.states[name] = stateFailed
	return true
}

func (s *session) finish(name domain.InternedString, st targetState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[name] = st
}

func (s *session) state(name domain.InternedString) targetState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[name]
}

// plan records that a dry run would have built name.
func (s *session) plan(name domain.InternedString) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.planned[name] = true
}

func (s *session) isPlanned(name domain.InternedString) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planned[name]
}
