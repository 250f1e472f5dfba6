package scheduler

import "go.trai.ch/nob/internal/core/domain"

// SessionClaimExported claims every output of graph twice and returns how
// many claims succeeded, followed by the resulting state names.
func SessionClaimExported(graph *domain.Graph) (int, []string) {
	s := newSession(graph)
	claimed := 0
	var states []string
	for t := range graph.Walk() {
		for range 2 {
			if s.claim(t.Key()) {
				claimed++
			}
		}
		states = append(states, s.state(t.Key()).String())
	}
	return claimed, states
}
