package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph is the read-only snapshot of a target closure taken for one build.
// It indexes targets by output, records dependents and, once validated,
// holds a topological execution order.
type Graph struct {
	root           InternedString
	targets        map[InternedString]*Target
	order          []InternedString
	dependents     map[InternedString][]InternedString
	executionOrder []InternedString
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		targets:    make(map[InternedString]*Target),
		dependents: make(map[InternedString][]InternedString),
	}
}

// NewGraphFrom collects the transitive closure of root and validates it.
func NewGraphFrom(root *Target) (*Graph, error) {
	if root == nil {
		return nil, ErrNilTarget
	}

	g := NewGraph()
	g.root = root.Key()

	seen := make(map[*Target]bool)
	queue := []*Target{root}
	seen[root] = true
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]

		if err := g.AddTarget(t); err != nil {
			return nil, err
		}
		for dep := range t.Deps() {
			if !seen[dep] {
				seen[dep] = true
				queue = append(queue, dep)
			}
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// AddTarget adds a target to the graph.
// Adding the same target twice is a no-op; adding a different target with an
// output already present returns ErrDuplicateOutput.
func (g *Graph) AddTarget(t *Target) error {
	if t == nil {
		return ErrNilTarget
	}
	if existing, exists := g.targets[t.Key()]; exists {
		if existing == t {
			return nil
		}
		return zerr.With(
			zerr.Wrap(ErrDuplicateOutput, "two targets produce "+t.Output()),
			"output", t.Output(),
		)
	}
	g.targets[t.Key()] = t
	g.order = append(g.order, t.Key())
	return nil
}

// Validate checks for cycles using a depth-first topological sort.
// It populates the execution order and the dependents index.
func (g *Graph) Validate() error {
	g.executionOrder = make([]InternedString, 0, len(g.targets))
	g.dependents = make(map[InternedString][]InternedString, len(g.targets))
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		t := g.targets[u]
		for dep := range t.Deps() {
			key := dep.Key()
			if existing, ok := g.targets[key]; !ok || existing != dep {
				if !ok {
					return zerr.With(ErrTargetNotFound, "output", key.String())
				}
				return zerr.With(
					zerr.Wrap(ErrDuplicateOutput, "two targets produce "+key.String()),
					"output", key.String(),
				)
			}
			if !slices.Contains(g.dependents[key], u) {
				g.dependents[key] = append(g.dependents[key], u)
			}
			if visited[key] == 1 {
				return g.buildCycleError(path, key)
			}
			if visited[key] == 0 {
				if err := visit(key); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	// Insertion order keeps the execution order stable across runs.
	for _, name := range g.order {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func (g *Graph) buildCycleError(path []InternedString, dep InternedString) error {
	startIdx := 0
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	parts := make([]string, 0, len(path)-startIdx+1)
	for _, node := range path[startIdx:] {
		parts = append(parts, node.String())
	}
	parts = append(parts, dep.String())
	cyclePath := strings.Join(parts, " -> ")

	return zerr.With(zerr.Wrap(ErrCycleDetected, cyclePath), "cycle", cyclePath)
}

// Root returns the output of the target the graph was built from.
func (g *Graph) Root() InternedString {
	return g.root
}

// GetTarget returns the target producing output.
func (g *Graph) GetTarget(output InternedString) (*Target, bool) {
	t, ok := g.targets[output]
	return t, ok
}

// TargetCount returns the number of targets in the graph.
func (g *Graph) TargetCount() int {
	return len(g.targets)
}

// Dependents returns the outputs that directly depend on output.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Dependents(output InternedString) []InternedString {
	return g.dependents[output]
}

// Walk returns an iterator that yields targets in execution order,
// dependencies before their dependents.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[*Target] {
	return func(yield func(*Target) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.targets[name]) {
				return
			}
		}
	}
}
