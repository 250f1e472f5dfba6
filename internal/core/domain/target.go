package domain

import (
	"iter"
	"slices"
)

// Target is a node of the build graph: an output path, an optional command
// producing it and the targets it depends on.
//
// A target without a command is a source leaf, a file expected to exist already.
// Targets are owned by the caller. The scheduler never mutates them and keeps
// per-build state in its own session, so the same targets can be built again.
type Target struct {
	output InternedString
	cmd    *Command
	deps   []*Target
}

// NewTarget creates a target producing output with cmd. A nil cmd makes a source leaf.
func NewTarget(output string, cmd *Command, deps ...*Target) *Target {
	t := &Target{
		output: NewInternedString(output),
		cmd:    cmd,
	}
	t.AddDeps(deps...)
	return t
}

// Source creates a source leaf for an existing file.
func Source(path string) *Target {
	return NewTarget(path, nil)
}

// Output returns the output path.
func (t *Target) Output() string {
	return t.output.String()
}

// Key returns the interned output path used to identify the target within a build.
func (t *Target) Key() InternedString {
	return t.output
}

// Command returns the build command, or nil for a source leaf.
func (t *Target) Command() *Command {
	return t.cmd
}

// SetCommand replaces the build command. A nil cmd turns the target into a source leaf.
func (t *Target) SetCommand(cmd *Command) {
	t.mustBeValid()
	t.cmd = cmd
}

// IsSource reports whether the target is a source leaf.
func (t *Target) IsSource() bool {
	return t.cmd == nil
}

// AddDep appends dep to the dependency list.
func (t *Target) AddDep(dep *Target) {
	t.mustBeValid()
	if dep == nil {
		panic(ErrNilTarget)
	}
	t.deps = append(t.deps, dep)
}

// AddDeps appends deps to the dependency list, in order.
func (t *Target) AddDeps(deps ...*Target) {
	for _, dep := range deps {
		t.AddDep(dep)
	}
}

// HasDep reports whether a dependency with the same output as dep is present.
func (t *Target) HasDep(dep *Target) bool {
	if t == nil || dep == nil {
		return false
	}
	return slices.ContainsFunc(t.deps, func(d *Target) bool { return d.output == dep.output })
}

// RemoveDep removes the first dependency with the same output as dep.
// It reports whether a dependency was removed.
func (t *Target) RemoveDep(dep *Target) bool {
	t.mustBeValid()
	if dep == nil {
		return false
	}
	i := slices.IndexFunc(t.deps, func(d *Target) bool { return d.output == dep.output })
	if i < 0 {
		return false
	}
	t.deps = slices.Delete(t.deps, i, i+1)
	return true
}

// ClearDeps removes all dependencies.
func (t *Target) ClearDeps() {
	t.mustBeValid()
	clear(t.deps)
	t.deps = t.deps[:0]
}

// DepCount returns the number of direct dependencies.
func (t *Target) DepCount() int {
	if t == nil {
		return 0
	}
	return len(t.deps)
}

// Deps returns an iterator over the direct dependencies, in insertion order.
func (t *Target) Deps() iter.Seq[*Target] {
	return func(yield func(*Target) bool) {
		if t == nil {
			return
		}
		for _, d := range t.deps {
			if !yield(d) {
				return
			}
		}
	}
}

func (t *Target) mustBeValid() {
	if t == nil {
		panic(ErrNilTarget)
	}
}
