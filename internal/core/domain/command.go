// Package domain contains the core domain models of the build graph: commands,
// targets, the per-build graph snapshot and the build report.
package domain

import (
	"slices"
	"strings"
)

// Command is an ordered argument vector describing one external process
// invocation. The first argument names the program.
//
// A zero Command is empty and valid to build on; running an empty command fails.
type Command struct {
	args []string
}

// NewCommand creates a command from the given arguments.
func NewCommand(args ...string) *Command {
	c := &Command{}
	c.Append(args...)
	return c
}

// Append adds the non-empty args to the end of the command, in order.
// Empty strings are dropped, so optional flags can be passed unconditionally.
// Appending to a nil command panics with ErrNilCommand.
func (c *Command) Append(args ...string) {
	if c == nil {
		panic(ErrNilCommand)
	}
	for _, arg := range args {
		if arg != "" {
			c.args = append(c.args, arg)
		}
	}
}

// Extend appends all arguments of src, in order. A nil src is a no-op.
func (c *Command) Extend(src *Command) {
	if c == nil {
		panic(ErrNilCommand)
	}
	if src == nil {
		return
	}
	c.args = append(c.args, src.args...)
}

// Clone returns an independent copy of the command.
func (c *Command) Clone() *Command {
	if c == nil {
		panic(ErrNilCommand)
	}
	return &Command{args: slices.Clone(c.args)}
}

// Reset drops all arguments while keeping the allocated storage.
func (c *Command) Reset() {
	if c == nil {
		panic(ErrNilCommand)
	}
	c.args = c.args[:0]
}

// Args returns a copy of the argument vector.
func (c *Command) Args() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.args)
}

// Len returns the number of arguments.
func (c *Command) Len() int {
	if c == nil {
		return 0
	}
	return len(c.args)
}

// Empty reports whether the command has no arguments.
func (c *Command) Empty() bool {
	return c.Len() == 0
}

// Name returns the program name, or an empty string for an empty command.
func (c *Command) Name() string {
	if c.Len() == 0 {
		return ""
	}
	return c.args[0]
}

// String renders the command the way it is echoed before running.
// Arguments containing whitespace are wrapped in single quotes.
func (c *Command) String() string {
	if c.Len() == 0 {
		return ""
	}
	var b strings.Builder
	for i, arg := range c.args {
		if i > 0 {
			b.WriteByte(' ')
		}
		if strings.ContainsAny(arg, " \t\n") {
			b.WriteByte('\'')
			b.WriteString(arg)
			b.WriteByte('\'')
			continue
		}
		b.WriteString(arg)
	}
	return b.String()
}
