package domain

import "runtime"

// Config holds the values the engine consumes. It is passed explicitly to the
// scheduler and the self-rebuild bootstrapper; nothing reads it from globals.
type Config struct {
	// Compiler and CFlags build object files from sources.
	Compiler []string
	CFlags   []string
	// Linker, LDFlags and Libs link the final binary.
	Linker  []string
	LDFlags []string
	Libs    []string
	// SelfCompiler rebuilds the build program itself.
	SelfCompiler []string
	// Jobs bounds the number of concurrently running commands. Zero selects runtime.NumCPU.
	Jobs int
	// KeepGoing keeps building targets unrelated to a failed command.
	KeepGoing bool
	// DryRun reports the commands that would run without spawning them.
	DryRun bool
	// SelfSources are the build program's own sources. A command target older
	// than any of them is rebuilt.
	SelfSources []string
}

// DefaultConfig returns the configuration used when no companion file exists.
func DefaultConfig() Config {
	return Config{
		Compiler:     []string{"cc"},
		CFlags:       []string{"-Wall", "-Wextra"},
		Linker:       []string{"cc"},
		SelfCompiler: []string{"go", "build"},
	}
}

// Parallelism returns the effective worker count.
func (c Config) Parallelism() int {
	if c.Jobs > 0 {
		return c.Jobs
	}
	return max(runtime.NumCPU(), 1)
}

// Project describes the C project built by the reference driver.
type Project struct {
	// Name is the produced binary's base name.
	Name string
	// Root is the directory patterns and paths are relative to.
	Root string
	// Sources are glob patterns selecting translation units.
	Sources []string
	// Include are glob patterns of files every object depends on, such as headers.
	Include []string
	// BuildDir receives objects and the binary.
	BuildDir string
}

// Manifest is the parsed companion configuration.
type Manifest struct {
	// Path is the file the manifest was read from, empty when defaults were used.
	Path    string
	Build   Config
	Project Project
}
