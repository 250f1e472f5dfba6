package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrNilTarget is returned when a nil target is used as a build root or dependency.
	ErrNilTarget = zerr.New("target is nil")

	// ErrNilCommand is raised when a builder operation is applied to a nil command.
	ErrNilCommand = zerr.New("command is nil")

	// ErrDuplicateOutput is returned when two distinct targets declare the same output path.
	ErrDuplicateOutput = zerr.New("duplicate output")

	// ErrCycleDetected is returned when a cycle is detected in the target dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTargetNotFound is returned when a requested output is not part of the graph.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrMissingSource is returned when a source leaf does not exist on disk.
	ErrMissingSource = zerr.New("source file is missing")

	// ErrStatFailed is returned when a file's modification time cannot be read.
	ErrStatFailed = zerr.New("failed to stat file")

	// ErrEmptyCommand is returned when a command with no arguments is run.
	ErrEmptyCommand = zerr.New("command is empty")

	// ErrCommandFailed is returned when a command exits with a non-zero status or cannot be spawned.
	ErrCommandFailed = zerr.New("command failed")

	// ErrCommandSignaled is returned when a command is terminated by a signal.
	ErrCommandSignaled = zerr.New("command terminated by signal")

	// ErrTargetFailed wraps the failure of a single target.
	ErrTargetFailed = zerr.New("target failed")

	// ErrBuildFailed is returned when at least one target of a build failed.
	ErrBuildFailed = zerr.New("build failed")

	// ErrBackupFailed is returned when the running build program cannot be moved to its backup path.
	ErrBackupFailed = zerr.New("failed to back up build program")

	// ErrRebuildFailed is returned when the build program could not be recompiled.
	ErrRebuildFailed = zerr.New("failed to rebuild build program")

	// ErrRestoreFailed is returned when the backup cannot be moved back after a failed rebuild.
	ErrRestoreFailed = zerr.New("failed to restore build program")

	// ErrExecFailed is returned when the rebuilt program cannot replace the running process.
	ErrExecFailed = zerr.New("failed to restart build program")

	// ErrConfigLoadFailed is returned when the companion configuration cannot be read or parsed.
	ErrConfigLoadFailed = zerr.New("failed to load configuration")

	// ErrConfigParseFailed is returned when the companion configuration is not valid YAML.
	ErrConfigParseFailed = zerr.New("failed to parse configuration")

	// ErrInvalidConfig is returned when a configuration value is out of range.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrNoSources is returned when the project patterns match no source files.
	ErrNoSources = zerr.New("no source files found")
)

// fatalErrors lists the sentinels after which a build must not continue.
var fatalErrors = []error{
	ErrNilTarget,
	ErrDuplicateOutput,
	ErrCycleDetected,
	ErrMissingSource,
	ErrCommandSignaled,
	ErrBackupFailed,
	ErrRestoreFailed,
	ErrExecFailed,
}

// IsFatal reports whether err belongs to a category that aborts the build program.
// Plain command failures are not fatal: they fail the affected targets only.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	for _, sentinel := range fatalErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
