// Package staleness decides whether a target's command has to run.
package staleness

import (
	"sync"
	"time"

	"go.trai.ch/nob/internal/core/domain"
	"go.trai.ch/nob/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// ReasonMissingOutput is reported when the output does not exist.
	ReasonMissingOutput = "missing output"
	// ReasonNewerDependency prefixes the reason for a dependency newer than the output.
	ReasonNewerDependency = "newer dependency "
	// ReasonProgramChanged is reported when the build program's sources are newer than the output.
	ReasonProgramChanged = "build program changed"
	// ReasonUpToDate is reported when nothing has to run.
	ReasonUpToDate = "up to date"
	// ReasonSource is reported for source leaves present on disk.
	ReasonSource = "source"
)

// Decision is the result of checking one target.
type Decision struct {
	// Rebuild is set when the target's command must run.
	Rebuild bool
	// Reason explains the decision.
	Reason string
}

// Oracle compares output modification times with those of dependencies and
// of the build program's own sources.
type Oracle struct {
	stater      ports.FileStater
	selfSources []string

	selfOnce sync.Once
	selfTime time.Time
	selfErr  error
}

// New creates an Oracle. selfSources may be empty.
func New(stater ports.FileStater, selfSources []string) *Oracle {
	return &Oracle{
		stater:      stater,
		selfSources: selfSources,
	}
}

// Check decides whether t must be rebuilt. All dependencies of t are expected
// to be terminal. Equal timestamps are not considered stale.
func (o *Oracle) Check(t *domain.Target) (Decision, error) {
	m, err := o.stater.ModTime(t.Output())
	if err != nil {
		return Decision{}, err
	}

	if t.IsSource() {
		if m.IsZero() {
			return Decision{}, zerr.With(
				zerr.Wrap(domain.ErrMissingSource, t.Output()),
				"output", t.Output(),
			)
		}
		return Decision{Reason: ReasonSource}, nil
	}

	if m.IsZero() {
		return Decision{Rebuild: true, Reason: ReasonMissingOutput}, nil
	}

	for dep := range t.Deps() {
		dm, err := o.stater.ModTime(dep.Output())
		if err != nil {
			return Decision{}, err
		}
		if dm.After(m) {
			return Decision{Rebuild: true, Reason: ReasonNewerDependency + dep.Output()}, nil
		}
	}

	self, err := o.newestSelfSource()
	if err != nil {
		return Decision{}, err
	}
	if self.After(m) {
		return Decision{Rebuild: true, Reason: ReasonProgramChanged}, nil
	}

	return Decision{Reason: ReasonUpToDate}, nil
}

// newestSelfSource stats the build program's sources once per oracle.
func (o *Oracle) newestSelfSource() (time.Time, error) {
	o.selfOnce.Do(func() {
		o.selfTime, o.selfErr = NewestModTime(o.stater, o.selfSources)
	})
	return o.selfTime, o.selfErr
}

// NewestModTime returns the latest modification time among paths.
// Missing paths are ignored.
func NewestModTime(stater ports.FileStater, paths []string) (time.Time, error) {
	var newest time.Time
	for _, p := range paths {
		m, err := stater.ModTime(p)
		if err != nil {
			return time.Time{}, err
		}
		if m.After(newest) {
			newest = m
		}
	}
	return newest, nil
}
