// Package process replaces the running build program with a rebuilt binary.
package process

import (
	"os"
	"os/exec"

	"go.trai.ch/nob/internal/core/domain"
	"go.trai.ch/nob/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ProcessReplacer = (*Replacer)(nil)

// Replacer implements ports.ProcessReplacer.
type Replacer struct {
	// exit terminates the process after a spawned replacement finished.
	exit func(code int)
}

// NewReplacer creates a Replacer that exits the process through os.Exit.
func NewReplacer() *Replacer {
	return &Replacer{exit: os.Exit}
}

// resolve looks binary up the way a shell would, keeping explicit paths as they are.
func resolve(binary string) (string, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrExecFailed, err.Error()), "binary", binary)
	}
	return path, nil
}

// spawn runs binary as a child with inherited streams and exits with its
// exit code. It only returns when the child could not be started.
func (r *Replacer) spawn(path string, args []string) error {
	cmd := &exec.Cmd{
		Path:   path,
		Args:   args,
		Env:    os.Environ(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	if err := cmd.Start(); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrExecFailed, err.Error()), "binary", path)
	}

	code := 0
	if err := cmd.Wait(); err != nil {
		code = 1
		if cmd.ProcessState != nil && cmd.ProcessState.ExitCode() > 0 {
			code = cmd.ProcessState.ExitCode()
		}
	}
	r.exit(code)
	return nil
}
