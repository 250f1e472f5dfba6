//go:build unix

package process

import (
	"os"

	"go.trai.ch/nob/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sys/unix"
)

// Replace executes binary in place of the current process image. The process
// ID, environment and open standard streams are kept.
func (r *Replacer) Replace(binary string, args []string) error {
	path, err := resolve(binary)
	if err != nil {
		return err
	}

	if err := unix.Exec(path, args, os.Environ()); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrExecFailed, err.Error()), "binary", path)
	}
	return nil
}
