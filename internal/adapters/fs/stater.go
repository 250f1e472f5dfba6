package fs

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"go.trai.ch/nob/internal/core/domain"
	"go.trai.ch/nob/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileStater = (*Stater)(nil)

// Stater reads modification times from the local file system.
type Stater struct{}

// NewStater creates a new Stater.
func NewStater() *Stater {
	return &Stater{}
}

// ModTime returns the modification time of path, or the zero time when the
// file does not exist. Symlinks are followed.
func (s *Stater) ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, nil
		}
		return time.Time{}, zerr.With(zerr.Wrap(domain.ErrStatFailed, err.Error()), "path", path)
	}
	return info.ModTime(), nil
}
