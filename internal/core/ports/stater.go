package ports

import "time"

// FileStater reads file modification times.
//
//go:generate mockgen -source=stater.go -destination=mocks/mock_stater.go -package=mocks
type FileStater interface {
	// ModTime returns the modification time of path.
	// A missing file yields the zero time and no error.
	ModTime(path string) (time.Time, error)
}
