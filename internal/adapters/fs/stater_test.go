package fs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/nob/internal/adapters/fs"
)

func TestStater_ModTime(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "lib.o")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	stamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, stamp, stamp))

	mtime, err := fs.NewStater().ModTime(path)
	require.NoError(t, err)
	assert.True(t, mtime.Equal(stamp))
}

func TestStater_ModTimeMissing(t *testing.T) {
	mtime, err := fs.NewStater().ModTime(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.True(t, mtime.IsZero())
}
