package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/nob/internal/adapters/config"
	"go.trai.ch/nob/internal/core/domain"
	"go.trai.ch/nob/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func createFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func newLoader(t *testing.T) (*config.Loader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	return config.NewLoader(mockLogger), mockLogger
}

func TestLoader_Load_MissingFileUsesDefaults(t *testing.T) {
	loader, _ := newLoader(t)
	dir := t.TempDir()

	m, err := loader.Load(filepath.Join(dir, "build.config.yaml"))
	require.NoError(t, err)

	assert.Empty(t, m.Path)
	assert.Equal(t, domain.DefaultConfig(), m.Build)
	assert.Equal(t, domain.Project{
		Name:     "main",
		Root:     dir,
		Sources:  []string{"src/*.c"},
		BuildDir: "build",
	}, m.Project)
}

func TestLoader_Load_FullFile(t *testing.T) {
	loader, _ := newLoader(t)
	dir := t.TempDir()
	path := createFile(t, dir, "nob.config.yaml", `
version: "1"
build:
  compiler: clang
  cflags: -O2 -std=c11
  linker: [clang, -fuse-ld=lld]
  libs: ["-lm"]
  self_compiler: go build -trimpath
  jobs: 3
  keep_going: true
  self_sources: [nob.go]
project:
  name: hello
  root: ./c
  sources: ["lib/**/*.c"]
  include: ["include/*.h"]
  build_dir: out
`)

	m, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, m.Path)
	assert.Equal(t, domain.Config{
		Compiler:     []string{"clang"},
		CFlags:       []string{"-O2", "-std=c11"},
		Linker:       []string{"clang", "-fuse-ld=lld"},
		Libs:         []string{"-lm"},
		SelfCompiler: []string{"go", "build", "-trimpath"},
		Jobs:         3,
		KeepGoing:    true,
		SelfSources:  []string{"nob.go"},
	}, m.Build)
	assert.Equal(t, domain.Project{
		Name:     "hello",
		Root:     filepath.Join(dir, "c"),
		Sources:  []string{"lib/**/*.c"},
		Include:  []string{"include/*.h"},
		BuildDir: "out",
	}, m.Project)
}

func TestLoader_Load_EmptyListClearsDefault(t *testing.T) {
	loader, _ := newLoader(t)
	path := createFile(t, t.TempDir(), "nob.config.yaml", "build:\n  cflags: []\n")

	m, err := loader.Load(path)
	require.NoError(t, err)
	assert.Empty(t, m.Build.CFlags)
	assert.Equal(t, []string{"cc"}, m.Build.Compiler)
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "invalid yaml", content: "build: [", want: domain.ErrConfigParseFailed},
		{name: "negative jobs", content: "build:\n  jobs: -1\n", want: domain.ErrInvalidConfig},
		{name: "empty compiler", content: "build:\n  compiler: []\n", want: domain.ErrInvalidConfig},
		{name: "wrong argv type", content: "build:\n  compiler: {a: b}\n", want: domain.ErrConfigParseFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, _ := newLoader(t)
			path := createFile(t, t.TempDir(), "nob.config.yaml", tt.content)

			_, err := loader.Load(path)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoader_Load_UnknownVersionWarns(t *testing.T) {
	loader, mockLogger := newLoader(t)
	path := createFile(t, t.TempDir(), "nob.config.yaml", "version: \"2\"\n")

	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	_, err := loader.Load(path)
	require.NoError(t, err)
}

func TestLoader_Load_ReadError(t *testing.T) {
	loader, _ := newLoader(t)

	// A directory cannot be read as a file.
	_, err := loader.Load(t.TempDir())
	require.ErrorIs(t, err, domain.ErrConfigLoadFailed)
}
