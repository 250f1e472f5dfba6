// Package config loads the companion configuration of a build program.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/nob/internal/core/domain"
	"go.trai.ch/nob/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the configuration format understood by this loader.
const SupportedVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the configuration at path and merges it over the defaults.
// A missing file yields the defaults with an empty Manifest.Path.
func (l *Loader) Load(path string) (*domain.Manifest, error) {
	manifest := defaultManifest(path)

	var nobfile Nobfile
	if err := readAndUnmarshalYAML(path, &nobfile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return manifest, nil
		}
		return nil, zerr.With(err, "path", path)
	}
	manifest.Path = path

	if nobfile.Version != "" && nobfile.Version != SupportedVersion {
		l.Logger.Warn(fmt.Sprintf("unknown configuration version %q in %s, reading it as version %s",
			nobfile.Version, path, SupportedVersion))
	}

	if err := applyBuild(&manifest.Build, nobfile.Build); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	applyProject(&manifest.Project, nobfile.Project, path)

	return manifest, nil
}

func defaultManifest(path string) *domain.Manifest {
	return &domain.Manifest{
		Build: domain.DefaultConfig(),
		Project: domain.Project{
			Name:     domain.DefaultProjectName,
			Root:     filepath.Clean(filepath.Dir(path)),
			Sources:  []string{domain.DefaultSourcePattern},
			BuildDir: domain.DefaultBuildDir,
		},
	}
}

func applyBuild(cfg *domain.Config, dto BuildDTO) error {
	overrideArgv(&cfg.Compiler, dto.Compiler)
	overrideArgv(&cfg.CFlags, dto.CFlags)
	overrideArgv(&cfg.Linker, dto.Linker)
	overrideArgv(&cfg.LDFlags, dto.LDFlags)
	overrideArgv(&cfg.Libs, dto.Libs)
	overrideArgv(&cfg.SelfCompiler, dto.SelfCompiler)

	if dto.Jobs != nil {
		if *dto.Jobs < 0 {
			return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "jobs must not be negative"), "jobs", *dto.Jobs)
		}
		cfg.Jobs = *dto.Jobs
	}
	if dto.KeepGoing != nil {
		cfg.KeepGoing = *dto.KeepGoing
	}
	if len(dto.SelfSources) > 0 {
		cfg.SelfSources = dto.SelfSources
	}

	if len(cfg.Compiler) == 0 || len(cfg.Linker) == 0 || len(cfg.SelfCompiler) == 0 {
		return zerr.Wrap(domain.ErrInvalidConfig, "compiler, linker and self_compiler must not be empty")
	}
	return nil
}

// overrideArgv replaces dst when the key was present in the file. An empty
// sequence clears the default.
func overrideArgv(dst *[]string, src Argv) {
	if src != nil {
		*dst = []string(src)
	}
}

func applyProject(p *domain.Project, dto ProjectDTO, path string) {
	if dto.Name != "" {
		p.Name = dto.Name
	}
	if dto.Root != "" {
		p.Root = resolveRoot(path, dto.Root)
	}
	if len(dto.Sources) > 0 {
		p.Sources = dto.Sources
	}
	if len(dto.Include) > 0 {
		p.Include = dto.Include
	}
	if dto.BuildDir != "" {
		p.BuildDir = dto.BuildDir
	}
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is chosen by the user
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return zerr.Wrap(domain.ErrConfigLoadFailed, err.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(domain.ErrConfigParseFailed, parseErr.Error())
	}
	return nil
}
