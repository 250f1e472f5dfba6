package domain

import (
	"path/filepath"
	"strings"
)

const (
	// DirPerm is the default permission for directories created by the driver.
	DirPerm = 0o750
	// FilePerm is the default permission for files.
	FilePerm = 0o644

	// BackupSuffix is appended to the build program while it is being rebuilt.
	BackupSuffix = ".old"
	// ConfigSuffix replaces the extension of the build program source to name
	// its companion configuration.
	ConfigSuffix = ".config.yaml"

	// DefaultBuildDir receives the driver's objects and binaries.
	DefaultBuildDir = "build"
	// DefaultSourcePattern selects the driver's translation units.
	DefaultSourcePattern = "src/*.c"
	// DefaultProjectName names the driver's binary when the configuration does not.
	DefaultProjectName = "main"
	// DefaultConfigFile is the companion configuration of the nob command itself.
	DefaultConfigFile = "nob" + ConfigSuffix

	// ObjectExt is the extension of compiled translation units.
	ObjectExt = ".o"
)

// BackupPath returns where the running binary is kept while it is rebuilt.
func BackupPath(binary string) string {
	return binary + BackupSuffix
}

// CompanionConfigPath returns the configuration file that belongs to the given
// build program source, e.g. "build.go" -> "build.config.yaml".
func CompanionConfigPath(source string) string {
	ext := filepath.Ext(source)
	return strings.TrimSuffix(source, ext) + ConfigSuffix
}

// ObjectPath returns the object file produced from source inside buildDir.
func ObjectPath(buildDir, source string) string {
	base := filepath.Base(source)
	return filepath.Join(buildDir, strings.TrimSuffix(base, filepath.Ext(base))+ObjectExt)
}
