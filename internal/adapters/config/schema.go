package config

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Nobfile represents the structure of a companion configuration file.
type Nobfile struct {
	Version string     `yaml:"version"`
	Build   BuildDTO   `yaml:"build"`
	Project ProjectDTO `yaml:"project"`
}

// BuildDTO holds the engine settings.
type BuildDTO struct {
	Compiler     Argv     `yaml:"compiler"`
	CFlags       Argv     `yaml:"cflags"`
	Linker       Argv     `yaml:"linker"`
	LDFlags      Argv     `yaml:"ldflags"`
	Libs         Argv     `yaml:"libs"`
	SelfCompiler Argv     `yaml:"self_compiler"`
	Jobs         *int     `yaml:"jobs"`
	KeepGoing    *bool    `yaml:"keep_going"`
	SelfSources  []string `yaml:"self_sources"`
}

// ProjectDTO describes the C project built by the reference driver.
type ProjectDTO struct {
	Name     string   `yaml:"name"`
	Root     string   `yaml:"root"`
	Sources  []string `yaml:"sources"`
	Include  []string `yaml:"include"`
	BuildDir string   `yaml:"build_dir"`
}

// Argv is a list of arguments written either as a sequence or as a single
// whitespace-separated string.
type Argv []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Argv) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*a = strings.Fields(s)
		return nil
	}

	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*a = list
	return nil
}
