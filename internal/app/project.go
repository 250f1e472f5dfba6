package app

import (
	"fmt"
	"path/filepath"

	"go.trai.ch/nob/internal/core/domain"
	"go.trai.ch/nob/internal/core/ports"
	"go.trai.ch/zerr"
)

// projectPlan is the target graph of a C project.
type projectPlan struct {
	// binary is the linked executable and the default build root.
	binary *domain.Target
	// buildDir receives objects and the binary.
	buildDir string
	// sources are the discovered translation units.
	sources []string
}

// planProject builds one object per translation unit and links them into the
// project binary. Include files become dependencies of every object.
func planProject(project domain.Project, cfg domain.Config, resolver ports.InputResolver) (*projectPlan, error) {
	sources, err := resolver.ResolveInputs(project.Sources, project.Root)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, zerr.With(domain.ErrNoSources, "patterns", fmt.Sprint(project.Sources))
	}

	var includes []*domain.Target
	if len(project.Include) > 0 {
		paths, err := resolver.ResolveInputs(project.Include, project.Root)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			includes = append(includes, domain.Source(p))
		}
	}

	buildDir := filepath.Join(project.Root, project.BuildDir)
	binaryPath := filepath.Join(buildDir, project.Name)

	link := domain.NewCommand(cfg.Linker...)
	objects := make([]*domain.Target, 0, len(sources))
	for _, src := range sources {
		obj := domain.ObjectPath(buildDir, src)

		compile := domain.NewCommand(cfg.Compiler...)
		compile.Append(cfg.CFlags...)
		compile.Append("-c", src, "-o", obj)

		target := domain.NewTarget(obj, compile, domain.Source(src))
		target.AddDeps(includes...)
		objects = append(objects, target)
		link.Append(obj)
	}

	link.Append("-o", binaryPath)
	link.Append(cfg.LDFlags...)
	link.Append(cfg.Libs...)

	return &projectPlan{
		binary:   domain.NewTarget(binaryPath, link, objects...),
		buildDir: buildDir,
		sources:  sources,
	}, nil
}

// find returns the target producing output. Bare names are looked up inside
// the build directory.
func (p *projectPlan) find(output string) (*domain.Target, error) {
	if output == "" {
		return p.binary, nil
	}

	graph, err := domain.NewGraphFrom(p.binary)
	if err != nil {
		return nil, err
	}
	for _, candidate := range []string{output, filepath.Join(p.buildDir, output)} {
		if t, ok := graph.GetTarget(domain.NewInternedString(filepath.Clean(candidate))); ok {
			return t, nil
		}
	}
	return nil, zerr.With(domain.ErrTargetNotFound, "target", output)
}
