package fs

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/nob/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// recursiveWildcard matches any number of directories in a pattern.
const recursiveWildcard = "**"

// Resolver implements the InputResolver interface using filepath.Glob.
// Patterns containing "**" are expanded by walking the directory before it.
type Resolver struct {
	walker *Walker
}

// NewResolver creates a new Resolver.
func NewResolver(walker *Walker) *Resolver {
	if walker == nil {
		walker = NewWalker()
	}
	return &Resolver{walker: walker}
}

// ResolveInputs resolves the given input patterns to a list of concrete file paths.
// A glob matching nothing contributes no paths; a literal path that does not
// exist is an error.
func (r *Resolver) ResolveInputs(inputs []string, root string) ([]string, error) {
	uniquePaths := make(map[string]bool)

	for _, input := range inputs {
		path := filepath.Join(root, input)

		var matches []string
		var err error
		if strings.Contains(input, recursiveWildcard) {
			matches, err = r.resolveRecursive(path)
		} else {
			matches, err = filepath.Glob(path)
		}
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "path", path)
		}

		if len(matches) == 0 && !hasMeta(input) {
			return nil, zerr.With(zerr.New("input not found"), "path", path)
		}

		for _, match := range matches {
			uniquePaths[match] = true
		}
	}

	result := make([]string, 0, len(uniquePaths))
	for path := range uniquePaths {
		result = append(result, path)
	}
	slices.Sort(result)

	return result, nil
}

// resolveRecursive expands "dir/**/pattern" by walking dir and matching the
// remainder against each file's path relative to dir.
func (r *Resolver) resolveRecursive(path string) ([]string, error) {
	base, rest, _ := strings.Cut(filepath.ToSlash(path), recursiveWildcard)
	base = filepath.FromSlash(strings.TrimSuffix(base, "/"))
	if base == "" {
		base = "."
	}
	rest = strings.TrimPrefix(rest, "/")
	if rest == "" {
		rest = "*"
	}
	if _, err := filepath.Match(rest, ""); err != nil {
		return nil, err
	}

	var matches []string
	for file := range r.walker.WalkFiles(base, nil) {
		rel, err := filepath.Rel(base, file)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		subject := rel
		if !strings.Contains(rest, "/") {
			subject = filepath.Base(file)
		}
		if ok, _ := filepath.Match(rest, subject); ok {
			matches = append(matches, file)
		}
	}
	return matches, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, `*?[\`)
}
