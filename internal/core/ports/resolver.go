package ports

// InputResolver defines the interface for resolving source patterns.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type InputResolver interface {
	// ResolveInputs expands the given glob patterns relative to root into a
	// sorted, de-duplicated list of existing file paths.
	ResolveInputs(inputs []string, root string) ([]string, error)
}
