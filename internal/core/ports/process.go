package ports

// ProcessReplacer replaces the running build program with another binary.
//
//go:generate mockgen -source=process.go -destination=mocks/mock_process.go -package=mocks
type ProcessReplacer interface {
	// Replace runs binary with args (args[0] included) in place of the current
	// process, keeping the environment. It only returns on failure.
	Replace(binary string, args []string) error
}
