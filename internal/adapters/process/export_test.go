package process

// NewReplacerWithExit creates a Replacer reporting the exit code instead of exiting.
func NewReplacerWithExit(exit func(code int)) *Replacer {
	return &Replacer{exit: exit}
}

// SpawnExported runs binary as a child the way non-unix platforms replace the process.
func (r *Replacer) SpawnExported(binary string, args []string) error {
	path, err := resolve(binary)
	if err != nil {
		return err
	}
	return r.spawn(path, args)
}
