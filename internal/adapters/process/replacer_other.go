//go:build !unix

package process

// Replace runs binary as a child and exits with its status, since the
// platform cannot replace a process image.
func (r *Replacer) Replace(binary string, args []string) error {
	path, err := resolve(binary)
	if err != nil {
		return err
	}
	return r.spawn(path, args)
}
